package addon

import (
	"github.com/hrplane/hrplane/internal/addon/repository"
	"github.com/hrplane/hrplane/internal/addon/service"
	"go.uber.org/fx"
)

var Module = fx.Module("addon",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
