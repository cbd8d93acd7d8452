package companybilling

import (
	"github.com/hrplane/hrplane/internal/companybilling/repository"
	"github.com/hrplane/hrplane/internal/companybilling/service"
	"go.uber.org/fx"
)

var Module = fx.Module("companybilling",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
