package revenue

import (
	"github.com/hrplane/hrplane/internal/revenue/repository"
	"github.com/hrplane/hrplane/internal/revenue/service"
	"go.uber.org/fx"
)

var Module = fx.Module("revenue",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
