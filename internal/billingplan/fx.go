package billingplan

import (
	"github.com/hrplane/hrplane/internal/billingplan/repository"
	"github.com/hrplane/hrplane/internal/billingplan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billingplan",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
