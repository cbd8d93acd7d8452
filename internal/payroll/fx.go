package payroll

import (
	"github.com/hrplane/hrplane/internal/payroll/repository"
	"github.com/hrplane/hrplane/internal/payroll/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payroll",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
