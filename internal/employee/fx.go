package employee

import (
	"github.com/hrplane/hrplane/internal/employee/repository"
	"github.com/hrplane/hrplane/internal/employee/service"
	"go.uber.org/fx"
)

var Module = fx.Module("employee",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
