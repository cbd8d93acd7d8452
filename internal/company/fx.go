package company

import (
	"github.com/hrplane/hrplane/internal/company/repository"
	"github.com/hrplane/hrplane/internal/company/service"
	"go.uber.org/fx"
)

var Module = fx.Module("company",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
