package audit

import (
	"github.com/hrplane/hrplane/internal/audit/repository"
	"github.com/hrplane/hrplane/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
