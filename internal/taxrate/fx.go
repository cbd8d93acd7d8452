package taxrate

import (
	"github.com/hrplane/hrplane/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the statutory tax-rate table.
var Module = fx.Module("taxrate",
	fx.Provide(func(cfg config.Config, log *zap.Logger) (*Table, error) {
		return Load(cfg.TaxRateFile, log)
	}),
)
