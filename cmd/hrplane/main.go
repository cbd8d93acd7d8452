package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/internal/clock"
	"github.com/hrplane/hrplane/internal/config"
	"github.com/hrplane/hrplane/internal/logger"
	"github.com/hrplane/hrplane/internal/migration"
	"github.com/hrplane/hrplane/internal/scheduler"
	"github.com/hrplane/hrplane/internal/server"
	"github.com/hrplane/hrplane/pkg/crypto"
	"github.com/hrplane/hrplane/pkg/db"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

func main() {
	decimal.MarshalJSONWithoutQuotes = true

	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		db.Module,
		fx.Provide(registerSnowflake),
		fx.Provide(registerCrypto),

		migration.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func registerCrypto(cfg config.Config) (*crypto.Service, error) {
	return crypto.New(cfg.EncryptionKey)
}
