package migration

import (
	"github.com/bwmarrin/snowflake"
	addondomain "github.com/hrplane/hrplane/internal/addon/domain"
	auditdomain "github.com/hrplane/hrplane/internal/audit/domain"
	plandomain "github.com/hrplane/hrplane/internal/billingplan/domain"
	companydomain "github.com/hrplane/hrplane/internal/company/domain"
	billingdomain "github.com/hrplane/hrplane/internal/companybilling/domain"
	"github.com/hrplane/hrplane/internal/config"
	employeedomain "github.com/hrplane/hrplane/internal/employee/domain"
	payrolldomain "github.com/hrplane/hrplane/internal/payroll/domain"
	"github.com/hrplane/hrplane/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
		// Versioned SQL migrations run on postgres; the other dialects are
		// for local development and tests, where AutoMigrate is enough.
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			err := conn.AutoMigrate(
				&companydomain.Company{},
				&companydomain.User{},
				&employeedomain.Employee{},
				&plandomain.BillingPlan{},
				&billingdomain.CompanyBilling{},
				&billingdomain.BillingInvoice{},
				&billingdomain.InvoiceLineItem{},
				&addondomain.FeatureAddon{},
				&addondomain.CompanyAddon{},
				&payrolldomain.PayrollRecord{},
				&payrolldomain.Adjustment{},
				&auditdomain.AuditLog{},
			)
			if err != nil {
				return err
			}
		}

		return seed.EnsureCatalog(conn, node)
	}),
)
