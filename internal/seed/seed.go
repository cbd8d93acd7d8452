// Package seed installs the default plan and add-on catalog so a fresh
// install can assign plans immediately.
package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	addondomain "github.com/hrplane/hrplane/internal/addon/domain"
	plandomain "github.com/hrplane/hrplane/internal/billingplan/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type planSpec struct {
	Tier              string
	BasePrice         string
	YearlyBasePrice   string
	PricePerEmployee  string
	PricePerUser      string
	IncludedEmployees int
	IncludedUsers     int
}

type addonSpec struct {
	Code         string
	Name         string
	MonthlyPrice string
}

var defaultPlans = []planSpec{
	{"starter", "50", "500", "3", "5", 5, 2},
	{"growth", "100", "1000", "5", "10", 10, 3},
	{"enterprise", "400", "4000", "4", "8", 50, 15},
}

var defaultAddons = []addonSpec{
	{"sso", "Single Sign-On", "50"},
	{"api", "API Access", "20"},
	{"reports", "Advanced Reports", "30"},
}

// EnsureCatalog inserts missing default plans and add-ons. Existing rows are
// left untouched so price edits survive restarts.
func EnsureCatalog(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, spec := range defaultPlans {
			var plan plandomain.BillingPlan
			err := tx.WithContext(ctx).Where("tier = ?", spec.Tier).First(&plan).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			plan = plandomain.BillingPlan{
				ID:                node.Generate(),
				Tier:              spec.Tier,
				BasePrice:         decimal.RequireFromString(spec.BasePrice),
				YearlyBasePrice:   decimal.RequireFromString(spec.YearlyBasePrice),
				PricePerEmployee:  decimal.RequireFromString(spec.PricePerEmployee),
				PricePerUser:      decimal.RequireFromString(spec.PricePerUser),
				IncludedEmployees: spec.IncludedEmployees,
				IncludedUsers:     spec.IncludedUsers,
				IsActive:          true,
			}
			if err := tx.WithContext(ctx).Create(&plan).Error; err != nil {
				return err
			}
		}

		for _, spec := range defaultAddons {
			var addon addondomain.FeatureAddon
			err := tx.WithContext(ctx).Where("code = ?", spec.Code).First(&addon).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			addon = addondomain.FeatureAddon{
				ID:           node.Generate(),
				Code:         spec.Code,
				Name:         spec.Name,
				MonthlyPrice: decimal.RequireFromString(spec.MonthlyPrice),
				IsActive:     true,
			}
			if err := tx.WithContext(ctx).Create(&addon).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
