// Package domain contains persistence models for billing plans.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// BillingPlan is a priced tier with included quotas. Administrative price
// updates never rewrite invoices already generated against the plan.
type BillingPlan struct {
	ID                snowflake.ID    `gorm:"primaryKey" json:"id"`
	Tier              string          `gorm:"type:text;not null;uniqueIndex" json:"tier"`
	BasePrice         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"base_price"`
	YearlyBasePrice   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"yearly_base_price"`
	PricePerEmployee  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price_per_employee"`
	PricePerUser      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"price_per_user"`
	IncludedEmployees int             `gorm:"not null" json:"included_employees"`
	IncludedUsers     int             `gorm:"not null" json:"included_users"`
	IsActive          bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (BillingPlan) TableName() string { return "billing_plans" }
