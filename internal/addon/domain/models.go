// Package domain contains persistence models for feature add-ons.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// AddonStatus represents a company add-on subscription state.
type AddonStatus string

const (
	AddonStatusActive    AddonStatus = "ACTIVE"
	AddonStatusCancelled AddonStatus = "CANCELLED"
)

// FeatureAddon is a flat-priced feature in the platform catalog.
type FeatureAddon struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	Code         string          `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Name         string          `gorm:"type:text;not null" json:"name"`
	MonthlyPrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"monthly_price"`
	IsActive     bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (FeatureAddon) TableName() string { return "feature_addons" }

// CompanyAddon links a company to a feature add-on. A company can hold each
// add-on at most once; while ACTIVE it contributes its flat monthly price to
// invoices and revenue rollups.
type CompanyAddon struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID      snowflake.ID `gorm:"not null;uniqueIndex:ux_company_addon" json:"company_id"`
	FeatureAddonID snowflake.ID `gorm:"not null;uniqueIndex:ux_company_addon" json:"feature_addon_id"`
	Status         AddonStatus  `gorm:"type:text;not null;default:'ACTIVE'" json:"status"`
	ActivatedAt    time.Time    `gorm:"not null" json:"activated_at"`
	ExpiresAt      *time.Time   `gorm:"" json:"expires_at,omitempty"`
	CancelledAt    *time.Time   `gorm:"" json:"cancelled_at,omitempty"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CompanyAddon) TableName() string { return "company_addons" }

// ActiveAddonView joins a company add-on with its catalog price for billing
// and revenue aggregation.
type ActiveAddonView struct {
	CompanyAddonID snowflake.ID    `gorm:"column:company_addon_id" json:"company_addon_id"`
	CompanyID      snowflake.ID    `gorm:"column:company_id" json:"company_id"`
	Code           string          `gorm:"column:code" json:"code"`
	Name           string          `gorm:"column:name" json:"name"`
	MonthlyPrice   decimal.Decimal `gorm:"column:monthly_price" json:"monthly_price"`
	ActivatedAt    time.Time       `gorm:"column:activated_at" json:"activated_at"`
	ExpiresAt      *time.Time      `gorm:"column:expires_at" json:"expires_at,omitempty"`
}
