// Package domain contains the revenue rollup read models. Nothing here is
// persisted; rows are projections over billing tables.
package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// BillingRollupRow is one company's recurring charge joined with its plan
// tier. Every company with a plan assignment is included regardless of
// company status.
type BillingRollupRow struct {
	CompanyID    snowflake.ID    `gorm:"column:company_id" json:"company_id"`
	Tier         string          `gorm:"column:tier" json:"tier"`
	MonthlyTotal decimal.Decimal `gorm:"column:monthly_total" json:"monthly_total"`
}

// AddonRollupRow is one active add-on subscription with its catalog price.
type AddonRollupRow struct {
	CompanyID    snowflake.ID    `gorm:"column:company_id" json:"company_id"`
	Code         string          `gorm:"column:code" json:"code"`
	MonthlyPrice decimal.Decimal `gorm:"column:monthly_price" json:"monthly_price"`
}

// InvoiceSummary aggregates invoice totals by settlement state. OVERDUE
// counts as outstanding alongside PENDING.
type InvoiceSummary struct {
	PaidTotal        decimal.Decimal `gorm:"column:paid_total" json:"paid_total"`
	PaidCount        int64           `gorm:"column:paid_count" json:"paid_count"`
	OutstandingTotal decimal.Decimal `gorm:"column:outstanding_total" json:"outstanding_total"`
	OutstandingCount int64           `gorm:"column:outstanding_count" json:"outstanding_count"`
}

// RevenueSummary is the platform-wide rollup served to operators.
type RevenueSummary struct {
	BaseMRR          decimal.Decimal            `json:"base_mrr"`
	AddonMRR         decimal.Decimal            `json:"addon_mrr"`
	TotalMRR         decimal.Decimal            `json:"total_mrr"`
	ARR              decimal.Decimal            `json:"arr"`
	RevenueByTier    map[string]decimal.Decimal `json:"revenue_by_tier"`
	CompanyCount     int                        `json:"company_count"`
	ActiveAddonCount int                        `json:"active_addon_count"`
	Invoices         InvoiceSummary             `json:"invoices"`
}

// Service assembles the platform revenue rollup. It is operator-facing and
// not scoped to a tenant.
type Service interface {
	Summary(ctx context.Context) (RevenueSummary, error)
}
