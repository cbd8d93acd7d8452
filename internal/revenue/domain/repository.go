package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListBillingRollup(ctx context.Context, db *gorm.DB) ([]BillingRollupRow, error)
	ListAddonRollup(ctx context.Context, db *gorm.DB) ([]AddonRollupRow, error)
	SummarizeInvoices(ctx context.Context, db *gorm.DB) (InvoiceSummary, error)
}
