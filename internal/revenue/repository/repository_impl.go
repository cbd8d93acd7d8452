package repository

import (
	"context"

	"github.com/hrplane/hrplane/internal/revenue/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// ListBillingRollup joins plan assignments with their tier. No company
// status filter: suspended companies keep contributing until their plan
// assignment is removed.
func (r *repo) ListBillingRollup(ctx context.Context, db *gorm.DB) ([]domain.BillingRollupRow, error) {
	var rows []domain.BillingRollupRow
	err := db.WithContext(ctx).Raw(
		`SELECT cb.company_id AS company_id,
		        bp.tier AS tier,
		        cb.monthly_total AS monthly_total
		 FROM company_billings cb
		 JOIN billing_plans bp ON bp.id = cb.billing_plan_id
		 ORDER BY cb.company_id ASC`,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListAddonRollup(ctx context.Context, db *gorm.DB) ([]domain.AddonRollupRow, error) {
	var rows []domain.AddonRollupRow
	err := db.WithContext(ctx).Raw(
		`SELECT ca.company_id AS company_id,
		        fa.code AS code,
		        fa.monthly_price AS monthly_price
		 FROM company_addons ca
		 JOIN feature_addons fa ON fa.id = ca.feature_addon_id
		 WHERE ca.status = ?
		 ORDER BY ca.company_id ASC, fa.code ASC`,
		"ACTIVE",
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) SummarizeInvoices(ctx context.Context, db *gorm.DB) (domain.InvoiceSummary, error) {
	var summary domain.InvoiceSummary
	err := db.WithContext(ctx).Raw(
		`SELECT
			COALESCE(SUM(CASE WHEN status = 'PAID' THEN total_amount END), 0) AS paid_total,
			COUNT(CASE WHEN status = 'PAID' THEN 1 END) AS paid_count,
			COALESCE(SUM(CASE WHEN status IN ('PENDING', 'OVERDUE') THEN total_amount END), 0) AS outstanding_total,
			COUNT(CASE WHEN status IN ('PENDING', 'OVERDUE') THEN 1 END) AS outstanding_count
		 FROM billing_invoices`,
	).Scan(&summary).Error
	if err != nil {
		return domain.InvoiceSummary{}, err
	}
	return summary, nil
}
