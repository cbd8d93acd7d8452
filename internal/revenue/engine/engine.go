// Package engine folds billing rollup rows into the platform revenue
// summary. Pure computation, no persistence.
package engine

import (
	"fmt"

	"github.com/hrplane/hrplane/internal/revenue/domain"
	"github.com/shopspring/decimal"
)

var months = decimal.NewFromInt(12)

// Summarize computes MRR, ARR and the per-tier breakdown. Base MRR counts
// every plan assignment, including suspended companies; only add-ons are
// filtered to active subscriptions upstream. The per-tier map always sums
// to the base MRR. Negative amounts fail fast rather than folding into the
// rollup.
func Summarize(
	billings []domain.BillingRollupRow,
	addons []domain.AddonRollupRow,
	invoices domain.InvoiceSummary,
) (domain.RevenueSummary, error) {
	summary := domain.RevenueSummary{
		BaseMRR:       decimal.Zero,
		AddonMRR:      decimal.Zero,
		RevenueByTier: map[string]decimal.Decimal{},
		CompanyCount:  len(billings),
		Invoices:      invoices,
	}

	for _, row := range billings {
		if row.MonthlyTotal.IsNegative() {
			return domain.RevenueSummary{}, fmt.Errorf("%w: negative monthly total for company %s", domain.ErrInvalidInput, row.CompanyID)
		}
		summary.BaseMRR = summary.BaseMRR.Add(row.MonthlyTotal)
		tier := summary.RevenueByTier[row.Tier]
		summary.RevenueByTier[row.Tier] = tier.Add(row.MonthlyTotal)
	}

	for _, row := range addons {
		if row.MonthlyPrice.IsNegative() {
			return domain.RevenueSummary{}, fmt.Errorf("%w: negative price for add-on %s", domain.ErrInvalidInput, row.Code)
		}
		summary.AddonMRR = summary.AddonMRR.Add(row.MonthlyPrice)
	}
	summary.ActiveAddonCount = len(addons)

	summary.TotalMRR = summary.BaseMRR.Add(summary.AddonMRR)
	summary.ARR = summary.TotalMRR.Mul(months)
	return summary, nil
}
