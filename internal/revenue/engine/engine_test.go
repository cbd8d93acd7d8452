package engine

import (
	"testing"

	"github.com/hrplane/hrplane/internal/revenue/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestSummarize(t *testing.T) {
	t.Run("platform rollup", func(t *testing.T) {
		billings := []domain.BillingRollupRow{
			{CompanyID: 1, Tier: "starter", MonthlyTotal: d("50")},
			{CompanyID: 2, Tier: "growth", MonthlyTotal: d("125")},
			{CompanyID: 3, Tier: "growth", MonthlyTotal: d("125")},
		}
		addons := []domain.AddonRollupRow{
			{CompanyID: 2, Code: "sso", MonthlyPrice: d("20")},
		}

		summary, err := Summarize(billings, addons, domain.InvoiceSummary{})
		require.NoError(t, err)

		assert.True(t, summary.BaseMRR.Equal(d("300")), "got %s", summary.BaseMRR)
		assert.True(t, summary.AddonMRR.Equal(d("20")), "got %s", summary.AddonMRR)
		assert.True(t, summary.TotalMRR.Equal(d("320")), "got %s", summary.TotalMRR)
		assert.True(t, summary.ARR.Equal(d("3840")), "got %s", summary.ARR)
		assert.Equal(t, 3, summary.CompanyCount)
		assert.Equal(t, 1, summary.ActiveAddonCount)
		assert.True(t, summary.RevenueByTier["starter"].Equal(d("50")))
		assert.True(t, summary.RevenueByTier["growth"].Equal(d("250")))
	})

	t.Run("tier breakdown sums to base MRR", func(t *testing.T) {
		billings := []domain.BillingRollupRow{
			{CompanyID: 1, Tier: "starter", MonthlyTotal: d("49.99")},
			{CompanyID: 2, Tier: "growth", MonthlyTotal: d("125.01")},
			{CompanyID: 3, Tier: "enterprise", MonthlyTotal: d("999")},
			{CompanyID: 4, Tier: "starter", MonthlyTotal: d("50")},
		}

		summary, err := Summarize(billings, nil, domain.InvoiceSummary{})
		require.NoError(t, err)

		sum := decimal.Zero
		for _, v := range summary.RevenueByTier {
			sum = sum.Add(v)
		}
		assert.True(t, sum.Equal(summary.BaseMRR), "tiers %s vs base %s", sum, summary.BaseMRR)
	})

	t.Run("empty platform", func(t *testing.T) {
		summary, err := Summarize(nil, nil, domain.InvoiceSummary{})
		require.NoError(t, err)

		assert.True(t, summary.BaseMRR.IsZero())
		assert.True(t, summary.TotalMRR.IsZero())
		assert.True(t, summary.ARR.IsZero())
		assert.Empty(t, summary.RevenueByTier)
		assert.Zero(t, summary.CompanyCount)
	})

	t.Run("invoice summary passes through", func(t *testing.T) {
		invoices := domain.InvoiceSummary{
			PaidTotal:        d("450"),
			PaidCount:        3,
			OutstandingTotal: d("125"),
			OutstandingCount: 1,
		}
		summary, err := Summarize(nil, nil, invoices)
		require.NoError(t, err)
		assert.Equal(t, invoices, summary.Invoices)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		billings := []domain.BillingRollupRow{
			{CompanyID: 1, Tier: "starter", MonthlyTotal: d("-50")},
		}
		_, err := Summarize(billings, nil, domain.InvoiceSummary{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		addons := []domain.AddonRollupRow{
			{CompanyID: 1, Code: "sso", MonthlyPrice: d("-20")},
		}
		_, err = Summarize(nil, addons, domain.InvoiceSummary{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
