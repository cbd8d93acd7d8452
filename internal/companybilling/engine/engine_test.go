package engine

import (
	"testing"
	"time"

	addondomain "github.com/hrplane/hrplane/internal/addon/domain"
	plandomain "github.com/hrplane/hrplane/internal/billingplan/domain"
	"github.com/hrplane/hrplane/internal/companybilling/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func growthPlan() *plandomain.BillingPlan {
	return &plandomain.BillingPlan{
		ID:                1,
		Tier:              "growth",
		BasePrice:         d("100"),
		YearlyBasePrice:   d("1000"),
		PricePerEmployee:  d("5"),
		PricePerUser:      d("10"),
		IncludedEmployees: 10,
		IncludedUsers:     3,
		IsActive:          true,
	}
}

func TestComputeMonthlyTotal(t *testing.T) {
	plan := growthPlan()

	t.Run("overage beyond included quotas", func(t *testing.T) {
		total, err := ComputeMonthlyTotal(plan, 13, 4)
		require.NoError(t, err)
		assert.True(t, total.Equal(d("125")), "got %s", total)
	})

	t.Run("at quota pays base only", func(t *testing.T) {
		total, err := ComputeMonthlyTotal(plan, 10, 3)
		require.NoError(t, err)
		assert.True(t, total.Equal(d("100")), "got %s", total)
	})

	t.Run("under quota never discounts below base", func(t *testing.T) {
		total, err := ComputeMonthlyTotal(plan, 2, 1)
		require.NoError(t, err)
		assert.True(t, total.Equal(d("100")), "got %s", total)
	})

	t.Run("zero priced plan", func(t *testing.T) {
		free := &plandomain.BillingPlan{Tier: "free", IncludedEmployees: 5, IncludedUsers: 2}
		total, err := ComputeMonthlyTotal(free, 8, 2)
		require.NoError(t, err)
		assert.True(t, total.IsZero(), "got %s", total)
	})

	t.Run("monotonic in headcount", func(t *testing.T) {
		prev := decimal.Zero
		for emp := 0; emp <= 30; emp++ {
			total, err := ComputeMonthlyTotal(plan, emp, 3)
			require.NoError(t, err)
			assert.True(t, total.GreaterThanOrEqual(prev), "total decreased at %d employees", emp)
			prev = total
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := ComputeMonthlyTotal(nil, 1, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = ComputeMonthlyTotal(plan, -1, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = ComputeMonthlyTotal(plan, 1, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		bad := growthPlan()
		bad.PricePerUser = d("-1")
		_, err = ComputeMonthlyTotal(bad, 1, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestBuildInvoice(t *testing.T) {
	plan := growthPlan()
	periodStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	t.Run("monthly cycle with overage", func(t *testing.T) {
		billing := &domain.CompanyBilling{
			BillingCycle:     domain.BillingCycleMonthly,
			CurrentEmployees: 13,
			CurrentUsers:     4,
		}
		draft, err := BuildInvoice(billing, plan, nil, periodStart, periodEnd)
		require.NoError(t, err)

		assert.True(t, draft.BaseAmount.Equal(d("100")))
		assert.True(t, draft.EmployeeAmount.Equal(d("15")))
		assert.True(t, draft.UserAmount.Equal(d("10")))
		assert.True(t, draft.AddonAmount.IsZero())
		assert.True(t, draft.TotalAmount.Equal(d("125")), "got %s", draft.TotalAmount)

		require.Len(t, draft.Lines, 3)
		assert.Equal(t, "growth plan (monthly)", draft.Lines[0].Description)
		assert.Equal(t, int64(3), draft.Lines[1].Quantity)
		assert.Equal(t, int64(1), draft.Lines[2].Quantity)
	})

	t.Run("zero base plan emits no base line", func(t *testing.T) {
		free := &plandomain.BillingPlan{
			Tier:              "free",
			PricePerEmployee:  d("2"),
			IncludedEmployees: 5,
		}
		billing := &domain.CompanyBilling{
			BillingCycle:     domain.BillingCycleMonthly,
			CurrentEmployees: 7,
		}
		draft, err := BuildInvoice(billing, free, nil, periodStart, periodEnd)
		require.NoError(t, err)

		assert.True(t, draft.BaseAmount.IsZero())
		assert.True(t, draft.TotalAmount.Equal(d("4")), "got %s", draft.TotalAmount)
		require.Len(t, draft.Lines, 1)
		assert.Equal(t, "employee overage (2 over 5 included)", draft.Lines[0].Description)
		assert.Equal(t, 0, draft.Lines[0].Position)
	})

	t.Run("yearly cycle bills yearly base", func(t *testing.T) {
		billing := &domain.CompanyBilling{
			BillingCycle:     domain.BillingCycleYearly,
			CurrentEmployees: 8,
			CurrentUsers:     2,
		}
		draft, err := BuildInvoice(billing, plan, nil, periodStart, periodEnd)
		require.NoError(t, err)

		assert.True(t, draft.TotalAmount.Equal(d("1000")), "got %s", draft.TotalAmount)
		require.Len(t, draft.Lines, 1)
		assert.Equal(t, "growth plan (yearly)", draft.Lines[0].Description)
	})

	t.Run("yearly overage uses monthly per unit rates", func(t *testing.T) {
		billing := &domain.CompanyBilling{
			BillingCycle:     domain.BillingCycleYearly,
			CurrentEmployees: 12,
			CurrentUsers:     3,
		}
		draft, err := BuildInvoice(billing, plan, nil, periodStart, periodEnd)
		require.NoError(t, err)
		assert.True(t, draft.BaseAmount.Equal(d("1000")))
		assert.True(t, draft.EmployeeAmount.Equal(d("10")))
		assert.True(t, draft.TotalAmount.Equal(d("1010")), "got %s", draft.TotalAmount)
	})

	t.Run("addons filtered by period overlap and ordered by code", func(t *testing.T) {
		billing := &domain.CompanyBilling{
			BillingCycle:     domain.BillingCycleMonthly,
			CurrentEmployees: 5,
			CurrentUsers:     2,
		}
		feb := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
		expired := time.Date(2025, time.February, 20, 0, 0, 0, 0, time.UTC)
		april := periodEnd.AddDate(0, 0, 5)
		addons := []addondomain.ActiveAddonView{
			{Code: "reports", Name: "Advanced Reports", MonthlyPrice: d("30"), ActivatedAt: feb},
			{Code: "api", Name: "API Access", MonthlyPrice: d("20"), ActivatedAt: feb},
			{Code: "sso", Name: "Single Sign-On", MonthlyPrice: d("50"), ActivatedAt: feb, ExpiresAt: &expired},
			{Code: "audit", Name: "Audit Trail", MonthlyPrice: d("15"), ActivatedAt: april},
		}

		draft, err := BuildInvoice(billing, plan, addons, periodStart, periodEnd)
		require.NoError(t, err)

		assert.True(t, draft.AddonAmount.Equal(d("50")), "got %s", draft.AddonAmount)
		require.Len(t, draft.Lines, 3)
		assert.Equal(t, "add-on: API Access", draft.Lines[1].Description)
		assert.Equal(t, "add-on: Advanced Reports", draft.Lines[2].Description)
		assert.Equal(t, 2, draft.Lines[2].Position)
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		billing := &domain.CompanyBilling{
			BillingCycle:     domain.BillingCycleMonthly,
			CurrentEmployees: 13,
			CurrentUsers:     4,
		}
		first, err := BuildInvoice(billing, plan, nil, periodStart, periodEnd)
		require.NoError(t, err)
		second, err := BuildInvoice(billing, plan, nil, periodStart, periodEnd)
		require.NoError(t, err)

		assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
		require.Equal(t, len(first.Lines), len(second.Lines))
		for i := range first.Lines {
			assert.Equal(t, first.Lines[i].Description, second.Lines[i].Description)
			assert.True(t, first.Lines[i].Amount.Equal(second.Lines[i].Amount))
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		billing := &domain.CompanyBilling{BillingCycle: domain.BillingCycleMonthly}

		_, err := BuildInvoice(nil, plan, nil, periodStart, periodEnd)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = BuildInvoice(billing, nil, nil, periodStart, periodEnd)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = BuildInvoice(billing, plan, nil, periodEnd, periodStart)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		negative := &domain.CompanyBilling{BillingCycle: domain.BillingCycleMonthly, CurrentEmployees: -1}
		_, err = BuildInvoice(negative, plan, nil, periodStart, periodEnd)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
