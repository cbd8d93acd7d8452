// Package engine computes subscription charges and builds invoice drafts.
// It is pure: no persistence, no clock, all inputs passed in.
package engine

import (
	"fmt"
	"sort"
	"time"

	addondomain "github.com/hrplane/hrplane/internal/addon/domain"
	plandomain "github.com/hrplane/hrplane/internal/billingplan/domain"
	"github.com/hrplane/hrplane/internal/companybilling/domain"
	"github.com/shopspring/decimal"
)

// Draft is an invoice computed for one billing period, not yet numbered or
// persisted.
type Draft struct {
	BaseAmount     decimal.Decimal
	EmployeeAmount decimal.Decimal
	UserAmount     decimal.Decimal
	AddonAmount    decimal.Decimal
	TotalAmount    decimal.Decimal
	Lines          []domain.InvoiceLineItem
}

// ComputeMonthlyTotal returns the recurring monthly charge for a company on
// the given plan: base price plus per-unit overage beyond the included
// quotas. Headcounts at or under quota incur no overage.
func ComputeMonthlyTotal(plan *plandomain.BillingPlan, employees, users int) (decimal.Decimal, error) {
	if err := validatePlan(plan); err != nil {
		return decimal.Zero, err
	}
	if err := validateCounts(employees, users); err != nil {
		return decimal.Zero, err
	}

	total := plan.BasePrice
	if over := employees - plan.IncludedEmployees; over > 0 {
		total = total.Add(plan.PricePerEmployee.Mul(decimal.NewFromInt(int64(over))))
	}
	if over := users - plan.IncludedUsers; over > 0 {
		total = total.Add(plan.PricePerUser.Mul(decimal.NewFromInt(int64(over))))
	}
	return total, nil
}

// BuildInvoice assembles the line items for one billing period. The base
// line follows the billing cycle (yearly plans are charged the yearly base
// price), while overage lines always use the monthly per-unit rates. Add-ons
// contribute their flat monthly price when their active window overlaps the
// period.
func BuildInvoice(
	billing *domain.CompanyBilling,
	plan *plandomain.BillingPlan,
	addons []addondomain.ActiveAddonView,
	periodStart, periodEnd time.Time,
) (Draft, error) {
	if billing == nil {
		return Draft{}, fmt.Errorf("%w: company billing is required", domain.ErrInvalidInput)
	}
	if err := validatePlan(plan); err != nil {
		return Draft{}, err
	}
	if err := validateCounts(billing.CurrentEmployees, billing.CurrentUsers); err != nil {
		return Draft{}, err
	}
	if !periodStart.Before(periodEnd) {
		return Draft{}, fmt.Errorf("%w: period start must precede period end", domain.ErrInvalidInput)
	}

	base := plan.BasePrice
	cycleLabel := "monthly"
	if billing.BillingCycle == domain.BillingCycleYearly {
		base = plan.YearlyBasePrice
		cycleLabel = "yearly"
	}

	draft := Draft{
		BaseAmount:     base,
		EmployeeAmount: decimal.Zero,
		UserAmount:     decimal.Zero,
		AddonAmount:    decimal.Zero,
	}
	// Free plans carry no base line; positions start at the first charge.
	if base.IsPositive() {
		draft.Lines = append(draft.Lines, domain.InvoiceLineItem{
			Position:    0,
			Description: fmt.Sprintf("%s plan (%s)", plan.Tier, cycleLabel),
			Quantity:    1,
			UnitPrice:   base,
			Amount:      base,
		})
	}

	if over := billing.CurrentEmployees - plan.IncludedEmployees; over > 0 {
		amount := plan.PricePerEmployee.Mul(decimal.NewFromInt(int64(over)))
		draft.EmployeeAmount = amount
		draft.Lines = append(draft.Lines, domain.InvoiceLineItem{
			Position:    len(draft.Lines),
			Description: fmt.Sprintf("employee overage (%d over %d included)", over, plan.IncludedEmployees),
			Quantity:    int64(over),
			UnitPrice:   plan.PricePerEmployee,
			Amount:      amount,
		})
	}

	if over := billing.CurrentUsers - plan.IncludedUsers; over > 0 {
		amount := plan.PricePerUser.Mul(decimal.NewFromInt(int64(over)))
		draft.UserAmount = amount
		draft.Lines = append(draft.Lines, domain.InvoiceLineItem{
			Position:    len(draft.Lines),
			Description: fmt.Sprintf("user overage (%d over %d included)", over, plan.IncludedUsers),
			Quantity:    int64(over),
			UnitPrice:   plan.PricePerUser,
			Amount:      amount,
		})
	}

	billable := filterBillableAddons(addons, periodStart, periodEnd)
	sort.Slice(billable, func(i, j int) bool { return billable[i].Code < billable[j].Code })
	for _, a := range billable {
		if a.MonthlyPrice.IsNegative() {
			return Draft{}, fmt.Errorf("%w: addon %s has negative price", domain.ErrInvalidInput, a.Code)
		}
		draft.AddonAmount = draft.AddonAmount.Add(a.MonthlyPrice)
		draft.Lines = append(draft.Lines, domain.InvoiceLineItem{
			Position:    len(draft.Lines),
			Description: fmt.Sprintf("add-on: %s", a.Name),
			Quantity:    1,
			UnitPrice:   a.MonthlyPrice,
			Amount:      a.MonthlyPrice,
		})
	}

	draft.TotalAmount = draft.BaseAmount.
		Add(draft.EmployeeAmount).
		Add(draft.UserAmount).
		Add(draft.AddonAmount)
	return draft, nil
}

// filterBillableAddons keeps add-ons whose active window overlaps the period:
// activated on or before the period end and not expired before the period
// start.
func filterBillableAddons(addons []addondomain.ActiveAddonView, periodStart, periodEnd time.Time) []addondomain.ActiveAddonView {
	out := make([]addondomain.ActiveAddonView, 0, len(addons))
	for _, a := range addons {
		if a.ActivatedAt.After(periodEnd) {
			continue
		}
		if a.ExpiresAt != nil && a.ExpiresAt.Before(periodStart) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func validatePlan(plan *plandomain.BillingPlan) error {
	if plan == nil {
		return fmt.Errorf("%w: billing plan is required", domain.ErrInvalidInput)
	}
	if plan.BasePrice.IsNegative() || plan.YearlyBasePrice.IsNegative() ||
		plan.PricePerEmployee.IsNegative() || plan.PricePerUser.IsNegative() {
		return fmt.Errorf("%w: plan prices must not be negative", domain.ErrInvalidInput)
	}
	if plan.IncludedEmployees < 0 || plan.IncludedUsers < 0 {
		return fmt.Errorf("%w: included quotas must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

func validateCounts(employees, users int) error {
	if employees < 0 {
		return fmt.Errorf("%w: employee count must not be negative", domain.ErrInvalidInput)
	}
	if users < 0 {
		return fmt.Errorf("%w: user count must not be negative", domain.ErrInvalidInput)
	}
	return nil
}
