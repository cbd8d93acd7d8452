// Package engine computes gross, deduction, and net salary totals. It is a
// pure function of its inputs: no persistence, no shared state, safe for
// concurrent use.
package engine

import (
	"fmt"

	"github.com/hrplane/hrplane/internal/payroll/domain"
	"github.com/shopspring/decimal"
)

// Computation is the derived monetary output for one payroll record.
type Computation struct {
	GrossSalary           decimal.Decimal `json:"gross_salary"`
	TotalDeductions       decimal.Decimal `json:"total_deductions"`
	NetSalary             decimal.Decimal `json:"net_salary"`
	EmployerContributions decimal.Decimal `json:"employer_contributions"`
}

// Compute derives gross, total deductions, and net salary. Components are
// taken as already-decided amounts; attendance pro-ration is the caller's
// responsibility. Employer-side PF/ESI are reported separately and never
// reduce the net. Inputs are re-checked defensively even though the service
// validates first; a negative net is a caller data error and is rejected,
// not clamped.
func Compute(components domain.SalaryComponents, attendance domain.AttendanceSummary, deductions domain.DeductionSet) (Computation, error) {
	if err := ValidateComponents(components); err != nil {
		return Computation{}, err
	}
	if err := ValidateAttendance(attendance); err != nil {
		return Computation{}, err
	}
	if err := ValidateDeductions(deductions); err != nil {
		return Computation{}, err
	}

	gross := components.Basic.
		Add(components.HRA).
		Add(components.SpecialAllowance).
		Add(components.OtherAllowances)

	total := deductions.PFEmployee.
		Add(deductions.ESIEmployee).
		Add(deductions.TDS).
		Add(deductions.ProfessionalTax).
		Add(deductions.OtherDeductions)

	net := gross.Sub(total)
	if net.IsNegative() {
		return Computation{}, fmt.Errorf("%w: deductions %s exceed gross %s", domain.ErrInvalidInput, total, gross)
	}

	return Computation{
		GrossSalary:           gross,
		TotalDeductions:       total,
		NetSalary:             net,
		EmployerContributions: deductions.PFEmployer.Add(deductions.ESIEmployer),
	}, nil
}

// ApplyAdjustments recomputes totals with ad-hoc earnings and deductions
// folded in. Addition is commutative so the order of the slice never changes
// the result; the ordered list is kept only for audit display.
func ApplyAdjustments(base Computation, adjustments []domain.Adjustment) (Computation, error) {
	gross := base.GrossSalary
	total := base.TotalDeductions

	for _, adj := range adjustments {
		if adj.Amount.IsNegative() {
			return Computation{}, fmt.Errorf("%w: adjustment %q has negative amount", domain.ErrInvalidInput, adj.Name)
		}
		switch adj.Kind {
		case domain.AdjustmentEarning:
			gross = gross.Add(adj.Amount)
		case domain.AdjustmentDeduction:
			total = total.Add(adj.Amount)
		default:
			return Computation{}, fmt.Errorf("%w: unknown adjustment kind %q", domain.ErrInvalidInput, adj.Kind)
		}
	}

	net := gross.Sub(total)
	if net.IsNegative() {
		return Computation{}, fmt.Errorf("%w: adjusted deductions %s exceed gross %s", domain.ErrInvalidInput, total, gross)
	}

	return Computation{
		GrossSalary:           gross,
		TotalDeductions:       total,
		NetSalary:             net,
		EmployerContributions: base.EmployerContributions,
	}, nil
}

// ValidateComponents rejects negative earning components.
func ValidateComponents(components domain.SalaryComponents) error {
	for _, check := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"basic", components.Basic},
		{"hra", components.HRA},
		{"special_allowance", components.SpecialAllowance},
		{"other_allowances", components.OtherAllowances},
	} {
		if check.value.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, check.name)
		}
	}
	return nil
}

// ValidateAttendance enforces daysWorked <= daysInPeriod and 28 <= daysInPeriod <= 31.
func ValidateAttendance(attendance domain.AttendanceSummary) error {
	if attendance.DaysInPeriod < 28 || attendance.DaysInPeriod > 31 {
		return fmt.Errorf("%w: days_in_period %d out of range [28,31]", domain.ErrInvalidInput, attendance.DaysInPeriod)
	}
	if attendance.DaysWorked < 0 {
		return fmt.Errorf("%w: days_worked must not be negative", domain.ErrInvalidInput)
	}
	if attendance.DaysWorked > attendance.DaysInPeriod {
		return fmt.Errorf("%w: days_worked %d exceeds days_in_period %d", domain.ErrInvalidInput, attendance.DaysWorked, attendance.DaysInPeriod)
	}
	if attendance.LeaveDays < 0 || attendance.AbsentDays < 0 {
		return fmt.Errorf("%w: leave and absent days must not be negative", domain.ErrInvalidInput)
	}
	if attendance.OvertimeHours.IsNegative() {
		return fmt.Errorf("%w: overtime_hours must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

// ValidateDeductions rejects negative withholdings.
func ValidateDeductions(deductions domain.DeductionSet) error {
	for _, check := range []struct {
		name  string
		value decimal.Decimal
	}{
		{"pf_employee", deductions.PFEmployee},
		{"pf_employer", deductions.PFEmployer},
		{"esi_employee", deductions.ESIEmployee},
		{"esi_employer", deductions.ESIEmployer},
		{"tds", deductions.TDS},
		{"professional_tax", deductions.ProfessionalTax},
		{"other_deductions", deductions.OtherDeductions},
	} {
		if check.value.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, check.name)
		}
	}
	return nil
}
