package engine

import (
	"testing"

	"github.com/hrplane/hrplane/internal/payroll/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func fullAttendance() domain.AttendanceSummary {
	return domain.AttendanceSummary{DaysWorked: 30, DaysInPeriod: 30}
}

func TestCompute(t *testing.T) {
	components := domain.SalaryComponents{
		Basic:            d("50000"),
		HRA:              d("15000"),
		SpecialAllowance: d("10000"),
	}
	deductions := domain.DeductionSet{
		PFEmployee: d("1800"),
		TDS:        d("3000"),
	}

	result, err := Compute(components, fullAttendance(), deductions)
	require.NoError(t, err)

	assert.True(t, result.GrossSalary.Equal(d("75000")), "gross = %s", result.GrossSalary)
	assert.True(t, result.TotalDeductions.Equal(d("4800")))
	assert.True(t, result.NetSalary.Equal(d("70200")), "net = %s", result.NetSalary)
}

func TestComputeEmployerContributionsExcludedFromNet(t *testing.T) {
	components := domain.SalaryComponents{Basic: d("40000")}
	deductions := domain.DeductionSet{
		PFEmployee:  d("1800"),
		PFEmployer:  d("1800"),
		ESIEmployee: d("300"),
		ESIEmployer: d("975"),
	}

	result, err := Compute(components, fullAttendance(), deductions)
	require.NoError(t, err)

	assert.True(t, result.TotalDeductions.Equal(d("2100")))
	assert.True(t, result.NetSalary.Equal(d("37900")))
	assert.True(t, result.EmployerContributions.Equal(d("2775")))
}

func TestComputeRejectsNegativeNet(t *testing.T) {
	components := domain.SalaryComponents{Basic: d("1000")}
	deductions := domain.DeductionSet{TDS: d("2000")}

	_, err := Compute(components, fullAttendance(), deductions)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestComputeValidation(t *testing.T) {
	valid := domain.SalaryComponents{Basic: d("1000")}

	tests := []struct {
		name       string
		components domain.SalaryComponents
		attendance domain.AttendanceSummary
		deductions domain.DeductionSet
	}{
		{
			name:       "negative basic",
			components: domain.SalaryComponents{Basic: d("-1")},
			attendance: fullAttendance(),
		},
		{
			name:       "negative deduction",
			components: valid,
			attendance: fullAttendance(),
			deductions: domain.DeductionSet{TDS: d("-5")},
		},
		{
			name:       "days worked exceeds period",
			components: valid,
			attendance: domain.AttendanceSummary{DaysWorked: 31, DaysInPeriod: 30},
		},
		{
			name:       "period too short",
			components: valid,
			attendance: domain.AttendanceSummary{DaysWorked: 20, DaysInPeriod: 27},
		},
		{
			name:       "period too long",
			components: valid,
			attendance: domain.AttendanceSummary{DaysWorked: 20, DaysInPeriod: 32},
		},
		{
			name:       "negative days worked",
			components: valid,
			attendance: domain.AttendanceSummary{DaysWorked: -1, DaysInPeriod: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.components, tt.attendance, tt.deductions)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestApplyAdjustments(t *testing.T) {
	base, err := Compute(
		domain.SalaryComponents{Basic: d("50000")},
		fullAttendance(),
		domain.DeductionSet{TDS: d("5000")},
	)
	require.NoError(t, err)

	adjustments := []domain.Adjustment{
		{Kind: domain.AdjustmentEarning, Name: "Referral bonus", Amount: d("2000")},
		{Kind: domain.AdjustmentDeduction, Name: "Canteen recovery", Amount: d("500")},
	}

	adjusted, err := ApplyAdjustments(base, adjustments)
	require.NoError(t, err)

	assert.True(t, adjusted.GrossSalary.Equal(d("52000")))
	assert.True(t, adjusted.TotalDeductions.Equal(d("5500")))
	assert.True(t, adjusted.NetSalary.Equal(d("46500")))
}

func TestApplyAdjustmentsOrderInvariant(t *testing.T) {
	base, err := Compute(
		domain.SalaryComponents{Basic: d("30000")},
		fullAttendance(),
		domain.DeductionSet{},
	)
	require.NoError(t, err)

	forward := []domain.Adjustment{
		{Kind: domain.AdjustmentEarning, Name: "a", Amount: d("100")},
		{Kind: domain.AdjustmentDeduction, Name: "b", Amount: d("40")},
		{Kind: domain.AdjustmentEarning, Name: "c", Amount: d("7.25")},
	}
	reversed := []domain.Adjustment{forward[2], forward[1], forward[0]}

	first, err := ApplyAdjustments(base, forward)
	require.NoError(t, err)
	second, err := ApplyAdjustments(base, reversed)
	require.NoError(t, err)

	assert.True(t, first.NetSalary.Equal(second.NetSalary))
	assert.True(t, first.GrossSalary.Equal(second.GrossSalary))
	assert.True(t, first.TotalDeductions.Equal(second.TotalDeductions))
}

func TestApplyAdjustmentsRejectsBadInput(t *testing.T) {
	base := Computation{
		GrossSalary: d("1000"),
		NetSalary:   d("1000"),
	}

	t.Run("negative amount", func(t *testing.T) {
		_, err := ApplyAdjustments(base, []domain.Adjustment{
			{Kind: domain.AdjustmentEarning, Name: "x", Amount: d("-1")},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := ApplyAdjustments(base, []domain.Adjustment{
			{Kind: "BONUS", Name: "x", Amount: d("1")},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("net driven negative", func(t *testing.T) {
		_, err := ApplyAdjustments(base, []domain.Adjustment{
			{Kind: domain.AdjustmentDeduction, Name: "x", Amount: d("1001")},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
