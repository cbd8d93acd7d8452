package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/hrplane/hrplane/internal/audit/domain"
	auditrepo "github.com/hrplane/hrplane/internal/audit/repository"
	auditservice "github.com/hrplane/hrplane/internal/audit/service"
	"github.com/hrplane/hrplane/internal/clock"
	employeedomain "github.com/hrplane/hrplane/internal/employee/domain"
	employeerepo "github.com/hrplane/hrplane/internal/employee/repository"
	"github.com/hrplane/hrplane/internal/payroll/domain"
	"github.com/hrplane/hrplane/internal/payroll/repository"
	"github.com/hrplane/hrplane/internal/providers/pdf"
	"github.com/hrplane/hrplane/internal/taxrate"
	"github.com/hrplane/hrplane/internal/tenantctx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type fixture struct {
	svc       domain.Service
	db        *gorm.DB
	genID     *snowflake.Node
	companyID snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.PayrollRecord{},
		&domain.Adjustment{},
		&employeedomain.Employee{},
		&auditdomain.AuditLog{},
	))

	genID, err := snowflake.NewNode(5)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	taxes, err := taxrate.Load("", log)
	require.NoError(t, err)

	audit := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   log,
		GenID: genID,
		Repo:  auditrepo.Provide(),
	})

	svc := NewService(Params{
		DB:           db,
		Log:          log,
		GenID:        genID,
		Clock:        clock.NewFakeClock(time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)),
		Repo:         repository.Provide(),
		EmployeeRepo: employeerepo.Provide(),
		Taxes:        taxes,
		PDF:          &pdf.NoOpProvider{},
		Audit:        audit,
	})

	return &fixture{
		svc:       svc,
		db:        db,
		genID:     genID,
		companyID: genID.Generate(),
	}
}

func (f *fixture) ctx() context.Context {
	return tenantctx.WithCompanyID(context.Background(), int64(f.companyID))
}

func (f *fixture) seedEmployee(t *testing.T, code string, basic, hra, special, other string) employeedomain.Employee {
	t.Helper()
	emp := employeedomain.Employee{
		ID:               f.genID.Generate(),
		CompanyID:        f.companyID,
		Code:             code,
		Name:             "Employee " + code,
		BasicSalary:      decimal.RequireFromString(basic),
		HRA:              decimal.RequireFromString(hra),
		SpecialAllowance: decimal.RequireFromString(special),
		OtherAllowances:  decimal.RequireFromString(other),
		JoinDate:         time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		IsActive:         true,
	}
	require.NoError(t, f.db.Create(&emp).Error)
	return emp
}

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestRunPayroll(t *testing.T) {
	t.Run("statutory deductions derived from gross", func(t *testing.T) {
		f := newFixture(t)
		f.seedEmployee(t, "E-001", "30000", "15000", "20000", "10000")

		resp, err := f.svc.RunPayroll(f.ctx(), domain.RunPayrollRequest{
			PeriodMonth: 3, PeriodYear: 2025,
		})
		require.NoError(t, err)
		require.Len(t, resp.Records, 1)

		rec := resp.Records[0]
		assert.Equal(t, domain.PayrollStatusDraft, rec.Status)
		assert.Equal(t, 31, rec.Attendance.DaysInPeriod)
		assert.True(t, rec.GrossSalary.Equal(d("75000")), "got %s", rec.GrossSalary)
		assert.True(t, rec.Deductions.PFEmployee.Equal(d("1800")), "PF capped at ceiling, got %s", rec.Deductions.PFEmployee)
		assert.True(t, rec.Deductions.ESIEmployee.IsZero(), "above ESI ceiling, got %s", rec.Deductions.ESIEmployee)
		assert.True(t, rec.Deductions.ProfessionalTax.Equal(d("200")))
		assert.True(t, rec.Deductions.TDS.Equal(d("3333.33")), "got %s", rec.Deductions.TDS)
		assert.True(t, rec.NetSalary.Equal(d("69666.67")), "got %s", rec.NetSalary)
		assert.True(t, rec.GrossSalary.Sub(rec.TotalDeductions).Equal(rec.NetSalary))
	})

	t.Run("rerun skips existing records", func(t *testing.T) {
		f := newFixture(t)
		f.seedEmployee(t, "E-001", "20000", "10000", "5000", "0")
		req := domain.RunPayrollRequest{PeriodMonth: 3, PeriodYear: 2025}

		first, err := f.svc.RunPayroll(f.ctx(), req)
		require.NoError(t, err)
		assert.Len(t, first.Records, 1)
		assert.Zero(t, first.Skipped)

		f.seedEmployee(t, "E-002", "20000", "10000", "5000", "0")
		second, err := f.svc.RunPayroll(f.ctx(), req)
		require.NoError(t, err)
		assert.Len(t, second.Records, 1, "only the new employee gets a record")
		assert.Equal(t, 1, second.Skipped)

		var count int64
		require.NoError(t, f.db.Model(&domain.PayrollRecord{}).Count(&count).Error)
		assert.EqualValues(t, 2, count)
	})

	t.Run("inactive employees excluded", func(t *testing.T) {
		f := newFixture(t)
		emp := f.seedEmployee(t, "E-003", "20000", "0", "0", "0")
		require.NoError(t, f.db.Model(&emp).Update("is_active", false).Error)

		resp, err := f.svc.RunPayroll(f.ctx(), domain.RunPayrollRequest{
			PeriodMonth: 3, PeriodYear: 2025,
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Records)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.RunPayroll(f.ctx(), domain.RunPayrollRequest{PeriodMonth: 13, PeriodYear: 2025})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = f.svc.RunPayroll(f.ctx(), domain.RunPayrollRequest{PeriodMonth: 3, PeriodYear: 2025, DaysInPeriod: 27})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = f.svc.RunPayroll(context.Background(), domain.RunPayrollRequest{PeriodMonth: 3, PeriodYear: 2025})
		assert.ErrorIs(t, err, domain.ErrInvalidCompany)
	})
}

func TestAddAdjustment(t *testing.T) {
	newRecord := func(t *testing.T) (*fixture, domain.PayrollRecord) {
		f := newFixture(t)
		f.seedEmployee(t, "E-001", "20000", "10000", "5000", "0")
		resp, err := f.svc.RunPayroll(f.ctx(), domain.RunPayrollRequest{PeriodMonth: 3, PeriodYear: 2025})
		require.NoError(t, err)
		require.Len(t, resp.Records, 1)
		return f, resp.Records[0]
	}

	t.Run("earning raises net", func(t *testing.T) {
		f, rec := newRecord(t)

		updated, err := f.svc.AddAdjustment(f.ctx(), rec.ID.String(), domain.AddAdjustmentRequest{
			Kind: domain.AdjustmentEarning, Name: "Diwali bonus", Amount: "5000",
		})
		require.NoError(t, err)
		assert.True(t, updated.GrossSalary.Equal(rec.GrossSalary.Add(d("5000"))))
		assert.True(t, updated.NetSalary.Equal(rec.NetSalary.Add(d("5000"))))
		require.Len(t, updated.Adjustments, 1)
		assert.Equal(t, 0, updated.Adjustments[0].Position)
	})

	t.Run("deduction lowers net and is ordered", func(t *testing.T) {
		f, rec := newRecord(t)

		_, err := f.svc.AddAdjustment(f.ctx(), rec.ID.String(), domain.AddAdjustmentRequest{
			Kind: domain.AdjustmentEarning, Name: "Bonus", Amount: "1000",
		})
		require.NoError(t, err)
		updated, err := f.svc.AddAdjustment(f.ctx(), rec.ID.String(), domain.AddAdjustmentRequest{
			Kind: domain.AdjustmentDeduction, Name: "Canteen", Amount: "400",
		})
		require.NoError(t, err)

		assert.True(t, updated.NetSalary.Equal(rec.NetSalary.Add(d("600"))))
		require.Len(t, updated.Adjustments, 2)
		assert.Equal(t, 1, updated.Adjustments[1].Position)
	})

	t.Run("rejected on paid record", func(t *testing.T) {
		f, rec := newRecord(t)
		_, err := f.svc.TransitionStatus(f.ctx(), rec.ID.String(), domain.PayrollStatusProcessed)
		require.NoError(t, err)
		_, err = f.svc.TransitionStatus(f.ctx(), rec.ID.String(), domain.PayrollStatusPaid)
		require.NoError(t, err)

		_, err = f.svc.AddAdjustment(f.ctx(), rec.ID.String(), domain.AddAdjustmentRequest{
			Kind: domain.AdjustmentEarning, Name: "Too late", Amount: "1",
		})
		assert.ErrorIs(t, err, domain.ErrImmutableRecord)
	})

	t.Run("bad input", func(t *testing.T) {
		f, rec := newRecord(t)

		_, err := f.svc.AddAdjustment(f.ctx(), rec.ID.String(), domain.AddAdjustmentRequest{
			Kind: "GIFT", Name: "x", Amount: "1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = f.svc.AddAdjustment(f.ctx(), rec.ID.String(), domain.AddAdjustmentRequest{
			Kind: domain.AdjustmentEarning, Name: "x", Amount: "-1",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		// a deduction larger than the remaining net is rejected, not clamped
		_, err = f.svc.AddAdjustment(f.ctx(), rec.ID.String(), domain.AddAdjustmentRequest{
			Kind: domain.AdjustmentDeduction, Name: "Everything", Amount: "99999999",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestTransitionStatus(t *testing.T) {
	f := newFixture(t)
	f.seedEmployee(t, "E-001", "20000", "0", "0", "0")
	resp, err := f.svc.RunPayroll(f.ctx(), domain.RunPayrollRequest{PeriodMonth: 3, PeriodYear: 2025})
	require.NoError(t, err)
	rec := resp.Records[0]
	id := rec.ID.String()

	_, err = f.svc.TransitionStatus(f.ctx(), id, domain.PayrollStatusPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "DRAFT cannot jump to PAID")

	held, err := f.svc.TransitionStatus(f.ctx(), id, domain.PayrollStatusHold)
	require.NoError(t, err)
	assert.Equal(t, domain.PayrollStatusHold, held.Status)

	resumed, err := f.svc.TransitionStatus(f.ctx(), id, domain.PayrollStatusProcessed)
	require.NoError(t, err)
	assert.Equal(t, domain.PayrollStatusProcessed, resumed.Status)

	paid, err := f.svc.TransitionStatus(f.ctx(), id, domain.PayrollStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.PayrollStatusPaid, paid.Status)

	_, err = f.svc.TransitionStatus(f.ctx(), id, domain.PayrollStatusDraft)
	assert.ErrorIs(t, err, domain.ErrImmutableRecord, "PAID is terminal")

	t.Run("unknown record", func(t *testing.T) {
		_, err := f.svc.TransitionStatus(f.ctx(), "424242", domain.PayrollStatusHold)
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}

func TestGetAndList(t *testing.T) {
	f := newFixture(t)
	empA := f.seedEmployee(t, "E-001", "20000", "0", "0", "0")
	f.seedEmployee(t, "E-002", "30000", "0", "0", "0")

	_, err := f.svc.RunPayroll(f.ctx(), domain.RunPayrollRequest{PeriodMonth: 2, PeriodYear: 2025})
	require.NoError(t, err)
	_, err = f.svc.RunPayroll(f.ctx(), domain.RunPayrollRequest{PeriodMonth: 3, PeriodYear: 2025})
	require.NoError(t, err)

	resp, err := f.svc.ListRecords(f.ctx(), domain.ListRecordsRequest{PeriodMonth: 3, PeriodYear: 2025})
	require.NoError(t, err)
	assert.Len(t, resp.Records, 2)

	resp, err = f.svc.ListRecords(f.ctx(), domain.ListRecordsRequest{EmployeeID: empA.ID.String()})
	require.NoError(t, err)
	assert.Len(t, resp.Records, 2)

	got, err := f.svc.GetRecord(f.ctx(), resp.Records[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, empA.ID, got.EmployeeID)

	t.Run("tenant isolation", func(t *testing.T) {
		otherCtx := tenantctx.WithCompanyID(context.Background(), 999001)
		_, err := f.svc.GetRecord(otherCtx, resp.Records[0].ID.String())
		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}
