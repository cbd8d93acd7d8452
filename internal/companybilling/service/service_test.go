package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	addondomain "github.com/hrplane/hrplane/internal/addon/domain"
	addonrepo "github.com/hrplane/hrplane/internal/addon/repository"
	auditdomain "github.com/hrplane/hrplane/internal/audit/domain"
	auditrepo "github.com/hrplane/hrplane/internal/audit/repository"
	auditservice "github.com/hrplane/hrplane/internal/audit/service"
	plandomain "github.com/hrplane/hrplane/internal/billingplan/domain"
	planrepo "github.com/hrplane/hrplane/internal/billingplan/repository"
	"github.com/hrplane/hrplane/internal/clock"
	"github.com/hrplane/hrplane/internal/companybilling/domain"
	"github.com/hrplane/hrplane/internal/companybilling/repository"
	"github.com/hrplane/hrplane/internal/providers/pdf"
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
	clock     *clock.FakeClock
	genID     *snowflake.Node
	companyID snowflake.ID
	plan      plandomain.BillingPlan
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&plandomain.BillingPlan{},
		&domain.CompanyBilling{},
		&domain.BillingInvoice{},
		&domain.InvoiceLineItem{},
		&addondomain.FeatureAddon{},
		&addondomain.CompanyAddon{},
		&auditdomain.AuditLog{},
	))
	// Headcount sources live in other modules; the billing repo only reads them.
	require.NoError(t, db.Exec(
		`CREATE TABLE employees (id INTEGER PRIMARY KEY, company_id INTEGER NOT NULL, is_active BOOLEAN NOT NULL)`,
	).Error)
	require.NoError(t, db.Exec(
		`CREATE TABLE users (id INTEGER PRIMARY KEY, company_id INTEGER NOT NULL, is_active BOOLEAN NOT NULL)`,
	).Error)

	genID, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	fake := clock.NewFakeClock(time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC))

	audit := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   log,
		GenID: genID,
		Repo:  auditrepo.Provide(),
	})

	svc := NewService(Params{
		DB:        db,
		Log:       log,
		GenID:     genID,
		Clock:     fake,
		Repo:      repository.Provide(),
		PlanRepo:  planrepo.Provide(),
		AddonRepo: addonrepo.Provide(),
		PDF:       &pdf.NoOpProvider{},
		Audit:     audit,
	})

	plan := plandomain.BillingPlan{
		ID:                genID.Generate(),
		Tier:              "growth",
		BasePrice:         decimal.RequireFromString("100"),
		YearlyBasePrice:   decimal.RequireFromString("1000"),
		PricePerEmployee:  decimal.RequireFromString("5"),
		PricePerUser:      decimal.RequireFromString("10"),
		IncludedEmployees: 10,
		IncludedUsers:     3,
		IsActive:          true,
	}
	require.NoError(t, db.Create(&plan).Error)

	return &fixture{
		svc:       svc,
		db:        db,
		clock:     fake,
		genID:     genID,
		companyID: genID.Generate(),
		plan:      plan,
	}
}

func (f *fixture) ctx() context.Context {
	return tenantctx.WithCompanyID(context.Background(), int64(f.companyID))
}

func (f *fixture) seedHeadcount(t *testing.T, employees, users int) {
	t.Helper()
	for i := 0; i < employees; i++ {
		require.NoError(t, f.db.Exec(
			`INSERT INTO employees (company_id, is_active) VALUES (?, ?)`, f.companyID, true,
		).Error)
	}
	// One inactive row of each kind proves the counts filter on is_active.
	require.NoError(t, f.db.Exec(
		`INSERT INTO employees (company_id, is_active) VALUES (?, ?)`, f.companyID, false,
	).Error)
	for i := 0; i < users; i++ {
		require.NoError(t, f.db.Exec(
			`INSERT INTO users (company_id, is_active) VALUES (?, ?)`, f.companyID, true,
		).Error)
	}
	require.NoError(t, f.db.Exec(
		`INSERT INTO users (company_id, is_active) VALUES (?, ?)`, f.companyID, false,
	).Error)
}

func (f *fixture) assignPlan(t *testing.T, cycle domain.BillingCycle) domain.CompanyBilling {
	t.Helper()
	billing, err := f.svc.AssignPlan(f.ctx(), domain.AssignPlanRequest{
		BillingPlanID: f.plan.ID,
		BillingCycle:  cycle,
	})
	require.NoError(t, err)
	return billing
}

func TestAssignPlan(t *testing.T) {
	f := newFixture(t)
	f.seedHeadcount(t, 13, 4)

	billing := f.assignPlan(t, domain.BillingCycleMonthly)

	assert.Equal(t, 13, billing.CurrentEmployees)
	assert.Equal(t, 4, billing.CurrentUsers)
	assert.True(t, billing.MonthlyTotal.Equal(decimal.RequireFromString("125")),
		"got %s", billing.MonthlyTotal)

	t.Run("reassign keeps single row per company", func(t *testing.T) {
		again := f.assignPlan(t, domain.BillingCycleYearly)
		assert.Equal(t, billing.ID, again.ID)
		assert.Equal(t, domain.BillingCycleYearly, again.BillingCycle)

		var count int64
		require.NoError(t, f.db.Model(&domain.CompanyBilling{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("unknown plan rejected", func(t *testing.T) {
		_, err := f.svc.AssignPlan(f.ctx(), domain.AssignPlanRequest{BillingPlanID: 999})
		assert.ErrorIs(t, err, domain.ErrPlanNotAssignable)
	})

	t.Run("missing company rejected", func(t *testing.T) {
		_, err := f.svc.AssignPlan(context.Background(), domain.AssignPlanRequest{BillingPlanID: f.plan.ID})
		assert.ErrorIs(t, err, domain.ErrInvalidCompany)
	})
}

func TestRefreshCounts(t *testing.T) {
	f := newFixture(t)
	f.seedHeadcount(t, 10, 3)
	f.assignPlan(t, domain.BillingCycleMonthly)

	require.NoError(t, f.db.Exec(
		`INSERT INTO employees (company_id, is_active) VALUES (?, ?)`, f.companyID, true,
	).Error)

	billing, err := f.svc.RefreshCounts(f.ctx())
	require.NoError(t, err)
	assert.Equal(t, 11, billing.CurrentEmployees)
	assert.True(t, billing.MonthlyTotal.Equal(decimal.RequireFromString("105")),
		"got %s", billing.MonthlyTotal)
}

func TestGenerateInvoice(t *testing.T) {
	periodStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	t.Run("monthly invoice with overage and addon", func(t *testing.T) {
		f := newFixture(t)
		f.seedHeadcount(t, 13, 4)
		f.assignPlan(t, domain.BillingCycleMonthly)

		feature := addondomain.FeatureAddon{
			ID:           f.genID.Generate(),
			Code:         "sso",
			Name:         "Single Sign-On",
			MonthlyPrice: decimal.RequireFromString("50"),
			IsActive:     true,
		}
		require.NoError(t, f.db.Create(&feature).Error)
		require.NoError(t, f.db.Create(&addondomain.CompanyAddon{
			ID:             f.genID.Generate(),
			CompanyID:      f.companyID,
			FeatureAddonID: feature.ID,
			Status:         addondomain.AddonStatusActive,
			ActivatedAt:    periodStart.AddDate(0, -1, 0),
		}).Error)

		invoice, err := f.svc.GenerateInvoice(f.ctx(), domain.GenerateInvoiceRequest{
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
		})
		require.NoError(t, err)

		assert.True(t, invoice.TotalAmount.Equal(decimal.RequireFromString("175")),
			"got %s", invoice.TotalAmount)
		assert.Equal(t, domain.InvoiceStatusPending, invoice.Status)
		assert.Equal(t, 13, invoice.EmployeeCount)
		assert.Equal(t, periodEnd.Add(14*24*time.Hour), invoice.DueDate)
		assert.NotEmpty(t, invoice.InvoiceNumber)
		require.Len(t, invoice.LineItems, 4)
		assert.Equal(t, "add-on: Single Sign-On", invoice.LineItems[3].Description)
	})

	t.Run("duplicate period rejected", func(t *testing.T) {
		f := newFixture(t)
		f.seedHeadcount(t, 5, 2)
		f.assignPlan(t, domain.BillingCycleMonthly)

		req := domain.GenerateInvoiceRequest{PeriodStart: periodStart, PeriodEnd: periodEnd}
		first, err := f.svc.GenerateInvoice(f.ctx(), req)
		require.NoError(t, err)

		_, err = f.svc.GenerateInvoice(f.ctx(), req)
		assert.ErrorIs(t, err, domain.ErrDuplicateInvoice)

		var count int64
		require.NoError(t, f.db.Model(&domain.BillingInvoice{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)

		kept, err := f.svc.GetInvoice(f.ctx(), first.ID)
		require.NoError(t, err)
		assert.True(t, kept.TotalAmount.Equal(first.TotalAmount))
	})

	t.Run("yearly cycle bills yearly base", func(t *testing.T) {
		f := newFixture(t)
		f.seedHeadcount(t, 8, 2)
		f.assignPlan(t, domain.BillingCycleYearly)

		invoice, err := f.svc.GenerateInvoice(f.ctx(), domain.GenerateInvoiceRequest{
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
		})
		require.NoError(t, err)
		assert.True(t, invoice.TotalAmount.Equal(decimal.RequireFromString("1000")),
			"got %s", invoice.TotalAmount)
		require.Len(t, invoice.LineItems, 1)
	})

	t.Run("inverted period rejected", func(t *testing.T) {
		f := newFixture(t)
		f.seedHeadcount(t, 5, 2)
		f.assignPlan(t, domain.BillingCycleMonthly)

		_, err := f.svc.GenerateInvoice(f.ctx(), domain.GenerateInvoiceRequest{
			PeriodStart: periodEnd,
			PeriodEnd:   periodStart,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestInvoiceLifecycle(t *testing.T) {
	periodStart := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	newInvoice := func(t *testing.T) (*fixture, domain.BillingInvoice) {
		f := newFixture(t)
		f.seedHeadcount(t, 5, 2)
		f.assignPlan(t, domain.BillingCycleMonthly)
		invoice, err := f.svc.GenerateInvoice(f.ctx(), domain.GenerateInvoiceRequest{
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
		})
		require.NoError(t, err)
		return f, invoice
	}

	t.Run("mark paid", func(t *testing.T) {
		f, invoice := newInvoice(t)
		paid, err := f.svc.MarkPaid(f.ctx(), invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
		require.NotNil(t, paid.PaidAt)

		_, err = f.svc.MarkPaid(f.ctx(), invoice.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		_, err = f.svc.CancelInvoice(f.ctx(), invoice.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("cancel pending", func(t *testing.T) {
		f, invoice := newInvoice(t)
		cancelled, err := f.svc.CancelInvoice(f.ctx(), invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.InvoiceStatusCancelled, cancelled.Status)

		_, err = f.svc.MarkPaid(f.ctx(), invoice.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("overdue sweep then settle", func(t *testing.T) {
		f, invoice := newInvoice(t)

		flipped, err := f.svc.MarkOverdueSweep(f.ctx())
		require.NoError(t, err)
		assert.Zero(t, flipped, "not yet due")

		f.clock.Advance(60 * 24 * time.Hour)
		flipped, err = f.svc.MarkOverdueSweep(f.ctx())
		require.NoError(t, err)
		assert.Equal(t, 1, flipped)

		got, err := f.svc.GetInvoice(f.ctx(), invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.InvoiceStatusOverdue, got.Status)

		paid, err := f.svc.MarkPaid(f.ctx(), invoice.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		f, _ := newInvoice(t)
		_, err := f.svc.GetInvoice(f.ctx(), 424242)
		assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
	})
}

func TestListInvoices(t *testing.T) {
	f := newFixture(t)
	f.seedHeadcount(t, 5, 2)
	f.assignPlan(t, domain.BillingCycleMonthly)

	for month := time.January; month <= time.March; month++ {
		start := time.Date(2025, month, 1, 0, 0, 0, 0, time.UTC)
		_, err := f.svc.GenerateInvoice(f.ctx(), domain.GenerateInvoiceRequest{
			PeriodStart: start,
			PeriodEnd:   start.AddDate(0, 1, -1),
		})
		require.NoError(t, err)
	}

	resp, err := f.svc.ListInvoices(f.ctx(), domain.ListInvoicesFilter{})
	require.NoError(t, err)
	assert.Len(t, resp.Invoices, 3)
	assert.False(t, resp.PageInfo.HasMore)

	resp, err = f.svc.ListInvoices(f.ctx(), domain.ListInvoicesFilter{
		Status: domain.InvoiceStatusPaid,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Invoices)
}

func TestRefreshTotalsSweep(t *testing.T) {
	f := newFixture(t)
	f.seedHeadcount(t, 10, 3)
	f.assignPlan(t, domain.BillingCycleMonthly)

	// Headcount grows after assignment; the cached total is now stale.
	require.NoError(t, f.db.Exec(
		`INSERT INTO employees (company_id, is_active) VALUES (?, ?)`, f.companyID, true,
	).Error)

	refreshed, err := f.svc.RefreshTotalsSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed)

	billing, err := f.svc.GetBilling(f.ctx())
	require.NoError(t, err)
	assert.Equal(t, 11, billing.CurrentEmployees)
	assert.True(t, billing.MonthlyTotal.Equal(decimal.RequireFromString("105")),
		"got %s", billing.MonthlyTotal)

	t.Run("idempotent when nothing changed", func(t *testing.T) {
		refreshed, err := f.svc.RefreshTotalsSweep(context.Background())
		require.NoError(t, err)
		assert.Zero(t, refreshed)
	})
}
