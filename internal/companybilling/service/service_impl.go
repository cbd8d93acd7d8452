package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	addondomain "github.com/hrplane/hrplane/internal/addon/domain"
	auditdomain "github.com/hrplane/hrplane/internal/audit/domain"
	plandomain "github.com/hrplane/hrplane/internal/billingplan/domain"
	"github.com/hrplane/hrplane/internal/clock"
	"github.com/hrplane/hrplane/internal/companybilling/domain"
	"github.com/hrplane/hrplane/internal/companybilling/engine"
	"github.com/hrplane/hrplane/internal/providers/pdf"
	"github.com/hrplane/hrplane/internal/tenantctx"
	"github.com/hrplane/hrplane/pkg/db"
	"github.com/hrplane/hrplane/pkg/db/pagination"
	"github.com/oklog/ulid/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoices fall due this long after the period they cover.
const paymentTerm = 14 * 24 * time.Hour

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	PlanRepo  plandomain.Repository
	AddonRepo addondomain.Repository
	PDF       pdf.Provider
	Audit     auditdomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	planRepo  plandomain.Repository
	addonRepo addondomain.Repository
	pdf       pdf.Provider
	audit     auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("companybilling.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		planRepo:  p.PlanRepo,
		addonRepo: p.AddonRepo,
		pdf:       p.PDF,
		audit:     p.Audit,
	}
}

func (s *Service) AssignPlan(ctx context.Context, req domain.AssignPlanRequest) (domain.CompanyBilling, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.CompanyBilling{}, domain.ErrInvalidCompany
	}
	if req.BillingCycle == "" {
		req.BillingCycle = domain.BillingCycleMonthly
	}
	if req.BillingCycle != domain.BillingCycleMonthly && req.BillingCycle != domain.BillingCycleYearly {
		return domain.CompanyBilling{}, fmt.Errorf("%w: unknown billing cycle %q", domain.ErrInvalidInput, req.BillingCycle)
	}

	plan, err := s.planRepo.FindByID(ctx, s.db, req.BillingPlanID)
	if err != nil {
		return domain.CompanyBilling{}, err
	}
	if plan == nil || !plan.IsActive {
		return domain.CompanyBilling{}, domain.ErrPlanNotAssignable
	}

	now := s.clock.Now()
	billing, err := s.repo.FindBillingByCompany(ctx, s.db, companyID)
	if err != nil {
		return domain.CompanyBilling{}, err
	}
	if billing == nil {
		billing = &domain.CompanyBilling{
			ID:        s.genID.Generate(),
			CompanyID: companyID,
			CreatedAt: now,
		}
	}

	employees, users, err := s.repo.CountHeadcount(ctx, s.db, companyID)
	if err != nil {
		return domain.CompanyBilling{}, err
	}

	total, err := engine.ComputeMonthlyTotal(plan, employees, users)
	if err != nil {
		return domain.CompanyBilling{}, err
	}

	billing.BillingPlanID = plan.ID
	billing.BillingCycle = req.BillingCycle
	billing.CurrentEmployees = employees
	billing.CurrentUsers = users
	billing.MonthlyTotal = total
	billing.UpdatedAt = now
	if err := s.repo.UpsertBilling(ctx, s.db, billing); err != nil {
		return domain.CompanyBilling{}, err
	}

	s.recordAudit(ctx, companyID, "billing.plan_assigned", billing.ID, datatypes.JSONMap{
		"plan_tier":     plan.Tier,
		"billing_cycle": string(req.BillingCycle),
	})
	return *billing, nil
}

func (s *Service) GetBilling(ctx context.Context) (domain.CompanyBilling, error) {
	billing, _, err := s.billingForCompany(ctx)
	if err != nil {
		return domain.CompanyBilling{}, err
	}
	return *billing, nil
}

// RefreshCounts re-reads active headcounts and recomputes the cached
// monthly total. Existing invoices are untouched.
func (s *Service) RefreshCounts(ctx context.Context) (domain.CompanyBilling, error) {
	billing, companyID, err := s.billingForCompany(ctx)
	if err != nil {
		return domain.CompanyBilling{}, err
	}

	plan, err := s.planRepo.FindByID(ctx, s.db, billing.BillingPlanID)
	if err != nil {
		return domain.CompanyBilling{}, err
	}
	if plan == nil {
		return domain.CompanyBilling{}, domain.ErrPlanNotAssignable
	}

	employees, users, err := s.repo.CountHeadcount(ctx, s.db, companyID)
	if err != nil {
		return domain.CompanyBilling{}, err
	}

	total, err := engine.ComputeMonthlyTotal(plan, employees, users)
	if err != nil {
		return domain.CompanyBilling{}, err
	}

	billing.CurrentEmployees = employees
	billing.CurrentUsers = users
	billing.MonthlyTotal = total
	billing.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateBilling(ctx, s.db, billing); err != nil {
		return domain.CompanyBilling{}, err
	}
	return *billing, nil
}

func (s *Service) GenerateInvoice(ctx context.Context, req domain.GenerateInvoiceRequest) (domain.BillingInvoice, error) {
	billing, companyID, err := s.billingForCompany(ctx)
	if err != nil {
		return domain.BillingInvoice{}, err
	}

	plan, err := s.planRepo.FindByID(ctx, s.db, billing.BillingPlanID)
	if err != nil {
		return domain.BillingInvoice{}, err
	}
	addons, err := s.addonRepo.ListActiveByCompany(ctx, s.db, companyID)
	if err != nil {
		return domain.BillingInvoice{}, err
	}

	draft, err := engine.BuildInvoice(billing, plan, addons, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return domain.BillingInvoice{}, err
	}

	now := s.clock.Now()
	invoice := domain.BillingInvoice{
		ID:               s.genID.Generate(),
		CompanyBillingID: billing.ID,
		InvoiceNumber:    fmt.Sprintf("INV-%s", ulid.Make()),
		PeriodStart:      req.PeriodStart.UTC(),
		PeriodEnd:        req.PeriodEnd.UTC(),
		BaseAmount:       draft.BaseAmount,
		EmployeeAmount:   draft.EmployeeAmount,
		UserAmount:       draft.UserAmount,
		AddonAmount:      draft.AddonAmount,
		TotalAmount:      draft.TotalAmount,
		Status:           domain.InvoiceStatusPending,
		EmployeeCount:    billing.CurrentEmployees,
		UserCount:        billing.CurrentUsers,
		DueDate:          req.PeriodEnd.UTC().Add(paymentTerm),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	items := make([]domain.InvoiceLineItem, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		line.ID = s.genID.Generate()
		line.InvoiceID = invoice.ID
		line.CreatedAt = now
		items = append(items, line)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertInvoice(ctx, tx, &invoice); err != nil {
			return err
		}
		return s.repo.InsertLineItems(ctx, tx, items)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.BillingInvoice{}, domain.ErrDuplicateInvoice
		}
		return domain.BillingInvoice{}, err
	}
	invoice.LineItems = items

	s.log.Info("invoice generated",
		zap.String("company_id", companyID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total", invoice.TotalAmount.String()),
	)
	s.recordAudit(ctx, companyID, "billing.invoice_generated", invoice.ID, datatypes.JSONMap{
		"invoice_number": invoice.InvoiceNumber,
		"total_amount":   invoice.TotalAmount.String(),
	})
	return invoice, nil
}

func (s *Service) GetInvoice(ctx context.Context, id snowflake.ID) (domain.BillingInvoice, error) {
	invoice, _, err := s.invoiceForCompany(ctx, id)
	if err != nil {
		return domain.BillingInvoice{}, err
	}
	return *invoice, nil
}

func (s *Service) ListInvoices(ctx context.Context, filter domain.ListInvoicesFilter) (domain.ListInvoicesResponse, error) {
	billing, _, err := s.billingForCompany(ctx)
	if err != nil {
		return domain.ListInvoicesResponse{}, err
	}

	invoices, err := s.repo.ListInvoices(ctx, s.db, billing.ID, filter)
	if err != nil {
		return domain.ListInvoicesResponse{}, err
	}

	resp := domain.ListInvoicesResponse{Invoices: invoices}
	limit := filter.Limit()
	if len(invoices) > limit {
		resp.Invoices = invoices[:limit]
		last := resp.Invoices[len(resp.Invoices)-1]
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: last.ID.String()})
		if err != nil {
			return domain.ListInvoicesResponse{}, err
		}
		resp.PageInfo = pagination.PageInfo{NextPageToken: token, HasMore: true}
	}
	return resp, nil
}

func (s *Service) MarkPaid(ctx context.Context, id snowflake.ID) (domain.BillingInvoice, error) {
	invoice, companyID, err := s.invoiceForCompany(ctx, id)
	if err != nil {
		return domain.BillingInvoice{}, err
	}
	// OVERDUE invoices can still be settled.
	if invoice.Status != domain.InvoiceStatusPending && invoice.Status != domain.InvoiceStatusOverdue {
		return domain.BillingInvoice{}, fmt.Errorf("%w: %s invoice cannot be paid", domain.ErrInvalidTransition, invoice.Status)
	}

	now := s.clock.Now()
	invoice.Status = domain.InvoiceStatusPaid
	invoice.PaidAt = &now
	invoice.UpdatedAt = now
	if err := s.repo.UpdateInvoiceStatus(ctx, s.db, invoice); err != nil {
		return domain.BillingInvoice{}, err
	}

	s.recordAudit(ctx, companyID, "billing.invoice_paid", invoice.ID, datatypes.JSONMap{
		"invoice_number": invoice.InvoiceNumber,
	})
	return *invoice, nil
}

func (s *Service) CancelInvoice(ctx context.Context, id snowflake.ID) (domain.BillingInvoice, error) {
	invoice, companyID, err := s.invoiceForCompany(ctx, id)
	if err != nil {
		return domain.BillingInvoice{}, err
	}
	if invoice.Status == domain.InvoiceStatusPaid || invoice.Status == domain.InvoiceStatusCancelled {
		return domain.BillingInvoice{}, fmt.Errorf("%w: %s invoice cannot be cancelled", domain.ErrInvalidTransition, invoice.Status)
	}

	invoice.Status = domain.InvoiceStatusCancelled
	invoice.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateInvoiceStatus(ctx, s.db, invoice); err != nil {
		return domain.BillingInvoice{}, err
	}

	s.recordAudit(ctx, companyID, "billing.invoice_cancelled", invoice.ID, datatypes.JSONMap{
		"invoice_number": invoice.InvoiceNumber,
	})
	return *invoice, nil
}

func (s *Service) InvoicePDF(ctx context.Context, id snowflake.ID) (io.Reader, error) {
	invoice, _, err := s.invoiceForCompany(ctx, id)
	if err != nil {
		return nil, err
	}

	billing, _, err := s.billingForCompany(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := s.planRepo.FindByID(ctx, s.db, billing.BillingPlanID)
	if err != nil {
		return nil, err
	}
	tier := ""
	if plan != nil {
		tier = plan.Tier
	}

	data := pdf.InvoiceData{
		PlanTier:      tier,
		InvoiceNumber: invoice.InvoiceNumber,
		IssueDate:     invoice.CreatedAt.Format("2006-01-02"),
		DueDate:       invoice.DueDate.Format("2006-01-02"),
		ServicePeriod: fmt.Sprintf("%s to %s",
			invoice.PeriodStart.Format("2006-01-02"),
			invoice.PeriodEnd.Format("2006-01-02"),
		),
		Status:      string(invoice.Status),
		BaseAmount:  invoice.BaseAmount.StringFixed(2),
		AddonAmount: invoice.AddonAmount.StringFixed(2),
		Total:       invoice.TotalAmount.StringFixed(2),
	}
	for _, item := range invoice.LineItems {
		data.Items = append(data.Items, pdf.InvoiceItem{
			Description: item.Description,
			Qty:         item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Amount:      item.Amount.StringFixed(2),
		})
	}
	return s.pdf.GenerateInvoice(ctx, data)
}

// MarkOverdueSweep flips every PENDING invoice past its due date to OVERDUE.
// Called by the scheduler, not exposed over HTTP.
func (s *Service) MarkOverdueSweep(ctx context.Context) (int, error) {
	now := s.clock.Now()
	invoices, err := s.repo.ListPendingPastDue(ctx, s.db, now)
	if err != nil {
		return 0, err
	}

	flipped := 0
	for i := range invoices {
		invoices[i].Status = domain.InvoiceStatusOverdue
		invoices[i].UpdatedAt = now
		if err := s.repo.UpdateInvoiceStatus(ctx, s.db, &invoices[i]); err != nil {
			s.log.Error("overdue sweep update failed",
				zap.String("invoice_number", invoices[i].InvoiceNumber),
				zap.Error(err),
			)
			continue
		}
		flipped++
	}
	if flipped > 0 {
		s.log.Info("overdue sweep", zap.Int("invoices", flipped))
	}
	return flipped, nil
}

// RefreshTotalsSweep walks every billing row and recomputes its cached
// monthly total from live headcounts. Rows whose plan has gone missing are
// skipped and logged rather than failing the sweep.
func (s *Service) RefreshTotalsSweep(ctx context.Context) (int, error) {
	billings, err := s.repo.ListAllBillings(ctx, s.db)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	refreshed := 0
	for i := range billings {
		billing := &billings[i]

		plan, err := s.planRepo.FindByID(ctx, s.db, billing.BillingPlanID)
		if err != nil {
			return refreshed, err
		}
		if plan == nil {
			s.log.Warn("totals sweep skipped billing with missing plan",
				zap.String("company_id", billing.CompanyID.String()),
			)
			continue
		}

		employees, users, err := s.repo.CountHeadcount(ctx, s.db, billing.CompanyID)
		if err != nil {
			return refreshed, err
		}

		total, err := engine.ComputeMonthlyTotal(plan, employees, users)
		if err != nil {
			return refreshed, err
		}

		if billing.CurrentEmployees == employees &&
			billing.CurrentUsers == users &&
			billing.MonthlyTotal.Equal(total) {
			continue
		}

		billing.CurrentEmployees = employees
		billing.CurrentUsers = users
		billing.MonthlyTotal = total
		billing.UpdatedAt = now
		if err := s.repo.UpdateBilling(ctx, s.db, billing); err != nil {
			return refreshed, err
		}
		refreshed++
	}
	if refreshed > 0 {
		s.log.Info("totals sweep", zap.Int("billings", refreshed))
	}
	return refreshed, nil
}

func (s *Service) billingForCompany(ctx context.Context) (*domain.CompanyBilling, snowflake.ID, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, 0, domain.ErrInvalidCompany
	}
	billing, err := s.repo.FindBillingByCompany(ctx, s.db, companyID)
	if err != nil {
		return nil, 0, err
	}
	if billing == nil {
		return nil, 0, domain.ErrBillingNotFound
	}
	return billing, companyID, nil
}

func (s *Service) invoiceForCompany(ctx context.Context, id snowflake.ID) (*domain.BillingInvoice, snowflake.ID, error) {
	billing, companyID, err := s.billingForCompany(ctx)
	if err != nil {
		return nil, 0, err
	}
	invoice, err := s.repo.FindInvoiceByID(ctx, s.db, billing.ID, id)
	if err != nil {
		return nil, 0, err
	}
	if invoice == nil {
		return nil, 0, domain.ErrInvoiceNotFound
	}
	return invoice, companyID, nil
}

func (s *Service) recordAudit(ctx context.Context, companyID snowflake.ID, action string, entityID snowflake.ID, meta datatypes.JSONMap) {
	entity := "billing_invoice"
	if action == "billing.plan_assigned" {
		entity = "company_billing"
	}
	err := s.audit.Record(ctx, auditdomain.Entry{
		CompanyID: companyID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Metadata:  meta,
	})
	if err != nil {
		s.log.Warn("audit record skipped", zap.String("action", action), zap.Error(err))
	}
}
