package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/hrplane/hrplane/internal/audit/domain"
	"github.com/hrplane/hrplane/internal/clock"
	employeedomain "github.com/hrplane/hrplane/internal/employee/domain"
	"github.com/hrplane/hrplane/internal/payroll/domain"
	"github.com/hrplane/hrplane/internal/payroll/engine"
	"github.com/hrplane/hrplane/internal/providers/pdf"
	"github.com/hrplane/hrplane/internal/ratelimit"
	"github.com/hrplane/hrplane/internal/taxrate"
	"github.com/hrplane/hrplane/internal/tenantctx"
	"github.com/hrplane/hrplane/pkg/db"
	"github.com/hrplane/hrplane/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const runLockTTL = 5 * time.Minute

// allowed status transitions. PAID is terminal.
var transitions = map[domain.PayrollStatus][]domain.PayrollStatus{
	domain.PayrollStatusDraft:     {domain.PayrollStatusProcessed, domain.PayrollStatusHold},
	domain.PayrollStatusProcessed: {domain.PayrollStatusPaid, domain.PayrollStatusHold},
	domain.PayrollStatusHold:      {domain.PayrollStatusDraft, domain.PayrollStatusProcessed},
	domain.PayrollStatusPaid:      {},
}

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	EmployeeRepo employeedomain.Repository
	Taxes        *taxrate.Table
	Locker       *ratelimit.Locker `optional:"true"`
	PDF          pdf.Provider
	Audit        auditdomain.Service
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	employeeRepo employeedomain.Repository
	taxes        *taxrate.Table
	locker       *ratelimit.Locker
	pdf          pdf.Provider
	audit        auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("payroll.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		employeeRepo: p.EmployeeRepo,
		taxes:        p.Taxes,
		locker:       p.Locker,
		pdf:          p.PDF,
		audit:        p.Audit,
	}
}

// RunPayroll creates a DRAFT record for every active employee without one in
// the period. Employees already covered are skipped, so a re-run after a
// partial failure completes the period instead of duplicating it.
func (s *Service) RunPayroll(ctx context.Context, req domain.RunPayrollRequest) (domain.RunPayrollResponse, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.RunPayrollResponse{}, domain.ErrInvalidCompany
	}
	if req.PeriodMonth < 1 || req.PeriodMonth > 12 {
		return domain.RunPayrollResponse{}, fmt.Errorf("%w: period_month %d out of range", domain.ErrInvalidInput, req.PeriodMonth)
	}
	if req.PeriodYear < 2000 || req.PeriodYear > 2200 {
		return domain.RunPayrollResponse{}, fmt.Errorf("%w: period_year %d out of range", domain.ErrInvalidInput, req.PeriodYear)
	}
	if req.DaysInPeriod == 0 {
		req.DaysInPeriod = daysIn(req.PeriodMonth, req.PeriodYear)
	}
	if req.DaysInPeriod < 28 || req.DaysInPeriod > 31 {
		return domain.RunPayrollResponse{}, fmt.Errorf("%w: days_in_period %d out of range [28,31]", domain.ErrInvalidInput, req.DaysInPeriod)
	}

	lockKey := fmt.Sprintf("payroll:run:%s:%d-%02d", companyID, req.PeriodYear, req.PeriodMonth)
	token, acquired, err := s.locker.TryLock(ctx, lockKey, runLockTTL)
	if err != nil {
		return domain.RunPayrollResponse{}, err
	}
	if !acquired {
		return domain.RunPayrollResponse{}, domain.ErrRunInProgress
	}
	defer func() {
		if err := s.locker.Release(ctx, lockKey, token); err != nil {
			s.log.Warn("payroll run lock release failed", zap.Error(err))
		}
	}()

	employees, err := s.employeeRepo.ListActiveByCompany(ctx, s.db, companyID)
	if err != nil {
		return domain.RunPayrollResponse{}, err
	}

	now := s.clock.Now()
	resp := domain.RunPayrollResponse{}
	for _, emp := range employees {
		components := domain.SalaryComponents{
			Basic:            emp.BasicSalary,
			HRA:              emp.HRA,
			SpecialAllowance: emp.SpecialAllowance,
			OtherAllowances:  emp.OtherAllowances,
		}
		attendance := domain.AttendanceSummary{
			DaysWorked:    req.DaysInPeriod,
			DaysInPeriod:  req.DaysInPeriod,
			OvertimeHours: decimal.Zero,
		}
		gross := components.Basic.
			Add(components.HRA).
			Add(components.SpecialAllowance).
			Add(components.OtherAllowances)
		deductions := s.taxes.DeriveDeductions(gross)

		computed, err := engine.Compute(components, attendance, deductions)
		if err != nil {
			return domain.RunPayrollResponse{}, fmt.Errorf("employee %s: %w", emp.Code, err)
		}

		record := domain.PayrollRecord{
			ID:              s.genID.Generate(),
			CompanyID:       companyID,
			EmployeeID:      emp.ID,
			PeriodMonth:     req.PeriodMonth,
			PeriodYear:      req.PeriodYear,
			Status:          domain.PayrollStatusDraft,
			Components:      components,
			Attendance:      attendance,
			Deductions:      deductions,
			GrossSalary:     computed.GrossSalary,
			TotalDeductions: computed.TotalDeductions,
			NetSalary:       computed.NetSalary,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.repo.Insert(ctx, s.db, &record); err != nil {
			if db.IsDuplicateKeyErr(err) {
				resp.Skipped++
				continue
			}
			return domain.RunPayrollResponse{}, err
		}
		resp.Records = append(resp.Records, record)
	}

	s.log.Info("payroll run finished",
		zap.String("company_id", companyID.String()),
		zap.Int("period_month", req.PeriodMonth),
		zap.Int("period_year", req.PeriodYear),
		zap.Int("created", len(resp.Records)),
		zap.Int("skipped", resp.Skipped),
	)
	s.recordAudit(ctx, companyID, "payroll.run", 0, datatypes.JSONMap{
		"period_month": req.PeriodMonth,
		"period_year":  req.PeriodYear,
		"created":      len(resp.Records),
		"skipped":      resp.Skipped,
	})
	return resp, nil
}

func (s *Service) GetRecord(ctx context.Context, id string) (domain.PayrollRecord, error) {
	record, _, err := s.recordForCompany(ctx, id)
	if err != nil {
		return domain.PayrollRecord{}, err
	}
	return *record, nil
}

func (s *Service) ListRecords(ctx context.Context, req domain.ListRecordsRequest) (domain.ListRecordsResponse, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ListRecordsResponse{}, domain.ErrInvalidCompany
	}

	filter := domain.ListRecordsFilter{
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		Status:      domain.PayrollStatus(req.Status),
	}
	if req.EmployeeID != "" {
		id, err := snowflake.ParseString(req.EmployeeID)
		if err != nil {
			return domain.ListRecordsResponse{}, fmt.Errorf("%w: invalid employee id", domain.ErrInvalidInput)
		}
		filter.EmployeeID = id
	}

	records, err := s.repo.List(ctx, s.db, companyID, filter, req.Pagination)
	if err != nil {
		return domain.ListRecordsResponse{}, err
	}

	resp := domain.ListRecordsResponse{Records: records}
	limit := req.Limit()
	if len(records) > limit {
		resp.Records = records[:limit]
		last := resp.Records[len(resp.Records)-1]
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: last.ID.String()})
		if err != nil {
			return domain.ListRecordsResponse{}, err
		}
		resp.PageInfo = pagination.PageInfo{NextPageToken: token, HasMore: true}
	}
	return resp, nil
}

// AddAdjustment appends an ad-hoc earning or deduction and recomputes the
// record's totals in the same transaction. PAID and HOLD records reject
// adjustments.
func (s *Service) AddAdjustment(ctx context.Context, recordID string, req domain.AddAdjustmentRequest) (domain.PayrollRecord, error) {
	record, companyID, err := s.recordForCompany(ctx, recordID)
	if err != nil {
		return domain.PayrollRecord{}, err
	}
	if record.Status == domain.PayrollStatusPaid {
		return domain.PayrollRecord{}, domain.ErrImmutableRecord
	}
	if record.Status == domain.PayrollStatusHold {
		return domain.PayrollRecord{}, fmt.Errorf("%w: record is on hold", domain.ErrInvalidTransition)
	}

	if req.Kind != domain.AdjustmentEarning && req.Kind != domain.AdjustmentDeduction {
		return domain.PayrollRecord{}, fmt.Errorf("%w: unknown adjustment kind %q", domain.ErrInvalidInput, req.Kind)
	}
	if req.Name == "" {
		return domain.PayrollRecord{}, fmt.Errorf("%w: adjustment name is required", domain.ErrInvalidInput)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return domain.PayrollRecord{}, fmt.Errorf("%w: amount is not a valid number", domain.ErrInvalidInput)
	}
	if amount.IsNegative() {
		return domain.PayrollRecord{}, fmt.Errorf("%w: amount must not be negative", domain.ErrInvalidInput)
	}

	adjustment := domain.Adjustment{
		ID:              s.genID.Generate(),
		PayrollRecordID: record.ID,
		Position:        len(record.Adjustments),
		Kind:            req.Kind,
		Name:            req.Name,
		Reason:          req.Reason,
		Amount:          amount,
		CreatedAt:       s.clock.Now(),
	}

	base, err := engine.Compute(record.Components, record.Attendance, record.Deductions)
	if err != nil {
		return domain.PayrollRecord{}, err
	}
	adjusted, err := engine.ApplyAdjustments(base, append(record.Adjustments, adjustment))
	if err != nil {
		return domain.PayrollRecord{}, err
	}

	record.GrossSalary = adjusted.GrossSalary
	record.TotalDeductions = adjusted.TotalDeductions
	record.NetSalary = adjusted.NetSalary
	record.UpdatedAt = s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertAdjustment(ctx, tx, &adjustment); err != nil {
			return err
		}
		return s.repo.UpdateTotals(ctx, tx, record)
	})
	if err != nil {
		return domain.PayrollRecord{}, err
	}
	record.Adjustments = append(record.Adjustments, adjustment)

	s.recordAudit(ctx, companyID, "payroll.adjustment_added", record.ID, datatypes.JSONMap{
		"kind":   string(req.Kind),
		"name":   req.Name,
		"amount": amount.String(),
	})
	return *record, nil
}

func (s *Service) TransitionStatus(ctx context.Context, recordID string, next domain.PayrollStatus) (domain.PayrollRecord, error) {
	record, companyID, err := s.recordForCompany(ctx, recordID)
	if err != nil {
		return domain.PayrollRecord{}, err
	}

	if !transitionAllowed(record.Status, next) {
		if record.Status == domain.PayrollStatusPaid {
			return domain.PayrollRecord{}, domain.ErrImmutableRecord
		}
		return domain.PayrollRecord{}, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, record.Status, next)
	}

	prev := record.Status
	record.Status = next
	record.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, s.db, record); err != nil {
		return domain.PayrollRecord{}, err
	}

	s.recordAudit(ctx, companyID, "payroll.status_changed", record.ID, datatypes.JSONMap{
		"from": string(prev),
		"to":   string(next),
	})
	return *record, nil
}

func (s *Service) Payslip(ctx context.Context, recordID string) (io.Reader, error) {
	record, companyID, err := s.recordForCompany(ctx, recordID)
	if err != nil {
		return nil, err
	}

	employee, err := s.employeeRepo.FindByID(ctx, s.db, companyID, record.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrRecordNotFound
	}

	data := pdf.PayslipData{
		EmployeeName: employee.Name,
		EmployeeCode: employee.Code,
		Designation:  employee.Designation,
		Period:       fmt.Sprintf("%04d-%02d", record.PeriodYear, record.PeriodMonth),
		DaysWorked:   fmt.Sprintf("%d / %d", record.Attendance.DaysWorked, record.Attendance.DaysInPeriod),
		Status:       string(record.Status),
		Earnings: []pdf.PayslipLine{
			{Label: "Basic", Amount: record.Components.Basic.StringFixed(2)},
			{Label: "HRA", Amount: record.Components.HRA.StringFixed(2)},
			{Label: "Special allowance", Amount: record.Components.SpecialAllowance.StringFixed(2)},
			{Label: "Other allowances", Amount: record.Components.OtherAllowances.StringFixed(2)},
		},
		Deductions: []pdf.PayslipLine{
			{Label: "PF", Amount: record.Deductions.PFEmployee.StringFixed(2)},
			{Label: "ESI", Amount: record.Deductions.ESIEmployee.StringFixed(2)},
			{Label: "TDS", Amount: record.Deductions.TDS.StringFixed(2)},
			{Label: "Professional tax", Amount: record.Deductions.ProfessionalTax.StringFixed(2)},
			{Label: "Other", Amount: record.Deductions.OtherDeductions.StringFixed(2)},
		},
		GrossSalary:     record.GrossSalary.StringFixed(2),
		TotalDeductions: record.TotalDeductions.StringFixed(2),
		NetSalary:       record.NetSalary.StringFixed(2),
	}
	for _, adj := range record.Adjustments {
		line := pdf.PayslipLine{Label: adj.Name, Amount: adj.Amount.StringFixed(2)}
		if adj.Kind == domain.AdjustmentEarning {
			data.Earnings = append(data.Earnings, line)
		} else {
			data.Deductions = append(data.Deductions, line)
		}
	}
	return s.pdf.GeneratePayslip(ctx, data)
}

func (s *Service) recordForCompany(ctx context.Context, recordID string) (*domain.PayrollRecord, snowflake.ID, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, 0, domain.ErrInvalidCompany
	}
	id, err := snowflake.ParseString(recordID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: invalid record id", domain.ErrInvalidInput)
	}
	record, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return nil, 0, err
	}
	if record == nil {
		return nil, 0, domain.ErrRecordNotFound
	}
	return record, companyID, nil
}

func transitionAllowed(from, to domain.PayrollStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (s *Service) recordAudit(ctx context.Context, companyID snowflake.ID, action string, entityID snowflake.ID, meta datatypes.JSONMap) {
	err := s.audit.Record(ctx, auditdomain.Entry{
		CompanyID: companyID,
		Action:    action,
		Entity:    "payroll_record",
		EntityID:  entityID,
		Metadata:  meta,
	})
	if err != nil {
		s.log.Warn("audit record skipped", zap.String("action", action), zap.Error(err))
	}
}

func daysIn(month, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
