package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/internal/clock"
	"github.com/hrplane/hrplane/internal/employee/domain"
	"github.com/hrplane/hrplane/internal/tenantctx"
	"github.com/hrplane/hrplane/pkg/crypto"
	"github.com/hrplane/hrplane/pkg/db"
	"github.com/hrplane/hrplane/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   domain.Repository
	Crypto *crypto.Service
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	repo   domain.Repository
	crypto *crypto.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("employee.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		repo:   p.Repo,
		crypto: p.Crypto,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateEmployeeRequest) (domain.Employee, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.Employee{}, domain.ErrInvalidCompany
	}

	req.Code = strings.TrimSpace(req.Code)
	req.Name = strings.TrimSpace(req.Name)
	if req.Code == "" || req.Name == "" {
		return domain.Employee{}, fmt.Errorf("%w: code and name are required", domain.ErrInvalidInput)
	}
	if req.JoinDate.IsZero() {
		return domain.Employee{}, fmt.Errorf("%w: join date is required", domain.ErrInvalidInput)
	}

	basic, err := parseAmount("basic_salary", req.BasicSalary)
	if err != nil {
		return domain.Employee{}, err
	}
	hra, err := parseAmount("hra", req.HRA)
	if err != nil {
		return domain.Employee{}, err
	}
	special, err := parseAmount("special_allowance", req.SpecialAllowance)
	if err != nil {
		return domain.Employee{}, err
	}
	other, err := parseAmount("other_allowances", req.OtherAllowances)
	if err != nil {
		return domain.Employee{}, err
	}

	var bankEnc []byte
	if req.BankAccount != "" {
		bankEnc, err = s.crypto.EncryptString(req.BankAccount)
		if err != nil {
			return domain.Employee{}, err
		}
	}

	now := s.clock.Now()
	employee := domain.Employee{
		ID:               s.genID.Generate(),
		CompanyID:        companyID,
		Code:             req.Code,
		Name:             req.Name,
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Designation:      strings.TrimSpace(req.Designation),
		BasicSalary:      basic,
		HRA:              hra,
		SpecialAllowance: special,
		OtherAllowances:  other,
		BankAccountEnc:   bankEnc,
		JoinDate:         req.JoinDate.UTC(),
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Insert(ctx, s.db, &employee); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Employee{}, domain.ErrDuplicateCode
		}
		return domain.Employee{}, err
	}

	s.log.Info("employee created",
		zap.String("company_id", companyID.String()),
		zap.String("code", employee.Code),
	)
	return employee, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (domain.Employee, error) {
	employee, err := s.forCompany(ctx, id)
	if err != nil {
		return domain.Employee{}, err
	}
	return *employee, nil
}

func (s *Service) List(ctx context.Context, filter domain.ListEmployeesFilter) (domain.ListEmployeesResponse, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.ListEmployeesResponse{}, domain.ErrInvalidCompany
	}

	employees, err := s.repo.List(ctx, s.db, companyID, filter)
	if err != nil {
		return domain.ListEmployeesResponse{}, err
	}

	resp := domain.ListEmployeesResponse{Employees: employees}
	limit := filter.Limit()
	if len(employees) > limit {
		resp.Employees = employees[:limit]
		last := resp.Employees[len(resp.Employees)-1]
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: last.ID.String()})
		if err != nil {
			return domain.ListEmployeesResponse{}, err
		}
		resp.PageInfo = pagination.PageInfo{NextPageToken: token, HasMore: true}
	}
	return resp, nil
}

// UpdateSalary replaces the salary structure. Existing payroll records keep
// the components they were computed with.
func (s *Service) UpdateSalary(ctx context.Context, id snowflake.ID, req domain.UpdateSalaryRequest) (domain.Employee, error) {
	employee, err := s.forCompany(ctx, id)
	if err != nil {
		return domain.Employee{}, err
	}
	if !employee.IsActive {
		return domain.Employee{}, domain.ErrEmployeeInactive
	}

	basic, err := parseAmount("basic_salary", req.BasicSalary)
	if err != nil {
		return domain.Employee{}, err
	}
	hra, err := parseAmount("hra", req.HRA)
	if err != nil {
		return domain.Employee{}, err
	}
	special, err := parseAmount("special_allowance", req.SpecialAllowance)
	if err != nil {
		return domain.Employee{}, err
	}
	other, err := parseAmount("other_allowances", req.OtherAllowances)
	if err != nil {
		return domain.Employee{}, err
	}

	employee.BasicSalary = basic
	employee.HRA = hra
	employee.SpecialAllowance = special
	employee.OtherAllowances = other
	employee.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, employee); err != nil {
		return domain.Employee{}, err
	}
	return *employee, nil
}

func (s *Service) Deactivate(ctx context.Context, id snowflake.ID) (domain.Employee, error) {
	employee, err := s.forCompany(ctx, id)
	if err != nil {
		return domain.Employee{}, err
	}

	employee.IsActive = false
	employee.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, employee); err != nil {
		return domain.Employee{}, err
	}

	s.log.Info("employee deactivated",
		zap.String("company_id", employee.CompanyID.String()),
		zap.String("code", employee.Code),
	)
	return *employee, nil
}

func (s *Service) BankAccount(ctx context.Context, id snowflake.ID) (string, error) {
	employee, err := s.forCompany(ctx, id)
	if err != nil {
		return "", err
	}
	if len(employee.BankAccountEnc) == 0 {
		return "", nil
	}
	return s.crypto.DecryptString(employee.BankAccountEnc)
}

func (s *Service) forCompany(ctx context.Context, id snowflake.ID) (*domain.Employee, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}
	employee, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, domain.ErrEmployeeNotFound
	}
	return employee, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s is not a valid amount", domain.ErrInvalidInput, field)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, field)
	}
	return amount, nil
}
