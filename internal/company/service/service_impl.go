package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/hrplane/hrplane/internal/clock"
	"github.com/hrplane/hrplane/internal/company/domain"
	"github.com/hrplane/hrplane/internal/tenantctx"
	"github.com/hrplane/hrplane/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Signup(ctx context.Context, req domain.SignupRequest) (domain.SignupResponse, error) {
	req.CompanyName = strings.TrimSpace(req.CompanyName)
	req.AdminName = strings.TrimSpace(req.AdminName)
	req.AdminEmail = normalizeEmail(req.AdminEmail)
	if req.CompanyName == "" {
		return domain.SignupResponse{}, fmt.Errorf("%w: company name is required", domain.ErrInvalidInput)
	}
	if req.AdminName == "" || req.AdminEmail == "" {
		return domain.SignupResponse{}, fmt.Errorf("%w: admin name and email are required", domain.ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLen {
		return domain.SignupResponse{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.SignupResponse{}, err
	}

	now := s.clock.Now()
	company := domain.Company{
		ID:        s.genID.Generate(),
		Name:      req.CompanyName,
		Slug:      slug.Make(req.CompanyName),
		Status:    domain.CompanyStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin := domain.User{
		ID:           s.genID.Generate(),
		CompanyID:    company.ID,
		Email:        req.AdminEmail,
		Name:         req.AdminName,
		PasswordHash: hash,
		Role:         domain.UserRoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertCompany(ctx, tx, &company); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicateCompany
			}
			return err
		}
		if err := s.repo.InsertUser(ctx, tx, &admin); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicateEmail
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.SignupResponse{}, err
	}

	s.log.Info("company signed up",
		zap.String("company_id", company.ID.String()),
		zap.String("slug", company.Slug),
	)
	return domain.SignupResponse{Company: company, Admin: admin}, nil
}

func (s *Service) Get(ctx context.Context) (domain.Company, error) {
	company, err := s.companyFromContext(ctx)
	if err != nil {
		return domain.Company{}, err
	}
	return *company, nil
}

func (s *Service) Suspend(ctx context.Context) (domain.Company, error) {
	return s.setStatus(ctx, domain.CompanyStatusSuspended)
}

func (s *Service) Reactivate(ctx context.Context) (domain.Company, error) {
	return s.setStatus(ctx, domain.CompanyStatusActive)
}

func (s *Service) AddUser(ctx context.Context, req domain.AddUserRequest) (domain.User, error) {
	company, err := s.companyFromContext(ctx)
	if err != nil {
		return domain.User{}, err
	}

	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || req.Name == "" {
		return domain.User{}, fmt.Errorf("%w: name and email are required", domain.ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLen {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	if req.Role == "" {
		req.Role = domain.UserRoleMember
	}
	if req.Role != domain.UserRoleAdmin && req.Role != domain.UserRoleMember {
		return domain.User{}, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	now := s.clock.Now()
	user := domain.User{
		ID:           s.genID.Generate(),
		CompanyID:    company.ID,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.InsertUser(ctx, s.db, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.User{}, domain.ErrDuplicateEmail
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *Service) DeactivateUser(ctx context.Context, id snowflake.ID) (domain.User, error) {
	company, err := s.companyFromContext(ctx)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindUserByID(ctx, s.db, company.ID, id)
	if err != nil {
		return domain.User{}, err
	}
	if user == nil {
		return domain.User{}, domain.ErrCompanyNotFound
	}

	user.IsActive = false
	user.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateUser(ctx, s.db, user); err != nil {
		return domain.User{}, err
	}
	return *user, nil
}

func (s *Service) setStatus(ctx context.Context, status domain.CompanyStatus) (domain.Company, error) {
	company, err := s.companyFromContext(ctx)
	if err != nil {
		return domain.Company{}, err
	}

	company.Status = status
	company.UpdatedAt = s.clock.Now()
	if err := s.repo.UpdateCompany(ctx, s.db, company); err != nil {
		return domain.Company{}, err
	}

	s.log.Info("company status changed",
		zap.String("company_id", company.ID.String()),
		zap.String("status", string(status)),
	)
	return *company, nil
}

func (s *Service) companyFromContext(ctx context.Context) (*domain.Company, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}
	company, err := s.repo.FindCompanyByID(ctx, s.db, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotFound
	}
	return company, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
