package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/internal/addon/domain"
	"github.com/hrplane/hrplane/internal/tenantctx"
	"github.com/hrplane/hrplane/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("addon.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Activate(ctx context.Context, addonCode string) (domain.CompanyAddon, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.CompanyAddon{}, domain.ErrInvalidCompany
	}

	catalog, err := s.findCatalog(ctx, addonCode)
	if err != nil {
		return domain.CompanyAddon{}, err
	}

	existing, err := s.repo.FindCompanyAddon(ctx, s.db, companyID, catalog.ID)
	if err != nil {
		return domain.CompanyAddon{}, err
	}

	now := time.Now().UTC()

	// A cancelled subscription is re-activated in place; the pair is unique.
	if existing != nil {
		if existing.Status == domain.AddonStatusActive {
			return domain.CompanyAddon{}, domain.ErrAlreadyActivated
		}
		existing.Status = domain.AddonStatusActive
		existing.ActivatedAt = now
		existing.CancelledAt = nil
		existing.ExpiresAt = nil
		existing.UpdatedAt = now
		if err := s.repo.UpdateCompanyAddon(ctx, s.db, existing); err != nil {
			return domain.CompanyAddon{}, err
		}
		return *existing, nil
	}

	addon := domain.CompanyAddon{
		ID:             s.genID.Generate(),
		CompanyID:      companyID,
		FeatureAddonID: catalog.ID,
		Status:         domain.AddonStatusActive,
		ActivatedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.InsertCompanyAddon(ctx, s.db, &addon); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.CompanyAddon{}, domain.ErrAlreadyActivated
		}
		return domain.CompanyAddon{}, err
	}

	s.log.Info("addon activated",
		zap.String("company_id", companyID.String()),
		zap.String("addon_code", catalog.Code),
	)
	return addon, nil
}

func (s *Service) Cancel(ctx context.Context, addonCode string) (domain.CompanyAddon, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return domain.CompanyAddon{}, domain.ErrInvalidCompany
	}

	catalog, err := s.findCatalog(ctx, addonCode)
	if err != nil {
		return domain.CompanyAddon{}, err
	}

	existing, err := s.repo.FindCompanyAddon(ctx, s.db, companyID, catalog.ID)
	if err != nil {
		return domain.CompanyAddon{}, err
	}
	if existing == nil || existing.Status != domain.AddonStatusActive {
		return domain.CompanyAddon{}, domain.ErrNotActive
	}

	now := time.Now().UTC()
	existing.Status = domain.AddonStatusCancelled
	existing.CancelledAt = &now
	existing.UpdatedAt = now
	if err := s.repo.UpdateCompanyAddon(ctx, s.db, existing); err != nil {
		return domain.CompanyAddon{}, err
	}

	s.log.Info("addon cancelled",
		zap.String("company_id", companyID.String()),
		zap.String("addon_code", catalog.Code),
	)
	return *existing, nil
}

func (s *Service) ListActive(ctx context.Context) ([]domain.ActiveAddonView, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return nil, domain.ErrInvalidCompany
	}
	return s.repo.ListActiveByCompany(ctx, s.db, companyID)
}

func (s *Service) Catalog(ctx context.Context) ([]domain.FeatureAddon, error) {
	return s.repo.ListCatalog(ctx, s.db)
}

func (s *Service) findCatalog(ctx context.Context, code string) (*domain.FeatureAddon, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: addon code is required", domain.ErrInvalidInput)
	}
	catalog, err := s.repo.FindCatalogByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, domain.ErrAddonNotFound
	}
	return catalog, nil
}
