package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/internal/addon/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindCatalogByCode(ctx context.Context, db *gorm.DB, code string) (*domain.FeatureAddon, error) {
	var addon domain.FeatureAddon
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM feature_addons WHERE code = ? AND is_active = ?`,
		code,
		true,
	).Scan(&addon).Error
	if err != nil {
		return nil, err
	}
	if addon.ID == 0 {
		return nil, nil
	}
	return &addon, nil
}

func (r *repo) ListCatalog(ctx context.Context, db *gorm.DB) ([]domain.FeatureAddon, error) {
	var addons []domain.FeatureAddon
	err := db.WithContext(ctx).
		Model(&domain.FeatureAddon{}).
		Where("is_active = ?", true).
		Order("code asc").
		Find(&addons).Error
	if err != nil {
		return nil, err
	}
	return addons, nil
}

func (r *repo) InsertCompanyAddon(ctx context.Context, db *gorm.DB, addon *domain.CompanyAddon) error {
	return db.WithContext(ctx).Create(addon).Error
}

func (r *repo) FindCompanyAddon(ctx context.Context, db *gorm.DB, companyID, featureAddonID snowflake.ID) (*domain.CompanyAddon, error) {
	var addon domain.CompanyAddon
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM company_addons WHERE company_id = ? AND feature_addon_id = ?`,
		companyID,
		featureAddonID,
	).Scan(&addon).Error
	if err != nil {
		return nil, err
	}
	if addon.ID == 0 {
		return nil, nil
	}
	return &addon, nil
}

func (r *repo) UpdateCompanyAddon(ctx context.Context, db *gorm.DB, addon *domain.CompanyAddon) error {
	return db.WithContext(ctx).Save(addon).Error
}

const activeAddonQuery = `
	SELECT ca.id AS company_addon_id,
	       ca.company_id AS company_id,
	       fa.code AS code,
	       fa.name AS name,
	       fa.monthly_price AS monthly_price,
	       ca.activated_at AS activated_at,
	       ca.expires_at AS expires_at
	FROM company_addons ca
	JOIN feature_addons fa ON fa.id = ca.feature_addon_id
	WHERE ca.status = ?`

func (r *repo) ListActiveByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]domain.ActiveAddonView, error) {
	var rows []domain.ActiveAddonView
	err := db.WithContext(ctx).Raw(
		activeAddonQuery+` AND ca.company_id = ? ORDER BY fa.code ASC`,
		domain.AddonStatusActive,
		companyID,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) ListActivePlatform(ctx context.Context, db *gorm.DB) ([]domain.ActiveAddonView, error) {
	var rows []domain.ActiveAddonView
	err := db.WithContext(ctx).Raw(
		activeAddonQuery+` ORDER BY ca.company_id ASC, fa.code ASC`,
		domain.AddonStatusActive,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
