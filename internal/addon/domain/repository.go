package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindCatalogByCode(ctx context.Context, db *gorm.DB, code string) (*FeatureAddon, error)
	ListCatalog(ctx context.Context, db *gorm.DB) ([]FeatureAddon, error)
	InsertCompanyAddon(ctx context.Context, db *gorm.DB, addon *CompanyAddon) error
	FindCompanyAddon(ctx context.Context, db *gorm.DB, companyID, featureAddonID snowflake.ID) (*CompanyAddon, error)
	UpdateCompanyAddon(ctx context.Context, db *gorm.DB, addon *CompanyAddon) error
	ListActiveByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]ActiveAddonView, error)
	ListActivePlatform(ctx context.Context, db *gorm.DB) ([]ActiveAddonView, error)
}
