package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertCompany(ctx context.Context, db *gorm.DB, company *Company) error
	FindCompanyByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Company, error)
	UpdateCompany(ctx context.Context, db *gorm.DB, company *Company) error
	InsertUser(ctx context.Context, db *gorm.DB, user *User) error
	FindUserByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*User, error)
	UpdateUser(ctx context.Context, db *gorm.DB, user *User) error
}
