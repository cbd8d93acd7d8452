package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, employee *Employee) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Employee, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter ListEmployeesFilter) ([]Employee, error)
	ListActiveByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]Employee, error)
	CountActive(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error)
	Update(ctx context.Context, db *gorm.DB, employee *Employee) error
}
