package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, plan *BillingPlan) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*BillingPlan, error)
	List(ctx context.Context, db *gorm.DB, includeInactive bool) ([]BillingPlan, error)
	Update(ctx context.Context, db *gorm.DB, plan *BillingPlan) error
}
