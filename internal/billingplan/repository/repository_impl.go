package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/internal/billingplan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, plan *domain.BillingPlan) error {
	return db.WithContext(ctx).Create(plan).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.BillingPlan, error) {
	var plan domain.BillingPlan
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM billing_plans WHERE id = ?`,
		id,
	).Scan(&plan).Error
	if err != nil {
		return nil, err
	}
	if plan.ID == 0 {
		return nil, nil
	}
	return &plan, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, includeInactive bool) ([]domain.BillingPlan, error) {
	var plans []domain.BillingPlan
	stmt := db.WithContext(ctx).Model(&domain.BillingPlan{})
	if !includeInactive {
		stmt = stmt.Where("is_active = ?", true)
	}
	if err := stmt.Order("base_price asc, tier asc").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, plan *domain.BillingPlan) error {
	return db.WithContext(ctx).Save(plan).Error
}
