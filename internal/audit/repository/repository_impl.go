package repository

import (
	"context"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/internal/audit/domain"
	"github.com/hrplane/hrplane/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, log *domain.AuditLog) error {
	return db.WithContext(ctx).Create(log).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter domain.ListFilter) ([]domain.AuditLog, error) {
	q := db.WithContext(ctx).
		Model(&domain.AuditLog{}).
		Where("company_id = ?", companyID)

	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if filter.PageToken != "" {
		cursor, err := pagination.DecodeCursor(filter.PageToken)
		if err != nil {
			return nil, err
		}
		if cursor.ID != "" {
			id, err := strconv.ParseInt(cursor.ID, 10, 64)
			if err != nil {
				return nil, err
			}
			q = q.Where("id < ?", id)
		}
	}

	var logs []domain.AuditLog
	err := q.Order("id desc").
		Limit(filter.Limit() + 1).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
