package repository

import (
	"context"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/internal/employee/domain"
	"github.com/hrplane/hrplane/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, employee *domain.Employee) error {
	return db.WithContext(ctx).Create(employee).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Employee, error) {
	var employee domain.Employee
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM employees WHERE company_id = ? AND id = ?`,
		companyID,
		id,
	).Scan(&employee).Error
	if err != nil {
		return nil, err
	}
	if employee.ID == 0 {
		return nil, nil
	}
	return &employee, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter domain.ListEmployeesFilter) ([]domain.Employee, error) {
	q := db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("company_id = ?", companyID)

	if !filter.IncludeInactive {
		q = q.Where("is_active = ?", true)
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
			q = q.Where("id > ?", id)
		}
	}

	var employees []domain.Employee
	err := q.Order("id asc").
		Limit(filter.Limit() + 1).
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *repo) ListActiveByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("company_id = ? AND is_active = ?", companyID, true).
		Order("code asc").
		Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *repo) CountActive(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Employee{}).
		Where("company_id = ? AND is_active = ?", companyID, true).
		Count(&count).Error
	return count, err
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, employee *domain.Employee) error {
	return db.WithContext(ctx).Save(employee).Error
}
