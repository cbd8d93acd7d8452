package repository

import (
	"context"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/internal/payroll/domain"
	"github.com/hrplane/hrplane/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.PayrollRecord) error {
	return db.WithContext(ctx).Omit("Adjustments").Create(record).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.PayrollRecord, error) {
	var record domain.PayrollRecord
	err := db.WithContext(ctx).
		Preload("Adjustments", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter domain.ListRecordsFilter, page pagination.Pagination) ([]domain.PayrollRecord, error) {
	q := db.WithContext(ctx).
		Model(&domain.PayrollRecord{}).
		Where("company_id = ?", companyID)

	if filter.PeriodMonth != 0 {
		q = q.Where("period_month = ?", filter.PeriodMonth)
	}
	if filter.PeriodYear != 0 {
		q = q.Where("period_year = ?", filter.PeriodYear)
	}
	if filter.EmployeeID != 0 {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
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

	var records []domain.PayrollRecord
	err := q.Order("id desc").
		Limit(page.Limit() + 1).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) UpdateTotals(ctx context.Context, db *gorm.DB, record *domain.PayrollRecord) error {
	return db.WithContext(ctx).
		Model(&domain.PayrollRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"gross_salary":     record.GrossSalary,
			"total_deductions": record.TotalDeductions,
			"net_salary":       record.NetSalary,
			"updated_at":       record.UpdatedAt,
		}).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, record *domain.PayrollRecord) error {
	return db.WithContext(ctx).
		Model(&domain.PayrollRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"status":     record.Status,
			"updated_at": record.UpdatedAt,
		}).Error
}

func (r *repo) InsertAdjustment(ctx context.Context, db *gorm.DB, adjustment *domain.Adjustment) error {
	return db.WithContext(ctx).Create(adjustment).Error
}

func (r *repo) ListAdjustments(ctx context.Context, db *gorm.DB, recordID snowflake.ID) ([]domain.Adjustment, error) {
	var adjustments []domain.Adjustment
	err := db.WithContext(ctx).
		Model(&domain.Adjustment{}).
		Where("payroll_record_id = ?", recordID).
		Order("position asc").
		Find(&adjustments).Error
	if err != nil {
		return nil, err
	}
	return adjustments, nil
}
