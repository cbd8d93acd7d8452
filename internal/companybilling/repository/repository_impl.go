package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/internal/companybilling/domain"
	"github.com/hrplane/hrplane/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) UpsertBilling(ctx context.Context, db *gorm.DB, billing *domain.CompanyBilling) error {
	return db.WithContext(ctx).Save(billing).Error
}

func (r *repo) FindBillingByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*domain.CompanyBilling, error) {
	var billing domain.CompanyBilling
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM company_billings WHERE company_id = ?`,
		companyID,
	).Scan(&billing).Error
	if err != nil {
		return nil, err
	}
	if billing.ID == 0 {
		return nil, nil
	}
	return &billing, nil
}

func (r *repo) UpdateBilling(ctx context.Context, db *gorm.DB, billing *domain.CompanyBilling) error {
	return db.WithContext(ctx).Save(billing).Error
}

func (r *repo) InsertInvoice(ctx context.Context, db *gorm.DB, invoice *domain.BillingInvoice) error {
	return db.WithContext(ctx).Omit("LineItems").Create(invoice).Error
}

func (r *repo) InsertLineItems(ctx context.Context, db *gorm.DB, items []domain.InvoiceLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) FindInvoiceByID(ctx context.Context, db *gorm.DB, companyBillingID, id snowflake.ID) (*domain.BillingInvoice, error) {
	var invoice domain.BillingInvoice
	err := db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("company_billing_id = ? AND id = ?", companyBillingID, id).
		First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) ListInvoices(ctx context.Context, db *gorm.DB, companyBillingID snowflake.ID, filter domain.ListInvoicesFilter) ([]domain.BillingInvoice, error) {
	q := db.WithContext(ctx).
		Model(&domain.BillingInvoice{}).
		Where("company_billing_id = ?", companyBillingID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
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

	var invoices []domain.BillingInvoice
	err := q.Order("id desc").
		Limit(filter.Limit() + 1).
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) UpdateInvoiceStatus(ctx context.Context, db *gorm.DB, invoice *domain.BillingInvoice) error {
	return db.WithContext(ctx).
		Model(&domain.BillingInvoice{}).
		Where("id = ?", invoice.ID).
		Updates(map[string]interface{}{
			"status":     invoice.Status,
			"paid_at":    invoice.PaidAt,
			"updated_at": invoice.UpdatedAt,
		}).Error
}

// CountHeadcount reads the billable counts straight from the source tables
// so RefreshCounts never trusts the cached columns.
func (r *repo) CountHeadcount(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (int, int, error) {
	var counts struct {
		Employees int `gorm:"column:employees"`
		Users     int `gorm:"column:users"`
	}
	err := db.WithContext(ctx).Raw(
		`SELECT
			(SELECT COUNT(1) FROM employees WHERE company_id = ? AND is_active = ?) AS employees,
			(SELECT COUNT(1) FROM users WHERE company_id = ? AND is_active = ?) AS users`,
		companyID, true,
		companyID, true,
	).Scan(&counts).Error
	if err != nil {
		return 0, 0, err
	}
	return counts.Employees, counts.Users, nil
}

func (r *repo) ListAllBillings(ctx context.Context, db *gorm.DB) ([]domain.CompanyBilling, error) {
	var billings []domain.CompanyBilling
	err := db.WithContext(ctx).
		Model(&domain.CompanyBilling{}).
		Order("id asc").
		Find(&billings).Error
	if err != nil {
		return nil, err
	}
	return billings, nil
}

func (r *repo) ListPendingPastDue(ctx context.Context, db *gorm.DB, asOf time.Time) ([]domain.BillingInvoice, error) {
	var invoices []domain.BillingInvoice
	err := db.WithContext(ctx).
		Model(&domain.BillingInvoice{}).
		Where("status = ? AND due_date < ?", domain.InvoiceStatusPending, asOf).
		Order("due_date asc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
