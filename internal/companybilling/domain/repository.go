package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	UpsertBilling(ctx context.Context, db *gorm.DB, billing *CompanyBilling) error
	FindBillingByCompany(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (*CompanyBilling, error)
	UpdateBilling(ctx context.Context, db *gorm.DB, billing *CompanyBilling) error
	InsertInvoice(ctx context.Context, db *gorm.DB, invoice *BillingInvoice) error
	InsertLineItems(ctx context.Context, db *gorm.DB, items []InvoiceLineItem) error
	FindInvoiceByID(ctx context.Context, db *gorm.DB, companyBillingID, id snowflake.ID) (*BillingInvoice, error)
	ListInvoices(ctx context.Context, db *gorm.DB, companyBillingID snowflake.ID, filter ListInvoicesFilter) ([]BillingInvoice, error)
	UpdateInvoiceStatus(ctx context.Context, db *gorm.DB, invoice *BillingInvoice) error
	ListPendingPastDue(ctx context.Context, db *gorm.DB, asOf time.Time) ([]BillingInvoice, error)
	ListAllBillings(ctx context.Context, db *gorm.DB) ([]CompanyBilling, error)
	CountHeadcount(ctx context.Context, db *gorm.DB, companyID snowflake.ID) (employees, users int, err error)
}
