package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListRecordsFilter struct {
	PeriodMonth int
	PeriodYear  int
	EmployeeID  snowflake.ID
	Status      PayrollStatus
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *PayrollRecord) error
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*PayrollRecord, error)
	List(ctx context.Context, db *gorm.DB, companyID snowflake.ID, filter ListRecordsFilter, page pagination.Pagination) ([]PayrollRecord, error)
	UpdateTotals(ctx context.Context, db *gorm.DB, record *PayrollRecord) error
	UpdateStatus(ctx context.Context, db *gorm.DB, record *PayrollRecord) error
	InsertAdjustment(ctx context.Context, db *gorm.DB, adjustment *Adjustment) error
	ListAdjustments(ctx context.Context, db *gorm.DB, recordID snowflake.ID) ([]Adjustment, error)
}
