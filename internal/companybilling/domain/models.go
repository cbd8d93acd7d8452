// Package domain contains persistence models for company billing and invoices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// BillingCycle determines which base price applies when invoicing.
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "MONTHLY"
	BillingCycleYearly  BillingCycle = "YEARLY"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// CompanyBilling is a company's plan assignment, 1:1 per company.
// MonthlyTotal is a derived cache refreshed whenever counts change.
type CompanyBilling struct {
	ID               snowflake.ID    `gorm:"primaryKey" json:"id"`
	CompanyID        snowflake.ID    `gorm:"not null;uniqueIndex" json:"company_id"`
	BillingPlanID    snowflake.ID    `gorm:"not null;index" json:"billing_plan_id"`
	BillingCycle     BillingCycle    `gorm:"type:text;not null;default:'MONTHLY'" json:"billing_cycle"`
	CurrentEmployees int             `gorm:"not null;default:0" json:"current_employees"`
	CurrentUsers     int             `gorm:"not null;default:0" json:"current_users"`
	MonthlyTotal     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"monthly_total"`
	CreatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (CompanyBilling) TableName() string { return "company_billings" }

// BillingInvoice is one billing period's charge for one company. Amounts are
// immutable after creation; only status and paid_at change.
type BillingInvoice struct {
	ID               snowflake.ID      `gorm:"primaryKey" json:"id"`
	CompanyBillingID snowflake.ID      `gorm:"not null;uniqueIndex:ux_invoice_billing_period" json:"company_billing_id"`
	InvoiceNumber    string            `gorm:"type:text;not null;uniqueIndex" json:"invoice_number"`
	PeriodStart      time.Time         `gorm:"not null;uniqueIndex:ux_invoice_billing_period" json:"period_start"`
	PeriodEnd        time.Time         `gorm:"not null" json:"period_end"`
	BaseAmount       decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"base_amount"`
	EmployeeAmount   decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"employee_amount"`
	UserAmount       decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"user_amount"`
	AddonAmount      decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"addon_amount"`
	TotalAmount      decimal.Decimal   `gorm:"type:numeric(14,2);not null" json:"total_amount"`
	Status           InvoiceStatus     `gorm:"type:text;not null;default:'PENDING'" json:"status"`
	EmployeeCount    int               `gorm:"not null" json:"employee_count"`
	UserCount        int               `gorm:"not null" json:"user_count"`
	DueDate          time.Time         `gorm:"not null" json:"due_date"`
	PaidAt           *time.Time        `gorm:"" json:"paid_at,omitempty"`
	Metadata         datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	LineItems        []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`
	CreatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (BillingInvoice) TableName() string { return "billing_invoices" }

// InvoiceLineItem is one line on an invoice. Position fixes the display
// order: base plan, employee overage, user overage, then add-ons.
type InvoiceLineItem struct {
	ID          snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID   snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	Position    int             `gorm:"not null" json:"position"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    int64           `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	CreatedAt   time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceLineItem) TableName() string { return "billing_invoice_items" }
