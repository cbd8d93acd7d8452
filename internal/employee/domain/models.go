// Package domain contains employee records and their salary structure.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Employee is one person on a company's payroll. The bank account number is
// stored encrypted at rest and never serialized.
type Employee struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID `gorm:"not null;uniqueIndex:ux_employee_company_code" json:"company_id"`
	Code        string       `gorm:"type:text;not null;uniqueIndex:ux_employee_company_code" json:"code"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Email       string       `gorm:"type:text" json:"email,omitempty"`
	Designation string       `gorm:"type:text" json:"designation,omitempty"`

	BasicSalary      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"basic_salary"`
	HRA              decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"hra"`
	SpecialAllowance decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"special_allowance"`
	OtherAllowances  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"other_allowances"`

	BankAccountEnc []byte `gorm:"type:bytea" json:"-"`

	JoinDate  time.Time `gorm:"not null" json:"join_date"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Employee) TableName() string { return "employees" }
