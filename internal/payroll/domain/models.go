// Package domain contains persistence models for payroll runs.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// PayrollStatus represents payroll record lifecycle states.
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "DRAFT"
	PayrollStatusProcessed PayrollStatus = "PROCESSED"
	PayrollStatusPaid      PayrollStatus = "PAID"
	PayrollStatusHold      PayrollStatus = "HOLD"
)

// AdjustmentKind distinguishes ad-hoc earnings from ad-hoc deductions.
type AdjustmentKind string

const (
	AdjustmentEarning   AdjustmentKind = "EARNING"
	AdjustmentDeduction AdjustmentKind = "DEDUCTION"
)

// SalaryComponents are the earning components of one pay period. The caller
// supplies already-decided amounts; any pro-ration happens upstream.
type SalaryComponents struct {
	Basic            decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"basic"`
	HRA              decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"hra"`
	SpecialAllowance decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"special_allowance"`
	OtherAllowances  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"other_allowances"`
}

// AttendanceSummary captures attendance counts for a pay period.
type AttendanceSummary struct {
	DaysWorked    int             `gorm:"not null" json:"days_worked"`
	DaysInPeriod  int             `gorm:"not null" json:"days_in_period"`
	LeaveDays     int             `gorm:"not null" json:"leave_days"`
	AbsentDays    int             `gorm:"not null" json:"absent_days"`
	OvertimeHours decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"overtime_hours"`
}

// DeductionSet holds statutory and other withholdings. Employer-side
// contributions are tracked for reporting but excluded from the net.
type DeductionSet struct {
	PFEmployee      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"pf_employee"`
	PFEmployer      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"pf_employer"`
	ESIEmployee     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"esi_employee"`
	ESIEmployer     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"esi_employer"`
	TDS             decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"tds"`
	ProfessionalTax decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"professional_tax"`
	OtherDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"other_deductions"`
}

// PayrollRecord is one employee's payroll for one period. Unique per
// (employee_id, period_month, period_year). Mutable only while in
// DRAFT or PROCESSED; immutable once PAID.
type PayrollRecord struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID  `gorm:"not null;index" json:"company_id"`
	EmployeeID  snowflake.ID  `gorm:"not null;uniqueIndex:ux_payroll_employee_period" json:"employee_id"`
	PeriodMonth int           `gorm:"not null;uniqueIndex:ux_payroll_employee_period" json:"period_month"`
	PeriodYear  int           `gorm:"not null;uniqueIndex:ux_payroll_employee_period" json:"period_year"`
	Status      PayrollStatus `gorm:"type:text;not null;default:'DRAFT'" json:"status"`

	Components SalaryComponents  `gorm:"embedded" json:"components"`
	Attendance AttendanceSummary `gorm:"embedded" json:"attendance"`
	Deductions DeductionSet      `gorm:"embedded" json:"deductions"`

	GrossSalary     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"gross_salary"`
	TotalDeductions decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total_deductions"`
	NetSalary       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"net_salary"`

	Adjustments []Adjustment `gorm:"foreignKey:PayrollRecordID" json:"adjustments,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PayrollRecord) TableName() string { return "payroll_records" }

// Adjustment is an ad-hoc earning or deduction appended to a record before
// finalization. Position preserves insertion order for audit display.
type Adjustment struct {
	ID              snowflake.ID    `gorm:"primaryKey" json:"id"`
	PayrollRecordID snowflake.ID    `gorm:"not null;index" json:"payroll_record_id"`
	Position        int             `gorm:"not null" json:"position"`
	Kind            AdjustmentKind  `gorm:"type:text;not null" json:"kind"`
	Name            string          `gorm:"type:text;not null" json:"name"`
	Reason          string          `gorm:"type:text" json:"reason,omitempty"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Adjustment) TableName() string { return "payroll_adjustments" }
