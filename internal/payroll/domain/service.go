package domain

import (
	"context"
	"io"

	"github.com/hrplane/hrplane/pkg/db/pagination"
)

// RunPayrollRequest starts a payroll run for every active employee of the
// company in the given period.
type RunPayrollRequest struct {
	PeriodMonth  int `json:"period_month"`
	PeriodYear   int `json:"period_year"`
	DaysInPeriod int `json:"days_in_period"`
}

type RunPayrollResponse struct {
	Records []PayrollRecord `json:"records"`
	Skipped int             `json:"skipped"`
}

type ListRecordsRequest struct {
	pagination.Pagination
	PeriodMonth int
	PeriodYear  int
	EmployeeID  string
	Status      string
}

type ListRecordsResponse struct {
	pagination.PageInfo
	Records []PayrollRecord `json:"records"`
}

type AddAdjustmentRequest struct {
	Kind   AdjustmentKind `json:"kind"`
	Name   string         `json:"name"`
	Reason string         `json:"reason"`
	Amount string         `json:"amount"`
}

type Service interface {
	RunPayroll(ctx context.Context, req RunPayrollRequest) (RunPayrollResponse, error)
	GetRecord(ctx context.Context, id string) (PayrollRecord, error)
	ListRecords(ctx context.Context, req ListRecordsRequest) (ListRecordsResponse, error)
	AddAdjustment(ctx context.Context, recordID string, req AddAdjustmentRequest) (PayrollRecord, error)
	TransitionStatus(ctx context.Context, recordID string, next PayrollStatus) (PayrollRecord, error)
	Payslip(ctx context.Context, recordID string) (io.Reader, error)
}
