package domain

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid_input")
	ErrInvalidCompany    = errors.New("invalid_company")
	ErrRecordNotFound    = errors.New("payroll_record_not_found")
	ErrDuplicatePeriod   = errors.New("payroll_period_already_run")
	ErrImmutableRecord   = errors.New("payroll_record_immutable")
	ErrInvalidTransition = errors.New("invalid_status_transition")
	ErrRunInProgress     = errors.New("payroll_run_in_progress")
)
