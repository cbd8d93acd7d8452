package domain

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidCompany    = errors.New("invalid company")
	ErrBillingNotFound   = errors.New("company billing not found")
	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrDuplicateInvoice  = errors.New("invoice already exists for period")
	ErrInvalidTransition = errors.New("invalid invoice status transition")
	ErrPlanNotAssignable = errors.New("billing plan is not assignable")
)
