package domain

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidCompany   = errors.New("invalid company")
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDuplicateCode    = errors.New("employee code already in use")
	ErrEmployeeInactive = errors.New("employee is inactive")
)
