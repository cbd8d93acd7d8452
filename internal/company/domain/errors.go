package domain

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrCompanyNotFound  = errors.New("company not found")
	ErrDuplicateCompany = errors.New("company name already taken")
	ErrDuplicateEmail   = errors.New("email already registered")
	ErrInvalidCompany   = errors.New("invalid company")
)
