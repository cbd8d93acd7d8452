package domain

import "errors"

var ErrInvalidCompany = errors.New("invalid company")
