package domain

import (
	"context"
	"errors"
)

type Service interface {
	Activate(ctx context.Context, addonCode string) (CompanyAddon, error)
	Cancel(ctx context.Context, addonCode string) (CompanyAddon, error)
	ListActive(ctx context.Context) ([]ActiveAddonView, error)
	Catalog(ctx context.Context) ([]FeatureAddon, error)
}

var (
	ErrInvalidInput     = errors.New("invalid_input")
	ErrInvalidCompany   = errors.New("invalid_company")
	ErrAddonNotFound    = errors.New("addon_not_found")
	ErrAlreadyActivated = errors.New("addon_already_activated")
	ErrNotActive        = errors.New("addon_not_active")
)
