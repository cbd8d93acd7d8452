package domain

import (
	"context"
	"errors"
)

type CreatePlanRequest struct {
	Tier              string `json:"tier"`
	BasePrice         string `json:"base_price"`
	YearlyBasePrice   string `json:"yearly_base_price"`
	PricePerEmployee  string `json:"price_per_employee"`
	PricePerUser      string `json:"price_per_user"`
	IncludedEmployees int    `json:"included_employees"`
	IncludedUsers     int    `json:"included_users"`
}

type UpdatePricesRequest struct {
	BasePrice        *string `json:"base_price,omitempty"`
	YearlyBasePrice  *string `json:"yearly_base_price,omitempty"`
	PricePerEmployee *string `json:"price_per_employee,omitempty"`
	PricePerUser     *string `json:"price_per_user,omitempty"`
}

type ListPlansResponse struct {
	Plans []BillingPlan `json:"plans"`
}

type Service interface {
	Create(ctx context.Context, req CreatePlanRequest) (BillingPlan, error)
	GetByID(ctx context.Context, id string) (BillingPlan, error)
	List(ctx context.Context, includeInactive bool) (ListPlansResponse, error)
	UpdatePrices(ctx context.Context, id string, req UpdatePricesRequest) (BillingPlan, error)
}

var (
	ErrInvalidInput  = errors.New("invalid_input")
	ErrPlanNotFound  = errors.New("billing_plan_not_found")
	ErrDuplicateTier = errors.New("billing_plan_tier_exists")
)
