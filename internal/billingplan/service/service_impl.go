package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/hrplane/hrplane/internal/billingplan/domain"
	"github.com/hrplane/hrplane/pkg/db"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("billingplan.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePlanRequest) (domain.BillingPlan, error) {
	tier := strings.TrimSpace(req.Tier)
	if tier == "" {
		return domain.BillingPlan{}, fmt.Errorf("%w: tier is required", domain.ErrInvalidInput)
	}
	if req.IncludedEmployees < 0 || req.IncludedUsers < 0 {
		return domain.BillingPlan{}, fmt.Errorf("%w: included quotas must not be negative", domain.ErrInvalidInput)
	}

	basePrice, err := parseAmount("base_price", req.BasePrice)
	if err != nil {
		return domain.BillingPlan{}, err
	}
	yearlyBasePrice, err := parseAmount("yearly_base_price", req.YearlyBasePrice)
	if err != nil {
		return domain.BillingPlan{}, err
	}
	pricePerEmployee, err := parseAmount("price_per_employee", req.PricePerEmployee)
	if err != nil {
		return domain.BillingPlan{}, err
	}
	pricePerUser, err := parseAmount("price_per_user", req.PricePerUser)
	if err != nil {
		return domain.BillingPlan{}, err
	}

	now := time.Now().UTC()
	plan := domain.BillingPlan{
		ID:                s.genID.Generate(),
		Tier:              tier,
		BasePrice:         basePrice,
		YearlyBasePrice:   yearlyBasePrice,
		PricePerEmployee:  pricePerEmployee,
		PricePerUser:      pricePerUser,
		IncludedEmployees: req.IncludedEmployees,
		IncludedUsers:     req.IncludedUsers,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, s.db, &plan); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.BillingPlan{}, domain.ErrDuplicateTier
		}
		return domain.BillingPlan{}, err
	}

	s.log.Info("billing plan created", zap.String("plan_id", plan.ID.String()), zap.String("tier", plan.Tier))
	return plan, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.BillingPlan, error) {
	planID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.BillingPlan{}, fmt.Errorf("%w: invalid plan id", domain.ErrInvalidInput)
	}

	plan, err := s.repo.FindByID(ctx, s.db, planID)
	if err != nil {
		return domain.BillingPlan{}, err
	}
	if plan == nil {
		return domain.BillingPlan{}, domain.ErrPlanNotFound
	}
	return *plan, nil
}

func (s *Service) List(ctx context.Context, includeInactive bool) (domain.ListPlansResponse, error) {
	plans, err := s.repo.List(ctx, s.db, includeInactive)
	if err != nil {
		return domain.ListPlansResponse{}, err
	}
	return domain.ListPlansResponse{Plans: plans}, nil
}

// UpdatePrices applies administrative price changes. Past invoices keep the
// amounts they were generated with.
func (s *Service) UpdatePrices(ctx context.Context, id string, req domain.UpdatePricesRequest) (domain.BillingPlan, error) {
	plan, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.BillingPlan{}, err
	}

	if req.BasePrice != nil {
		if plan.BasePrice, err = parseAmount("base_price", *req.BasePrice); err != nil {
			return domain.BillingPlan{}, err
		}
	}
	if req.YearlyBasePrice != nil {
		if plan.YearlyBasePrice, err = parseAmount("yearly_base_price", *req.YearlyBasePrice); err != nil {
			return domain.BillingPlan{}, err
		}
	}
	if req.PricePerEmployee != nil {
		if plan.PricePerEmployee, err = parseAmount("price_per_employee", *req.PricePerEmployee); err != nil {
			return domain.BillingPlan{}, err
		}
	}
	if req.PricePerUser != nil {
		if plan.PricePerUser, err = parseAmount("price_per_user", *req.PricePerUser); err != nil {
			return domain.BillingPlan{}, err
		}
	}

	plan.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, &plan); err != nil {
		return domain.BillingPlan{}, err
	}

	s.log.Info("billing plan prices updated", zap.String("plan_id", plan.ID.String()))
	return plan, nil
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s is not a valid amount", domain.ErrInvalidInput, field)
	}
	if parsed.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s must not be negative", domain.ErrInvalidInput, field)
	}
	return parsed, nil
}
