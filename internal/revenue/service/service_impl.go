package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hrplane/hrplane/internal/revenue/domain"
	"github.com/hrplane/hrplane/internal/revenue/engine"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	summaryCacheKey = "revenue:summary"
	summaryCacheTTL = 60 * time.Second
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Redis *redis.Client `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	redis *redis.Client
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("revenue.service"),
		repo:  p.Repo,
		redis: p.Redis,
	}
}

func (s *Service) Summary(ctx context.Context) (domain.RevenueSummary, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	billings, err := s.repo.ListBillingRollup(ctx, s.db)
	if err != nil {
		return domain.RevenueSummary{}, err
	}
	addons, err := s.repo.ListAddonRollup(ctx, s.db)
	if err != nil {
		return domain.RevenueSummary{}, err
	}
	invoices, err := s.repo.SummarizeInvoices(ctx, s.db)
	if err != nil {
		return domain.RevenueSummary{}, err
	}

	summary, err := engine.Summarize(billings, addons, invoices)
	if err != nil {
		return domain.RevenueSummary{}, err
	}
	s.toCache(ctx, summary)
	return summary, nil
}

// Cache is best effort. A cold or absent redis never fails the rollup.
func (s *Service) fromCache(ctx context.Context) (domain.RevenueSummary, bool) {
	if s.redis == nil {
		return domain.RevenueSummary{}, false
	}
	raw, err := s.redis.Get(ctx, summaryCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("revenue cache read failed", zap.Error(err))
		}
		return domain.RevenueSummary{}, false
	}
	var summary domain.RevenueSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return domain.RevenueSummary{}, false
	}
	return summary, true
}

func (s *Service) toCache(ctx context.Context, summary domain.RevenueSummary) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, summaryCacheKey, raw, summaryCacheTTL).Err(); err != nil {
		s.log.Warn("revenue cache write failed", zap.Error(err))
	}
}
