// Package scheduler runs periodic maintenance jobs: the invoice overdue
// sweep and the cached monthly total refresh.
package scheduler

import (
	"context"
	"time"

	"github.com/hrplane/hrplane/internal/config"
	billingdomain "github.com/hrplane/hrplane/internal/companybilling/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const sweepInterval = time.Hour

type Scheduler struct {
	log     *zap.Logger
	billing billingdomain.Service
	ticker  *time.Ticker
	done    chan struct{}
}

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Log       *zap.Logger
	Billing   billingdomain.Service
}

func New(p Params) *Scheduler {
	s := &Scheduler{
		log:     p.Log.Named("scheduler"),
		billing: p.Billing,
		done:    make(chan struct{}),
	}
	if !p.Config.SchedulerEnabled {
		s.log.Info("scheduler disabled")
		return s
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.ticker = time.NewTicker(sweepInterval)
			go s.loop()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if s.ticker != nil {
				s.ticker.Stop()
			}
			close(s.done)
			return nil
		},
	})
	return s
}

func (s *Scheduler) loop() {
	// Sweep once at startup so a restart never delays overdue detection by
	// a full interval.
	s.sweep()
	for {
		select {
		case <-s.ticker.C:
			s.sweep()
		case <-s.done:
			return
		}
	}
}

func (s *Scheduler) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	flipped, err := s.billing.MarkOverdueSweep(ctx)
	if err != nil {
		s.log.Error("overdue sweep failed", zap.Error(err))
	} else if flipped > 0 {
		s.log.Info("overdue sweep completed", zap.Int("invoices", flipped))
	}

	refreshed, err := s.billing.RefreshTotalsSweep(ctx)
	if err != nil {
		s.log.Error("totals sweep failed", zap.Error(err))
	} else if refreshed > 0 {
		s.log.Info("totals sweep completed", zap.Int("billings", refreshed))
	}
}

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(func(*Scheduler) {}),
)
