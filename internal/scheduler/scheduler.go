package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	claimdomain "github.com/haulaware/driverpay/internal/claim/domain"
	"github.com/haulaware/driverpay/internal/clock"
	"github.com/haulaware/driverpay/internal/config"
	"github.com/haulaware/driverpay/internal/metrics"
	settlementdomain "github.com/haulaware/driverpay/internal/settlement/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const claimBatchSize = 100

type Params struct {
	fx.In

	Log           *zap.Logger
	Clock         clock.Clock
	Config        config.Config
	SettlementSvc settlementdomain.Service
	ClaimSvc      claimdomain.Service
	Metrics       *metrics.Instruments
}

// Scheduler drives the periodic jobs: settlement batches for the previous
// week and month, and auto-claims for failed orders. Every job is duplicate
// safe, so overlapping runs converge instead of double-paying.
type Scheduler struct {
	log           *zap.Logger
	clock         clock.Clock
	cfg           config.SchedulerConfig
	settlementSvc settlementdomain.Service
	claimSvc      claimdomain.Service
	metrics       *metrics.Instruments
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:           p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		clock:         p.Clock,
		cfg:           p.Config.Scheduler,
		settlementSvc: p.SettlementSvc,
		claimSvc:      p.ClaimSvc,
		metrics:       p.Metrics,
	}
}

func (s *Scheduler) runJob(parent context.Context, name string, timeout time.Duration, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	s.metrics.IncJobRun(name)
	err := fn(ctx)
	s.metrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	s.metrics.IncJobError(name)
	// A deadline is a soft failure: the next tick picks up where this one
	// stopped because every job is idempotent.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name string
		Run  func(context.Context) error
	}{
		{"weekly_settlements", func(ctx context.Context) error {
			return s.runJob(ctx, "weekly_settlements", s.cfg.JobTimeout, s.WeeklySettlementsJob)
		}},
		{"monthly_settlements", func(ctx context.Context) error {
			return s.runJob(ctx, "monthly_settlements", s.cfg.JobTimeout, s.MonthlySettlementsJob)
		}},
		{"claim_autocreate", func(ctx context.Context) error {
			return s.runJob(ctx, "claim_autocreate", s.cfg.JobTimeout, s.ClaimAutocreateJob)
		}},
	}

	for _, job := range jobs {
		if s.cfg.JobEnabled(job.Name) {
			err = errors.Join(err, job.Run(parent))
		}
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// WeeklySettlementsJob settles the ISO week before the current one.
func (s *Scheduler) WeeklySettlementsJob(ctx context.Context) error {
	year, week := s.clock.Now().AddDate(0, 0, -7).ISOWeek()
	result, err := s.settlementSvc.CalculateAll(ctx, settlementdomain.PeriodWeekly, year, week)
	if err != nil {
		return err
	}
	s.logBatch("weekly_settlements", result)
	return nil
}

// MonthlySettlementsJob settles the previous calendar month.
func (s *Scheduler) MonthlySettlementsJob(ctx context.Context) error {
	now := s.clock.Now()
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	result, err := s.settlementSvc.CalculateAll(ctx, settlementdomain.PeriodMonthly, prev.Year(), int(prev.Month()))
	if err != nil {
		return err
	}
	s.logBatch("monthly_settlements", result)
	return nil
}

// ClaimAutocreateJob opens pending claims for failed orders without one.
func (s *Scheduler) ClaimAutocreateJob(ctx context.Context) error {
	created, err := s.claimSvc.CreateFromFailedOrders(ctx, claimBatchSize)
	if err != nil {
		return err
	}
	if created > 0 {
		s.log.Info("claim autocreate finished", zap.Int("created", created))
	}
	return nil
}

func (s *Scheduler) logBatch(job string, result *settlementdomain.BatchResult) {
	s.log.Info("settlement batch done",
		zap.String("job", job),
		zap.String("period_type", string(result.PeriodType)),
		zap.Int("year", result.Year),
		zap.Int("index", result.Index),
		zap.Int("calculated", result.Calculated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", len(result.Failed)),
	)
}
