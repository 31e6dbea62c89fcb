package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeswinthayil/Lostandfound/internal/metrics"
	"github.com/jeswinthayil/Lostandfound/internal/repository"
	"github.com/robfig/cron/v3"
)

const (
	claimedRetention   = 7 * 24 * time.Hour
	unclaimedRetention = 30 * 24 * time.Hour
)

// Sweeper periodically deletes items past their retention thresholds
// and purges expired revocation entries. It keeps no state between
// runs; every tick derives its predicates fresh from the clock.
type Sweeper struct {
	items       repository.ItemRepository
	revocations repository.RevocationRepository
	logger      *slog.Logger
	schedule    cron.Schedule
	now         func() time.Time
}

// NewSweeper parses scheduleExpr as a standard cron expression
// (descriptors like "@daily" included).
func NewSweeper(
	items repository.ItemRepository,
	revocations repository.RevocationRepository,
	logger *slog.Logger,
	scheduleExpr string,
	now func() time.Time,
) (*Sweeper, error) {
	schedule, err := cron.ParseStandard(scheduleExpr)
	if err != nil {
		return nil, fmt.Errorf("parse sweep schedule %q: %w", scheduleExpr, err)
	}
	return &Sweeper{
		items:       items,
		revocations: revocations,
		logger:      logger.With("component", "retention"),
		schedule:    schedule,
		now:         now,
	}, nil
}

func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("retention sweeper started")

	for {
		next := s.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("retention sweeper shut down")
			return
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce performs one sweep. The three deletions are independent: a
// failure is logged and the others still run; the next tick retries.
func (s *Sweeper) RunOnce(ctx context.Context) {
	start := time.Now()
	now := s.now()

	deleted, err := s.items.DeleteClaimedBefore(ctx, now.Add(-claimedRetention))
	if err != nil {
		s.logger.ErrorContext(ctx, "sweep claimed items", "error", err)
	} else if deleted > 0 {
		metrics.RetentionDeletedTotal.WithLabelValues("claimed").Add(float64(deleted))
		s.logger.InfoContext(ctx, "swept claimed items", "deleted", deleted)
	}

	deleted, err = s.items.DeleteUnclaimedBefore(ctx, now.Add(-unclaimedRetention))
	if err != nil {
		s.logger.ErrorContext(ctx, "sweep unclaimed items", "error", err)
	} else if deleted > 0 {
		metrics.RetentionDeletedTotal.WithLabelValues("unclaimed").Add(float64(deleted))
		s.logger.InfoContext(ctx, "swept unclaimed items", "deleted", deleted)
	}

	purged, err := s.revocations.PurgeExpired(ctx, now)
	if err != nil {
		s.logger.ErrorContext(ctx, "purge revocations", "error", err)
	} else if purged > 0 {
		metrics.RetentionDeletedTotal.WithLabelValues("revocations").Add(float64(purged))
		s.logger.InfoContext(ctx, "purged expired revocations", "deleted", purged)
	}

	metrics.SweepCycleDuration.Observe(time.Since(start).Seconds())
}
