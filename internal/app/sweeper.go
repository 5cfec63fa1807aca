package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/frontdesk/internal/core/escalation"
	"github.com/example/frontdesk/internal/db"
	"github.com/example/frontdesk/internal/metrics"
	"github.com/example/frontdesk/internal/ports/secondary"
)

// SweepReport summarizes one aging pass.
type SweepReport struct {
	Checked int
	Expired int
	Skipped int // unparseable timestamps and per-row failures
}

// Sweeper ages PENDING escalations into UNRESOLVED.
type Sweeper struct {
	store    secondary.SessionStore
	timeout  time.Duration
	interval time.Duration
	now      func() time.Time
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewSweeper creates a sweeper that expires escalations pending longer than
// timeout, checking every interval. A nil clock defaults to time.Now.
func NewSweeper(store secondary.SessionStore, timeout, interval time.Duration, clock func() time.Time, m *metrics.Metrics, logger *zap.Logger) *Sweeper {
	if clock == nil {
		clock = time.Now
	}
	if m == nil {
		m = metrics.NewUnregistered()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		store:    store,
		timeout:  timeout,
		interval: interval,
		now:      clock,
		metrics:  m,
		logger:   logger,
	}
}

// SweepOnce expires every PENDING escalation older than the timeout.
// Rows that cannot be parsed or updated are logged and skipped.
func (s *Sweeper) SweepOnce(ctx context.Context) (SweepReport, error) {
	var report SweepReport

	pending, err := s.store.ListEscalations(ctx, secondary.EscalationFilters{Status: string(escalation.StatusPending)})
	if err != nil {
		return report, fmt.Errorf("failed to list pending escalations: %w", err)
	}

	now := s.now()
	for _, rec := range pending {
		report.Checked++
		log := s.logger.With(zap.String("session_id", rec.SessionID), zap.Int64("escalation_id", rec.ID))

		createdAt, err := db.ParseTime(rec.CreatedAt)
		if err != nil {
			log.Warn("skipping escalation with unparseable created_at", zap.String("created_at", rec.CreatedAt), zap.Error(err))
			report.Skipped++
			continue
		}

		if guard := escalation.CanExpire(escalation.ExpireContext{EscalationID: rec.ID, Status: escalation.Status(rec.Status)}); !guard.Allowed {
			continue
		}
		if !escalation.IsOverdue(createdAt, now, s.timeout) {
			continue
		}

		expired, err := s.store.ExpireEscalation(ctx, rec.ID)
		if err != nil {
			log.Error("failed to expire escalation", zap.Error(err))
			report.Skipped++
			continue
		}
		if expired {
			report.Expired++
			s.metrics.EscalationsExpired.Inc()
			log.Info("escalation expired unanswered", zap.Duration("waited", now.Sub(createdAt)))
		}
	}

	s.metrics.PendingEscalations.Set(float64(report.Checked - report.Expired))
	return report, nil
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("escalation sweeper started",
		zap.Duration("interval", s.interval),
		zap.Duration("pending_timeout", s.timeout))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("escalation sweeper stopped")
			return nil
		case <-ticker.C:
			report, err := s.SweepOnce(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.logger.Error("sweep failed", zap.Error(err))
				continue
			}
			if report.Expired > 0 || report.Skipped > 0 {
				s.logger.Debug("sweep complete",
					zap.Int("checked", report.Checked),
					zap.Int("expired", report.Expired),
					zap.Int("skipped", report.Skipped))
			}
		}
	}
}
