package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"smartnotes/internal/handler/http/respond"
	aiUC "smartnotes/internal/usecase/ai"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
	statusSkipped = "skipped"
)

// Refresher digests notes whose summary is missing or out of date.
type Refresher interface {
	RefreshStale(ctx context.Context, limit, parallelism int) (aiUC.RefreshReport, error)
}

// Scheduler runs Refresher on a cron schedule. A run that is still going
// when the next tick fires causes that tick to be skipped.
type Scheduler struct {
	cfg       Config
	refresher Refresher
	metrics   *Metrics
	logger    *slog.Logger
	cron      *cron.Cron
	running   atomic.Bool
}

func NewScheduler(cfg Config, refresher Refresher, m *Metrics, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cfg:       cfg,
		refresher: refresher,
		metrics:   m,
		logger:    logger,
	}
	s.cron = cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithLogger(cronLogger{logger}),
	)
	if _, err := s.cron.AddFunc(cfg.CronSchedule, func() { _ = s.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("schedule refresh job: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("digest refresh scheduled",
		slog.String("schedule", s.cfg.CronSchedule),
		slog.String("timezone", s.cfg.Timezone))
}

// Stop halts the schedule and waits for a run in progress, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("refresh job still running at shutdown")
	}
}

// RunOnce performs one refresh run bounded by JobTimeout.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.recordRun(statusSkipped, 0)
		s.logger.Info("refresh job skipped, previous run still active")
		return nil
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.JobTimeout)
	defer cancel()

	start := time.Now()
	report, err := s.refresher.RefreshStale(ctx, s.cfg.BatchSize, s.cfg.Parallelism)
	elapsed := time.Since(start)

	s.metrics.recordNotes(report.Remote, report.Fallbacks, report.Failed)
	if err != nil {
		s.metrics.recordRun(statusFailure, elapsed.Seconds())
		s.logger.Error("refresh job failed",
			slog.String("error", respond.SanitizeError(err)),
			slog.Duration("duration", elapsed))
		return err
	}
	s.metrics.recordRun(statusSuccess, elapsed.Seconds())
	s.logger.Info("refresh job completed",
		slog.Int("scanned", report.Scanned),
		slog.Int("digested", report.Digested),
		slog.Int("failed", report.Failed),
		slog.Duration("duration", elapsed))
	return nil
}

// cronLogger routes cron's own messages to slog.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
