package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/worker/domain"
	"github.com/robfig/cron/v3"
)

const defaultRunTimeout = time.Minute

// MaintenanceStore runs the periodic housekeeping statements
type MaintenanceStore interface {
	ExpireJobs(ctx context.Context) (int64, error)
	CleanupNotifications(ctx context.Context, retention time.Duration) (int64, error)
}

// SchedulerConfig holds the cron schedules of the maintenance triggers
type SchedulerConfig struct {
	Logger                *slog.Logger
	Storage               MaintenanceStore
	ExpireJobsSchedule    string
	CleanupSchedule       string
	NotificationRetention time.Duration
	RunTimeout            time.Duration
}

// Scheduler wraps robfig/cron and owns the two maintenance triggers
type Scheduler struct {
	cron       *cron.Cron
	logger     *slog.Logger
	storage    MaintenanceStore
	retention  time.Duration
	runTimeout time.Duration
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewScheduler validates the schedules and registers both triggers
func NewScheduler(cfg *SchedulerConfig) (*Scheduler, error) {
	cronLogger := &cronLogger{logger: cfg.Logger}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		logger:     cfg.Logger,
		storage:    cfg.Storage,
		retention:  cfg.NotificationRetention,
		runTimeout: cfg.RunTimeout,
	}
	if s.runTimeout <= 0 {
		s.runTimeout = defaultRunTimeout
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	triggers := []struct {
		name     string
		schedule string
		run      func(context.Context) (int64, error)
	}{
		{domain.TriggerExpireJobs, cfg.ExpireJobsSchedule, s.storage.ExpireJobs},
		{domain.TriggerCleanupNotifications, cfg.CleanupSchedule, func(ctx context.Context) (int64, error) {
			return s.storage.CleanupNotifications(ctx, s.retention)
		}},
	}

	for _, t := range triggers {
		name, run := t.name, t.run
		if _, err := s.cron.AddFunc(t.schedule, func() { s.runTrigger(name, run) }); err != nil {
			s.cancel()
			return nil, fmt.Errorf("invalid schedule %q for %s: %w", t.schedule, name, err)
		}
		s.logger.Info("Maintenance trigger registered",
			slog.String("trigger", name),
			slog.String("schedule", t.schedule),
		)
	}

	return s, nil
}

// Start runs the cron loop in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", slog.Int("triggers", len(s.cron.Entries())))
}

// Stop prevents new runs, cancels running ones and waits for them to return
// or for ctx to expire
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out", slog.Any("error", ctx.Err()))
	}
}

// runTrigger never propagates failures; the next tick simply tries again
func (s *Scheduler) runTrigger(name string, run func(context.Context) (int64, error)) {
	ctx, cancel := context.WithTimeout(s.ctx, s.runTimeout)
	defer cancel()

	start := time.Now()
	affected, err := run(ctx)
	if err != nil {
		s.logger.Error("Maintenance trigger failed",
			slog.String("trigger", name),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)
		return
	}

	s.logger.Info("Maintenance trigger completed",
		slog.String("trigger", name),
		slog.Int64("affected_rows", affected),
		slog.Duration("duration", time.Since(start)),
	)
}

// cronLogger routes robfig/cron's own logging through slog
type cronLogger struct {
	logger *slog.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{slog.Any("error", err)}, keysAndValues...)...)
}
