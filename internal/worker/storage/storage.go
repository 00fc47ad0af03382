package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/worker/domain"
)

// Execer runs a statement and reports the affected row count.
// *postgresql.Client satisfies it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (int64, error)
}

const (
	incrementViewsQuery = `
		UPDATE jobs
		SET views = views + 1
		WHERE id = $1`

	expireJobsQuery = `
		UPDATE jobs
		SET status = $1,
		    updated_at = NOW()
		WHERE status = $2
		  AND expired_at IS NOT NULL
		  AND expired_at < NOW()`

	cleanupNotificationsQuery = `
		DELETE FROM notifications
		WHERE is_read
		  AND created_at < $1`
)

// Storage handles all database operations for the worker
type Storage struct {
	db     Execer
	logger *slog.Logger
	now    func() time.Time
}

// NewStorage creates a new Storage instance
func NewStorage(db Execer, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// IncrementViews bumps the view counter of a job
func (s *Storage) IncrementViews(ctx context.Context, jobID string) error {
	affected, err := s.db.ExecContext(ctx, incrementViewsQuery, jobID)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}

	if affected == 0 {
		return domain.ErrJobNotFound
	}

	s.logger.Debug("Job views incremented", slog.String("job_id", jobID))
	return nil
}

// ExpireJobs moves active jobs past their expiry date to expired
func (s *Storage) ExpireJobs(ctx context.Context) (int64, error) {
	affected, err := s.db.ExecContext(ctx, expireJobsQuery, domain.JobStatusExpired, domain.JobStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to expire jobs: %w", err)
	}
	return affected, nil
}

// CleanupNotifications deletes read notifications older than retention
func (s *Storage) CleanupNotifications(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)

	affected, err := s.db.ExecContext(ctx, cleanupNotificationsQuery, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup notifications: %w", err)
	}
	return affected, nil
}
