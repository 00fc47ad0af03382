package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/model"
	"github.com/cuongbtq/jobboard-be/internal/pagination"
)

// Querier is the read side of the database handle. *postgresql.Client and
// *sqlx.DB both satisfy it.
type Querier interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Storage composes and runs job search queries. It holds no mutable state
// and is safe for concurrent use.
type Storage struct {
	db     Querier
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes a Storage
type Option func(*Storage)

// WithClock replaces time.Now, which posted_within is measured against
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

// NewStorage creates a new Storage instance
func NewStorage(db Querier, logger *slog.Logger, opts ...Option) *Storage {
	s := &Storage{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindAll returns one page of jobs matching filter, enriched with company
// and location data, plus the number of matches ignoring pagination.
func (s *Storage) FindAll(ctx context.Context, page, limit int, filter domain.JobFilter) (*model.JobPage, error) {
	p := pagination.Normalize(page, limit)
	conds := applyFilters(&filter, s.now())

	count := buildCountStatement(conds)
	var total int
	if err := s.db.GetContext(ctx, &total, count.SQL, count.Args...); err != nil {
		return nil, unavailable("count jobs", err)
	}

	result := &model.JobPage{
		Data:  []model.EnrichedJob{},
		Total: total,
		Page:  p.Page,
		Limit: p.Limit,
	}

	if total == 0 || p.Offset >= total {
		s.logger.Debug("Job listing has no rows for page",
			slog.Int("total", total),
			slog.Int("page", p.Page),
		)
		return result, nil
	}

	list := buildPageStatement(conds, &filter, p.Limit, p.Offset)
	var jobs []model.Job
	if err := s.db.SelectContext(ctx, &jobs, list.SQL, list.Args...); err != nil {
		return nil, unavailable("list jobs", err)
	}

	enriched, err := s.enrich(ctx, jobs)
	if err != nil {
		return nil, err
	}
	result.Data = enriched

	s.logger.Debug("Listed jobs",
		slog.String("search", deref(filter.Search)),
		slog.String("job_type", filter.JobType.String()),
		slog.String("sort", string(filter.Sort)),
		slog.Int("total", total),
		slog.Int("returned", len(enriched)),
		slog.Int("page", p.Page),
		slog.Int("limit", p.Limit),
	)

	return result, nil
}

// FindByID returns a single enriched job
func (s *Storage) FindByID(ctx context.Context, id string) (*model.EnrichedJob, error) {
	query := "SELECT" + jobColumns + " FROM jobs j WHERE j.id = $1"

	var job model.Job
	if err := s.db.GetContext(ctx, &job, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, unavailable("get job", err)
	}

	enriched, err := s.enrich(ctx, []model.Job{job})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, op, err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
