package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/api/domain"
	"github.com/cuongbtq/jobboard-be/internal/api/model"
)

// JobFinder is the read side of the job store
type JobFinder interface {
	FindAll(ctx context.Context, page, limit int, filter domain.JobFilter) (*model.JobPage, error)
	FindByID(ctx context.Context, id string) (*model.EnrichedJob, error)
}

// EventPublisher sends domain events to the message broker
type EventPublisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// HealthChecker reports whether a backing service is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger *slog.Logger
	Jobs   JobFinder
	// Events may be nil, in which case no view events are sent
	Events       EventPublisher
	DB           HealthChecker
	QueryTimeout time.Duration
	PublishViews bool
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger       *slog.Logger
	jobs         JobFinder
	events       EventPublisher
	queryTimeout time.Duration
	publishViews bool
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger:       deps.Logger,
		jobs:         deps.Jobs,
		events:       deps.Events,
		queryTimeout: deps.QueryTimeout,
		publishViews: deps.PublishViews && deps.Events != nil,
	}
}

// queryContext bounds storage work by the configured timeout, if any
func (h *JobHandler) queryContext(parent context.Context) (context.Context, context.CancelFunc) {
	if h.queryTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.queryTimeout)
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	logger  *slog.Logger
	db      HealthChecker
	service string
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(deps *Dependencies, service string) *HealthHandler {
	return &HealthHandler{
		logger:  deps.Logger,
		db:      deps.DB,
		service: service,
	}
}
