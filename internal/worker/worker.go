package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/worker/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrDeliveriesClosed is returned by Start when the broker closes the
// delivery channel before the worker was asked to stop
var ErrDeliveriesClosed = errors.New("rabbitmq delivery channel closed")

// Broker is the consuming side of the message broker.
// *rabbitmq.Client satisfies it.
type Broker interface {
	Qos(prefetchCount int) error
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// ViewStore records job views
type ViewStore interface {
	IncrementViews(ctx context.Context, jobID string) error
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Broker        Broker
	Storage       ViewStore
	WorkerID      string
	QueueName     string
	Concurrency   int
	PrefetchCount int
	JobTimeout    time.Duration
}

// Worker consumes job.viewed events and updates view counters
type Worker struct {
	logger        *slog.Logger
	broker        Broker
	storage       ViewStore
	workerID      string
	queueName     string
	concurrency   int
	prefetchCount int
	jobTimeout    time.Duration
	jobsChan      chan *domain.ViewMessage
	wg            sync.WaitGroup
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := max(cfg.Concurrency, 1)
	return &Worker{
		logger:        cfg.Logger,
		broker:        cfg.Broker,
		storage:       cfg.Storage,
		workerID:      cfg.WorkerID,
		queueName:     cfg.QueueName,
		concurrency:   concurrency,
		prefetchCount: cfg.PrefetchCount,
		jobTimeout:    cfg.JobTimeout,
		jobsChan:      make(chan *domain.ViewMessage, concurrency),
	}
}

// Start consumes messages until ctx is canceled or the broker closes the
// delivery channel. It blocks; call Wait afterwards to drain the pool.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	w.spawnWorkerPool()

	// the dispatcher is the only sender on jobsChan
	err = w.startMessageDispatcher(ctx, deliveries)
	close(w.jobsChan)
	return err
}

// Wait blocks until every in-flight message has been settled
func (w *Worker) Wait() {
	w.wg.Wait()
	w.logger.Info("Worker stopped", slog.String("worker_id", w.workerID))
}
