package worker

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobboard-be/internal/worker/domain"
)

// spawnWorkerPool spawns N worker goroutines based on concurrency configuration
func (w *Worker) spawnWorkerPool() {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(i)
	}

	w.logger.Info("Worker pool spawned",
		slog.Int("worker_count", w.concurrency),
	)
}

// workerLoop settles messages until jobsChan is closed
func (w *Worker) workerLoop(workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)

	for msg := range w.jobsChan {
		err := w.processView(msg)
		if err == nil {
			if ackErr := msg.Delivery.Ack(false); ackErr != nil {
				w.logger.Error("Failed to ACK message",
					slog.String("worker_name", workerName),
					slog.String("job_id", msg.JobID),
					slog.Any("error", ackErr),
				)
			}
			continue
		}

		requeue := shouldRequeue(err)
		w.logger.Warn("View processing failed",
			slog.String("worker_name", workerName),
			slog.String("job_id", msg.JobID),
			slog.Bool("requeue", requeue),
			slog.Any("error", err),
		)

		if nackErr := msg.Delivery.Nack(false, requeue); nackErr != nil {
			w.logger.Error("Failed to NACK message",
				slog.String("worker_name", workerName),
				slog.String("job_id", msg.JobID),
				slog.Any("error", nackErr),
			)
		}
	}

	w.logger.Debug("Worker goroutine stopped", slog.String("worker_name", workerName))
}

// shouldRequeue decides whether a failed message goes back on the queue
func shouldRequeue(err error) bool {
	if errors.Is(err, domain.ErrJobNotFound) || errors.Is(err, domain.ErrInvalidPayload) {
		return false
	}

	var retryable *domain.RetryableError
	return errors.As(err, &retryable)
}
