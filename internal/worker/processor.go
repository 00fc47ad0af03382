package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobboard-be/internal/worker/domain"
)

// processView records one view. It runs under its own timeout, detached from
// the consumer's lifetime, so a shutdown lets in-flight updates finish.
func (w *Worker) processView(msg *domain.ViewMessage) error {
	ctx := context.Background()
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	err := w.storage.IncrementViews(ctx, msg.JobID)
	switch {
	case err == nil:
		w.logger.Debug("View recorded", slog.String("job_id", msg.JobID))
		return nil
	case errors.Is(err, domain.ErrJobNotFound):
		return fmt.Errorf("record view for %s: %w", msg.JobID, err)
	default:
		return domain.NewRetryableError(fmt.Errorf("record view for %s: %w", msg.JobID, err))
	}
}
