package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobboard-be/internal/worker/domain"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// setupConsumer sets QoS and starts consuming with manual acknowledgement
func (w *Worker) setupConsumer() (<-chan amqp.Delivery, error) {
	if w.prefetchCount > 0 {
		if err := w.broker.Qos(w.prefetchCount); err != nil {
			return nil, fmt.Errorf("failed to set QoS: %w", err)
		}
		w.logger.Info("RabbitMQ QoS configured",
			slog.Int("prefetch_count", w.prefetchCount),
		)
	}

	deliveries, err := w.broker.Consume(w.workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	w.logger.Info("RabbitMQ consumer started",
		slog.String("consumer_tag", w.workerID),
		slog.String("queue", w.queueName),
	)

	return deliveries, nil
}

// startMessageDispatcher decodes deliveries and hands them to the pool
func (w *Worker) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Message dispatcher stopped - context canceled")
			return nil

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return ErrDeliveriesClosed
			}

			msg, err := decodeViewMessage(delivery)
			if err != nil {
				w.logger.Error("Dropping malformed message",
					slog.Any("error", err),
					slog.String("body", string(delivery.Body)),
				)
				// malformed messages never become valid; do not requeue
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					w.logger.Error("Failed to NACK malformed message", slog.Any("error", nackErr))
				}
				continue
			}

			select {
			case w.jobsChan <- msg:
				w.logger.Debug("View dispatched to worker pool",
					slog.String("job_id", msg.JobID),
					slog.Uint64("delivery_tag", delivery.DeliveryTag),
				)
			case <-ctx.Done():
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					w.logger.Error("Failed to NACK message on shutdown", slog.Any("error", nackErr))
				}
				return nil
			}
		}
	}
}

func decodeViewMessage(delivery amqp.Delivery) (*domain.ViewMessage, error) {
	var msg domain.ViewMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}

	id, err := uuid.Parse(msg.JobID)
	if err != nil {
		return nil, fmt.Errorf("%w: job_id %q: %v", domain.ErrInvalidPayload, msg.JobID, err)
	}

	msg.JobID = id.String()
	msg.Delivery = delivery
	return &msg, nil
}
