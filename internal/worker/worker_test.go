package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cuongbtq/jobboard-be/internal/worker/domain"
	"github.com/cuongbtq/jobboard-be/shared/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	knownJob   = "0b7f6f0e-5d4e-4c1a-8a4e-1f2b3c4d5e6f"
	missingJob = "9a8b7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d"
	flakyJob   = "5c4b3a29-1807-4f6e-8d5c-4b3a29180700"
)

type settlement struct {
	acked   bool
	requeue bool
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	settled map[uint64]settlement
}

func newFakeAcknowledger() *fakeAcknowledger {
	return &fakeAcknowledger{settled: map[uint64]settlement{}}
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settled[tag] = settlement{acked: true}
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.settled[tag] = settlement{requeue: requeue}
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type fakeBroker struct {
	deliveries chan amqp.Delivery
	qosErr     error
	prefetch   int
	tag        string
}

func (b *fakeBroker) Qos(prefetchCount int) error {
	b.prefetch = prefetchCount
	return b.qosErr
}

func (b *fakeBroker) Consume(consumerTag string) (<-chan amqp.Delivery, error) {
	b.tag = consumerTag
	return b.deliveries, nil
}

type fakeViewStore struct {
	mu    sync.Mutex
	views map[string]int
}

func (s *fakeViewStore) IncrementViews(ctx context.Context, jobID string) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("missing deadline")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch jobID {
	case missingJob:
		return domain.ErrJobNotFound
	case flakyJob:
		return errors.New("connection reset by peer")
	}
	s.views[jobID]++
	return nil
}

func newTestWorker(broker Broker, store ViewStore) *Worker {
	return NewWorker(&Config{
		Logger:        logger.NewDiscard().Logger,
		Broker:        broker,
		Storage:       store,
		WorkerID:      "worker-test",
		QueueName:     "job_views",
		Concurrency:   3,
		PrefetchCount: 10,
		JobTimeout:    time.Second,
	})
}

func delivery(ack amqp.Acknowledger, tag uint64, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: tag, Body: []byte(body)}
}

func TestWorker_SettlesEveryDelivery(t *testing.T) {
	ack := newFakeAcknowledger()
	broker := &fakeBroker{deliveries: make(chan amqp.Delivery, 8)}
	store := &fakeViewStore{views: map[string]int{}}
	w := newTestWorker(broker, store)

	broker.deliveries <- delivery(ack, 1, fmt.Sprintf(`{"job_id":%q}`, knownJob))
	broker.deliveries <- delivery(ack, 2, fmt.Sprintf(`{"job_id":%q}`, knownJob))
	broker.deliveries <- delivery(ack, 3, fmt.Sprintf(`{"job_id":%q}`, missingJob))
	broker.deliveries <- delivery(ack, 4, fmt.Sprintf(`{"job_id":%q}`, flakyJob))
	broker.deliveries <- delivery(ack, 5, `{not json`)
	broker.deliveries <- delivery(ack, 6, `{"job_id":"42"}`)
	close(broker.deliveries)

	err := w.Start(context.Background())
	assert.ErrorIs(t, err, ErrDeliveriesClosed)
	w.Wait()

	assert.Equal(t, 10, broker.prefetch)
	assert.Equal(t, "worker-test", broker.tag)
	assert.Equal(t, 2, store.views[knownJob])

	assert.Equal(t, map[uint64]settlement{
		1: {acked: true},
		2: {acked: true},
		3: {requeue: false},
		4: {requeue: true},
		5: {requeue: false},
		6: {requeue: false},
	}, ack.settled)
}

func TestWorker_StopsOnCancel(t *testing.T) {
	broker := &fakeBroker{deliveries: make(chan amqp.Delivery)}
	w := newTestWorker(broker, &fakeViewStore{views: map[string]int{}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop")
	}
	w.Wait()
}

func TestWorker_QosError(t *testing.T) {
	broker := &fakeBroker{qosErr: errors.New("channel closed")}
	w := newTestWorker(broker, &fakeViewStore{})

	err := w.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set QoS")
}

func TestDecodeViewMessage(t *testing.T) {
	msg, err := decodeViewMessage(amqp.Delivery{Body: []byte(`{"job_id":"0B7F6F0E-5D4E-4C1A-8A4E-1F2B3C4D5E6F"}`)})
	require.NoError(t, err)
	assert.Equal(t, knownJob, msg.JobID)

	_, err = decodeViewMessage(amqp.Delivery{Body: []byte(`{}`)})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestShouldRequeue(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"job not found", fmt.Errorf("wrap: %w", domain.ErrJobNotFound), false},
		{"invalid payload", domain.ErrInvalidPayload, false},
		{"retryable", domain.NewRetryableError(errors.New("timeout")), true},
		{"retryable wrapping not found", domain.NewRetryableError(domain.ErrJobNotFound), false},
		{"unknown", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldRequeue(tt.err))
		})
	}
}
