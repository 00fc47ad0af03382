package domain

import amqp "github.com/rabbitmq/amqp091-go"

// ViewMessage is a job.viewed event taken off the queue. The delivery is
// kept so the pool can settle it once processing finishes.
type ViewMessage struct {
	JobID    string        `json:"job_id"`
	Delivery amqp.Delivery `json:"-"`
}
