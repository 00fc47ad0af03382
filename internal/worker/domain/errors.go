package domain

import "errors"

var (
	// ErrJobNotFound is returned when a view refers to a job that no longer exists
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidPayload is returned when a message body is not a valid view event
	ErrInvalidPayload = errors.New("invalid message payload")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
