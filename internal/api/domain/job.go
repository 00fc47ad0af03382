package domain

import (
	"errors"
	"fmt"
)

const (
	JobStatusDraft   = "draft"
	JobStatusActive  = "active"
	JobStatusExpired = "expired"
	JobStatusClosed  = "closed"
)

var (
	ErrJobNotFound = errors.New("job not found")

	// ErrStorageUnavailable wraps every failed read against the job store.
	// Callers may retry; the store never does.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrInvalidFilterValue = errors.New("invalid filter value")
)

// InvalidFilterError names the query parameter that failed coercion
type InvalidFilterError struct {
	Param string
	Value string
	Err   error
}

func (e *InvalidFilterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Param, e.Err)
	}
	return fmt.Sprintf("invalid value %q for %s", e.Value, e.Param)
}

func (e *InvalidFilterError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidFilterValue}
	}
	return []error{ErrInvalidFilterValue, e.Err}
}

// NewInvalidFilterError creates an InvalidFilterError
func NewInvalidFilterError(param, value string, err error) error {
	return &InvalidFilterError{Param: param, Value: value, Err: err}
}

// IsValidStatus reports whether status is one of the job lifecycle states
func IsValidStatus(status string) bool {
	switch status {
	case JobStatusDraft, JobStatusActive, JobStatusExpired, JobStatusClosed:
		return true
	}
	return false
}
