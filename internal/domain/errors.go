package domain

import "errors"

var (
	// ErrNotFound signals a missing entity id. Not retryable.
	ErrNotFound = errors.New("not found")
	// ErrMissingPrice signals settlement without any observed price.
	// Retryable once a quote becomes available.
	ErrMissingPrice = errors.New("no price available")
	// ErrNotActive signals a state-changing operation on a prediction
	// that already left the active state.
	ErrNotActive = errors.New("prediction is not active")
	// ErrConcurrencyConflict signals lost lock or claim contention.
	// Retryable with backoff.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
	// ErrAlreadyExists signals a uniqueness violation, such as following
	// the same target twice.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals a request the caller must correct, such as
	// an unknown hold period or a self-follow.
	ErrInvalidInput = errors.New("invalid input")
)

// IsRetryable reports whether the caller may retry the failed operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrMissingPrice) || errors.Is(err, ErrConcurrencyConflict)
}
