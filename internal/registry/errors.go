package registry

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when the registry reports 404 for a resource.
// This is an expected condition during network crawling: dissolved
// companies and corporate officers routinely have no appointment
// records, so callers log it at debug level rather than surfacing it.
var ErrNotFound = errors.New("registry: resource not found")

// ThrottledError reports a 429 response from the registry.
// The client retries throttled requests internally after honoring the
// Retry-After delay, so callers normally never observe this error; it
// escapes only when the context is cancelled during the wait.
type ThrottledError struct {
	// RetryAfter is the server-indicated delay before retrying.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *ThrottledError) Error() string {
	return fmt.Sprintf("registry: throttled, retry after %s", e.RetryAfter)
}

// TransientError reports a request that failed after retry exhaustion
// with a retryable cause (network error or 5xx response).
type TransientError struct {
	// StatusCode is the last HTTP status observed, or 0 for network errors.
	StatusCode int

	// Attempts is the number of attempts made before giving up.
	Attempts int

	// Err is the last underlying error.
	Err error
}

// Error implements the error interface.
func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("registry: request failed after %d attempts (status %d): %v",
			e.Attempts, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("registry: request failed after %d attempts: %v", e.Attempts, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err represents a missing registry resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
