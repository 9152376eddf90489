package fetch

import (
	"fmt"
	"time"
)

// FetchError is returned when a request completes with a non-success
// status code.
type FetchError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// URL is the request URL.
	URL string
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

// RateLimitError is returned when a host answers 429.
type RateLimitError struct {
	// URL is the request URL.
	URL string

	// RetryAfter is when the host suggested retrying, zero when the
	// response carried no Retry-After header.
	RetryAfter time.Time
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter.IsZero() {
		return fmt.Sprintf("rate limited by %s", e.URL)
	}
	return fmt.Sprintf("rate limited by %s until %s", e.URL, e.RetryAfter.Format(time.RFC3339))
}
