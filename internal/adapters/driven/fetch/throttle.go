package fetch

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRate is the default probe rate in requests per second.
	DefaultRate = 4.0

	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"
)

// Throttle is a polite request throttle shared by all probes of an
// analysis. It combines a proactive token bucket with reactive backoff
// driven by Retry-After headers.
type Throttle struct {
	mu      sync.Mutex
	holdOff time.Time     // From Retry-After
	bucket  *rate.Limiter // Proactive throttling
}

// NewThrottle creates a throttle admitting perSecond requests.
// Values of zero or below fall back to DefaultRate.
func NewThrottle(perSecond float64) *Throttle {
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	return &Throttle{
		bucket: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Wait blocks until it's safe to make a request.
func (t *Throttle) Wait(ctx context.Context) error {
	if err := t.bucket.Wait(ctx); err != nil {
		return err
	}

	t.mu.Lock()
	holdOff := t.holdOff
	t.mu.Unlock()

	if time.Now().Before(holdOff) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(holdOff)):
		}
	}

	return nil
}

// UpdateFromResponse records backoff state from response headers.
// Only 429 responses adjust the hold-off.
func (t *Throttle) UpdateFromResponse(resp *http.Response) {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return
	}

	retryAfter := resp.Header.Get(HeaderRetryAfter)
	if retryAfter == "" {
		return
	}

	var until time.Time
	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		until = time.Now().Add(time.Duration(seconds) * time.Second)
	} else if parsed, err := http.ParseTime(retryAfter); err == nil {
		until = parsed
	} else {
		return
	}

	t.mu.Lock()
	if until.After(t.holdOff) {
		t.holdOff = until
	}
	t.mu.Unlock()
}

// HoldOff returns the current reactive hold-off deadline.
func (t *Throttle) HoldOff() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.holdOff
}
