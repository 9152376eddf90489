// Package fetch implements the HTTP side of carbon14: fetching the
// page under analysis and probing referenced resources for their
// Last-Modified headers.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
	"github.com/carbon14-labs/carbon14-cli/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies carbon14 to remote hosts.
	DefaultUserAgent = "carbon14 (+https://github.com/carbon14-labs/carbon14-cli)"

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries.
	RetryDelay = time.Second

	// MaxBodySize caps how much of a page body is read (8 MiB).
	MaxBodySize = 8 << 20
)

// Ensure Client implements both driven ports.
var (
	_ driven.PageFetcher    = (*Client)(nil)
	_ driven.ResourceProber = (*Client)(nil)
)

// Client fetches pages and probes resources over HTTP.
// A single Client is shared by the page fetch and all probes so they
// reuse one connection pool and one throttle.
type Client struct {
	http       *http.Client
	throttle   *Throttle
	userAgent  string
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRate overrides the probe throttle rate in requests per second.
func WithRate(perSecond float64) Option {
	return func(c *Client) {
		c.throttle = NewThrottle(perSecond)
	}
}

// WithHTTPClient replaces the underlying http.Client. Useful for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a fetch client with default timeout and throttle.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{Timeout: DefaultTimeout},
		throttle:   NewThrottle(DefaultRate),
		userAgent:  DefaultUserAgent,
		retryDelay: RetryDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPage performs a GET request, following redirects, and returns
// the page body together with its response headers.
func (c *Client) FetchPage(ctx context.Context, url string) (*domain.Page, error) {
	resp, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	// Redirects may have moved us; later reference resolution must use
	// the final URL, not the requested one.
	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &domain.Page{
		URL:     finalURL,
		HTML:    string(body),
		Headers: resp.Header,
	}, nil
}

// Probe fetches the headers of url and returns its Last-Modified
// timestamp in UTC. HEAD is tried first; hosts that reject HEAD get a
// GET whose body is discarded unread.
func (c *Client) Probe(ctx context.Context, url string) (time.Time, error) {
	resp, err := c.do(ctx, http.MethodHead, url)
	if err == nil && headRejected(resp.StatusCode) {
		resp.Body.Close() //nolint:errcheck
		resp, err = c.do(ctx, http.MethodGet, url)
	}
	if err != nil {
		return time.Time{}, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return time.Time{}, &FetchError{StatusCode: resp.StatusCode, URL: url}
	}

	lastModified := resp.Header.Get("Last-Modified")
	if lastModified == "" {
		return time.Time{}, domain.ErrNoLastModified
	}

	ts, err := http.ParseTime(lastModified)
	if err != nil {
		return time.Time{}, domain.ErrNoLastModified
	}

	return ts.UTC(), nil
}

// headRejected reports whether a status code means the host does not
// serve HEAD for this resource.
func headRejected(status int) bool {
	return status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented
}

// do issues a throttled request, retrying transient failures.
func (c *Client) do(ctx context.Context, method, url string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}

		if err := c.throttle.Wait(ctx); err != nil {
			return nil, fmt.Errorf("throttle wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		c.throttle.UpdateFromResponse(resp)

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			resp.Body.Close() //nolint:errcheck
			lastErr = &RateLimitError{URL: url, RetryAfter: c.throttle.HoldOff()}
			continue
		case resp.StatusCode >= 500:
			resp.Body.Close() //nolint:errcheck
			lastErr = &FetchError{StatusCode: resp.StatusCode, URL: url}
			continue
		default:
			return resp, nil
		}
	}

	var rle *RateLimitError
	if errors.As(lastErr, &rle) {
		return nil, fmt.Errorf("%w: %s", domain.ErrRateLimited, url)
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", MaxRetries+1, lastErr)
}
