package driven

import (
	"context"
	"time"

	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
)

// PageFetcher retrieves a web page for analysis.
type PageFetcher interface {
	// FetchPage performs a GET request, following redirects, and
	// returns the page body together with its response headers.
	FetchPage(ctx context.Context, url string) (*domain.Page, error)
}

// ResourceProber dates a single resource referenced by a page.
type ResourceProber interface {
	// Probe fetches the headers of url and returns its Last-Modified
	// timestamp in UTC. Returns domain.ErrNoLastModified when the
	// resource carries no parseable Last-Modified header.
	Probe(ctx context.Context, url string) (time.Time, error)
}
