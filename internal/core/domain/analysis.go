package domain

import (
	"net/url"
	"sort"
	"time"
)

// Page is a fetched web page before any dating work has been done.
type Page struct {
	// URL is the address the page was fetched from.
	URL string

	// HTML is the raw response body.
	HTML string

	// Headers are the response headers of the page itself.
	Headers map[string][]string

	// Title is the text of the first <title> element, if any.
	Title string
}

// ImageFinding is a single dated image reference discovered on a page.
type ImageFinding struct {
	// URL is the absolute address of the image.
	URL string `json:"url"`

	// LastModified is the Last-Modified header of the image, in UTC.
	LastModified time.Time `json:"last_modified"`

	// Internal is true when the image is hosted on the page's own host.
	Internal bool `json:"internal"`
}

// Analysis is the complete result of dating a single page.
type Analysis struct {
	// ID is the unique identifier of this analysis.
	ID string `json:"id"`

	// URL is the page address that was analysed.
	URL string `json:"url"`

	// Author is an optional name to include in the report preamble.
	Author string `json:"author,omitempty"`

	// Title is the page title, empty when the page has none.
	Title string `json:"title,omitempty"`

	// Headers are the page's own response headers.
	Headers map[string][]string `json:"headers"`

	// StartedAt is when the page fetch began, in UTC.
	StartedAt time.Time `json:"started_at"`

	// EndedAt is when the page fetch completed, in UTC.
	EndedAt time.Time `json:"ended_at"`

	// Findings are the dated image references, sorted by timestamp.
	Findings []ImageFinding `json:"findings"`

	// FindingCount is the number of findings. Stores populate it on
	// List, where Findings themselves are omitted.
	FindingCount int `json:"finding_count"`

	// CreatedAt is when the analysis was stored.
	CreatedAt time.Time `json:"created_at"`
}

// SortFindings orders findings by Last-Modified ascending, breaking
// ties by URL so the order is stable across runs.
func (a *Analysis) SortFindings() {
	sort.SliceStable(a.Findings, func(i, j int) bool {
		if a.Findings[i].LastModified.Equal(a.Findings[j].LastModified) {
			return a.Findings[i].URL < a.Findings[j].URL
		}
		return a.Findings[i].LastModified.Before(a.Findings[j].LastModified)
	})
}

// Internal returns the findings hosted on the page's own host.
func (a *Analysis) Internal() []ImageFinding {
	return a.filter(func(f ImageFinding) bool { return f.Internal })
}

// External returns the findings hosted elsewhere.
func (a *Analysis) External() []ImageFinding {
	return a.filter(func(f ImageFinding) bool { return !f.Internal })
}

func (a *Analysis) filter(keep func(ImageFinding) bool) []ImageFinding {
	var out []ImageFinding
	for _, f := range a.Findings {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// SameHost reports whether two absolute URLs share a host. Used to
// classify findings as internal or external.
func SameHost(base, other string) bool {
	bu, err := url.Parse(base)
	if err != nil {
		return false
	}
	ou, err := url.Parse(other)
	if err != nil {
		return false
	}
	return bu.Host != "" && bu.Host == ou.Host
}

// ResolveRef resolves a reference found in a page against the page URL.
// Returns the absolute URL, or an error when either part is unparseable.
func ResolveRef(base, ref string) (string, error) {
	bu, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ru, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return bu.ResolveReference(ru).String(), nil
}
