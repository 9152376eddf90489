package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
	"github.com/carbon14-labs/carbon14-cli/internal/core/ports/driven"
	"github.com/carbon14-labs/carbon14-cli/internal/core/ports/driving"
	"github.com/carbon14-labs/carbon14-cli/internal/logger"
)

// DefaultMaxConcurrency bounds how many images are probed at once.
const DefaultMaxConcurrency = 4

// Ensure AnalyserService implements the interface.
var _ driving.AnalyserService = (*AnalyserService)(nil)

// AnalyserService orchestrates the dating of a single page: fetch,
// extract references, probe each one, classify and sort.
type AnalyserService struct {
	fetcher        driven.PageFetcher
	extractor      driven.RefExtractor
	prober         driven.ResourceProber
	maxConcurrency int
}

// NewAnalyserService creates a new analyser service.
func NewAnalyserService(
	fetcher driven.PageFetcher,
	extractor driven.RefExtractor,
	prober driven.ResourceProber,
) *AnalyserService {
	return &AnalyserService{
		fetcher:        fetcher,
		extractor:      extractor,
		prober:         prober,
		maxConcurrency: DefaultMaxConcurrency,
	}
}

// SetMaxConcurrency overrides the probe concurrency bound.
// Values below one are ignored.
func (s *AnalyserService) SetMaxConcurrency(n int) {
	if n >= 1 {
		s.maxConcurrency = n
	}
}

// Analyse fetches url and dates every image it references.
func (s *AnalyserService) Analyse(ctx context.Context, url, author string) (*domain.Analysis, error) {
	if s.fetcher == nil || s.extractor == nil || s.prober == nil {
		return nil, domain.ErrNotImplemented
	}
	if strings.TrimSpace(url) == "" {
		return nil, domain.ErrInvalidInput
	}

	logger.Debug("fetching page %s", url)
	start := time.Now().UTC()
	page, err := s.fetcher.FetchPage(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	end := time.Now().UTC()

	refs := s.extractor.Extract(page.HTML)
	logger.Debug("extracted %d img refs, %d og:image refs",
		len(refs.ImageRefs), len(refs.OpenGraphRefs))

	analysis := &domain.Analysis{
		ID:        uuid.New().String(),
		URL:       page.URL,
		Author:    author,
		Title:     refs.Title,
		Headers:   page.Headers,
		StartedAt: start,
		EndedAt:   end,
		Findings:  s.probeAll(ctx, page.URL, refs),
	}
	analysis.SortFindings()

	return analysis, nil
}

// probeAll resolves and dates every unique reference on the page.
// Probe failures skip the reference; they never fail the analysis.
func (s *AnalyserService) probeAll(ctx context.Context, pageURL string, refs driven.PageRefs) []domain.ImageFinding {
	targets := collectTargets(pageURL, refs)

	var (
		mu       sync.Mutex
		findings []domain.ImageFinding
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for _, target := range targets {
		target := target
		g.Go(func() error {
			logger.Debug("working on image %s", target)
			ts, err := s.prober.Probe(gctx, target)
			if err != nil {
				if !errors.Is(err, domain.ErrNoLastModified) {
					logger.Warn("probing %s: %v", target, err)
				}
				return nil
			}

			mu.Lock()
			findings = append(findings, domain.ImageFinding{
				URL:          target,
				LastModified: ts,
				Internal:     domain.SameHost(pageURL, target),
			})
			mu.Unlock()
			return nil
		})
	}

	// Workers swallow their own errors, so this only reflects ctx.
	_ = g.Wait() //nolint:errcheck

	return findings
}

// collectTargets deduplicates raw references and resolves them against
// the page URL. img refs come before og:image refs, matching the order
// the page presents them.
func collectTargets(pageURL string, refs driven.PageRefs) []string {
	seen := make(map[string]struct{})
	var targets []string

	add := func(ref string) {
		if ref == "" || strings.HasPrefix(ref, "data:") {
			return
		}
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}

		absolute, err := domain.ResolveRef(pageURL, ref)
		if err != nil {
			logger.Warn("unresolvable reference %q: %v", ref, err)
			return
		}
		targets = append(targets, absolute)
	}

	for _, ref := range refs.ImageRefs {
		add(ref)
	}
	for _, ref := range refs.OpenGraphRefs {
		add(ref)
	}

	return targets
}
