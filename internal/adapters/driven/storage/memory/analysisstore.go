// Package memory provides in-memory store implementations used by
// unit tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
	"github.com/carbon14-labs/carbon14-cli/internal/core/ports/driven"
)

// Ensure AnalysisStore implements the interface.
var _ driven.AnalysisStore = (*AnalysisStore)(nil)

// AnalysisStore is an in-memory implementation of driven.AnalysisStore.
type AnalysisStore struct {
	mu       sync.RWMutex
	analyses map[string]domain.Analysis
}

// NewAnalysisStore creates a new in-memory analysis store.
func NewAnalysisStore() *AnalysisStore {
	return &AnalysisStore{
		analyses: make(map[string]domain.Analysis),
	}
}

// Save stores an analysis and its findings.
func (s *AnalysisStore) Save(_ context.Context, analysis *domain.Analysis) error {
	if analysis == nil || analysis.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[analysis.ID] = *analysis
	return nil
}

// Get retrieves an analysis by ID or unambiguous ID prefix.
func (s *AnalysisStore) Get(_ context.Context, id string) (*domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fullID, err := s.resolveID(id)
	if err != nil {
		return nil, err
	}

	analysis := s.analyses[fullID]
	analysis.FindingCount = len(analysis.Findings)
	return &analysis, nil
}

// List returns all stored analyses, newest first, without findings.
func (s *AnalysisStore) List(_ context.Context) ([]domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analyses := make([]domain.Analysis, 0, len(s.analyses))
	for _, a := range s.analyses {
		a.FindingCount = len(a.Findings)
		a.Findings = nil
		analyses = append(analyses, a)
	}

	sort.Slice(analyses, func(i, j int) bool {
		if analyses[i].CreatedAt.Equal(analyses[j].CreatedAt) {
			return analyses[i].ID < analyses[j].ID
		}
		return analyses[i].CreatedAt.After(analyses[j].CreatedAt)
	})

	return analyses, nil
}

// Delete removes an analysis by ID or unambiguous ID prefix.
func (s *AnalysisStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fullID, err := s.resolveID(id)
	if err != nil {
		return err
	}

	delete(s.analyses, fullID)
	return nil
}

// resolveID expands an ID prefix to the single matching full ID.
// Caller must hold the lock.
func (s *AnalysisStore) resolveID(id string) (string, error) {
	if id == "" {
		return "", domain.ErrInvalidInput
	}

	var matches []string
	for fullID := range s.analyses {
		if strings.HasPrefix(fullID, id) {
			matches = append(matches, fullID)
		}
	}

	switch len(matches) {
	case 0:
		return "", domain.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return "", domain.ErrAmbiguousID
	}
}
