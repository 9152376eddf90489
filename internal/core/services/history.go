package services

import (
	"context"
	"time"

	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
	"github.com/carbon14-labs/carbon14-cli/internal/core/ports/driven"
	"github.com/carbon14-labs/carbon14-cli/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService manages stored analyses.
type HistoryService struct {
	store driven.AnalysisStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.AnalysisStore) *HistoryService {
	return &HistoryService{store: store}
}

// Save persists a completed analysis.
func (s *HistoryService) Save(ctx context.Context, analysis *domain.Analysis) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if analysis == nil || analysis.ID == "" {
		return domain.ErrInvalidInput
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = time.Now().UTC()
	}
	return s.store.Save(ctx, analysis)
}

// List returns all stored analyses, newest first.
func (s *HistoryService) List(ctx context.Context) ([]domain.Analysis, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.List(ctx)
}

// Get retrieves a stored analysis by ID or unambiguous ID prefix.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.Analysis, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	return s.store.Get(ctx, id)
}

// Delete removes a stored analysis by ID or unambiguous ID prefix.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return domain.ErrNotImplemented
	}
	if id == "" {
		return domain.ErrInvalidInput
	}
	return s.store.Delete(ctx, id)
}
