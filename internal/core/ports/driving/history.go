package driving

import (
	"context"

	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
)

// HistoryService manages previously stored analyses.
type HistoryService interface {
	// Save persists a completed analysis.
	Save(ctx context.Context, analysis *domain.Analysis) error

	// List returns all stored analyses, newest first, without findings.
	List(ctx context.Context) ([]domain.Analysis, error)

	// Get retrieves a stored analysis by ID or unambiguous ID prefix.
	Get(ctx context.Context, id string) (*domain.Analysis, error)

	// Delete removes a stored analysis by ID or unambiguous ID prefix.
	Delete(ctx context.Context, id string) error
}
