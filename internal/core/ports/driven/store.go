package driven

import (
	"context"

	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
)

// AnalysisStore persists completed analyses for later review.
type AnalysisStore interface {
	// Save stores an analysis and its findings.
	Save(ctx context.Context, analysis *domain.Analysis) error

	// Get retrieves an analysis by ID. The id may be an unambiguous
	// prefix; domain.ErrAmbiguousID is returned when it matches more
	// than one analysis, domain.ErrNotFound when it matches none.
	Get(ctx context.Context, id string) (*domain.Analysis, error)

	// List returns all stored analyses, newest first, without findings.
	List(ctx context.Context) ([]domain.Analysis, error)

	// Delete removes an analysis and its findings. Accepts the same
	// prefix semantics as Get.
	Delete(ctx context.Context, id string) error
}
