package driving

import (
	"context"

	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
)

// AnalyserService dates a single web page.
type AnalyserService interface {
	// Analyse fetches url, dates every image it references and returns
	// the completed analysis with findings sorted by timestamp.
	Analyse(ctx context.Context, url, author string) (*domain.Analysis, error)
}
