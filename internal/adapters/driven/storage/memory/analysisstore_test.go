package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
)

func storedAnalysis(id string, created time.Time) *domain.Analysis {
	return &domain.Analysis{
		ID:        id,
		URL:       "https://example.com/",
		CreatedAt: created,
		Findings: []domain.ImageFinding{
			{URL: "https://example.com/a.png", LastModified: created, Internal: true},
		},
	}
}

func TestAnalysisStore_SaveAndGet(t *testing.T) {
	store := NewAnalysisStore()
	ctx := context.Background()

	created := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, storedAnalysis("abc-123", created)))

	got, err := store.Get(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", got.URL)
	assert.Equal(t, 1, got.FindingCount)
}

func TestAnalysisStore_PrefixLookup(t *testing.T) {
	store := NewAnalysisStore()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Save(ctx, storedAnalysis("abc-123", now)))
	require.NoError(t, store.Save(ctx, storedAnalysis("abd-456", now)))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", got.ID)

	_, err = store.Get(ctx, "ab")
	assert.ErrorIs(t, err, domain.ErrAmbiguousID)

	_, err = store.Get(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalysisStore_ListNewestFirstWithoutFindings(t *testing.T) {
	store := NewAnalysisStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, storedAnalysis("old", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, store.Save(ctx, storedAnalysis("new", time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC))))

	analyses, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, analyses, 2)
	assert.Equal(t, "new", analyses[0].ID)
	assert.Nil(t, analyses[0].Findings)
	assert.Equal(t, 1, analyses[0].FindingCount)
}

func TestAnalysisStore_Delete(t *testing.T) {
	store := NewAnalysisStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, storedAnalysis("abc-123", time.Now().UTC())))
	require.NoError(t, store.Delete(ctx, "abc"))

	_, err := store.Get(ctx, "abc-123")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalysisStore_SaveInvalid(t *testing.T) {
	store := NewAnalysisStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(ctx, &domain.Analysis{}), domain.ErrInvalidInput)
}

func TestAnalysisStore_SaveCopiesValue(t *testing.T) {
	store := NewAnalysisStore()
	ctx := context.Background()

	analysis := storedAnalysis("abc-123", time.Now().UTC())
	require.NoError(t, store.Save(ctx, analysis))

	// Mutating the original must not affect the stored copy.
	analysis.URL = "https://changed.example/"

	got, err := store.Get(ctx, "abc-123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", got.URL)
}
