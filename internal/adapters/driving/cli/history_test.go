package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
)

func seedHistory(t *testing.T) *domain.Analysis {
	t.Helper()

	analysis := sampleAnalysis()
	require.NoError(t, historyService.Save(context.Background(), analysis))
	return analysis
}

func TestHistoryList_Empty(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{})

	out, err := executeCommand(t, "history", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "No stored analyses.")
}

func TestHistoryList_ShowsStoredAnalyses(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{})
	analysis := seedHistory(t)

	out, err := executeCommand(t, "history", "list")
	require.NoError(t, err)

	assert.Contains(t, out, shortID(analysis.ID))
	assert.Contains(t, out, "2023-06-01 12:00")
	assert.Contains(t, out, "1 images")
	assert.Contains(t, out, "<https://example.com/post>")
}

func TestHistoryShow_RendersReport(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{})
	analysis := seedHistory(t)

	out, err := executeCommand(t, "history", "show", shortID(analysis.ID))
	require.NoError(t, err)

	assert.Contains(t, out, "title: Carbon14 web page analysis")
	assert.Contains(t, out, "<https://example.com/a.png>")
}

func TestHistoryShow_UnknownID(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{})

	_, err := executeCommand(t, "history", "show", "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryDelete_RemovesAnalysis(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{})
	analysis := seedHistory(t)

	out, err := executeCommand(t, "history", "delete", shortID(analysis.ID))
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted analysis")

	_, err = historyService.Get(context.Background(), analysis.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryDelete_UnknownID(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{})

	_, err := executeCommand(t, "history", "delete", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abcdef12", shortID("abcdef12-3456"))
	assert.Equal(t, "short", shortID("short"))
}
