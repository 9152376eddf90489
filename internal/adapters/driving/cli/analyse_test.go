package cli

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
)

func TestAnalyseCommand_RendersReport(t *testing.T) {
	analyser := &fakeAnalyser{analysis: sampleAnalysis()}
	setupTestServices(t, analyser)

	out, err := executeCommand(t, "analyse", "https://example.com/post")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/post", analyser.lastURL)
	assert.Contains(t, out, "title: Carbon14 web page analysis")
	assert.Contains(t, out, "## General information")
	assert.Contains(t, out, "<https://example.com/a.png>")
}

func TestAnalyseCommand_AuthorFlag(t *testing.T) {
	analyser := &fakeAnalyser{analysis: sampleAnalysis()}
	setupTestServices(t, analyser)

	out, err := executeCommand(t, "analyse", "--author", "Jo", "https://example.com/post")
	require.NoError(t, err)

	assert.Equal(t, "Jo", analyser.lastAuth)
	assert.Contains(t, out, "author: Jo")
}

func TestAnalyseCommand_JSONOutput(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{analysis: sampleAnalysis()})

	out, err := executeCommand(t, "analyse", "--json", "https://example.com/post")
	require.NoError(t, err)

	var decoded domain.Analysis
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "https://example.com/post", decoded.URL)
	require.Len(t, decoded.Findings, 1)
	assert.True(t, decoded.Findings[0].Internal)
}

func TestAnalyseCommand_SavesToHistory(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{analysis: sampleAnalysis()})

	_, err := executeCommand(t, "analyse", "https://example.com/post")
	require.NoError(t, err)

	got, err := historyService.Get(context.Background(), sampleAnalysis().ID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/post", got.URL)
}

func TestAnalyseCommand_NoSaveSkipsHistory(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{analysis: sampleAnalysis()})

	_, err := executeCommand(t, "analyse", "--no-save", "https://example.com/post")
	require.NoError(t, err)

	_, err = historyService.Get(context.Background(), sampleAnalysis().ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalyseCommand_AnalysisError(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{err: errors.New("connection refused")})

	_, err := executeCommand(t, "analyse", "https://example.com/post")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis failed")
}

func TestAnalyseCommand_RequiresURL(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{analysis: sampleAnalysis()})

	_, err := executeCommand(t, "analyse")
	assert.Error(t, err)
}

func TestAnalyseCommand_AnalyzeAlias(t *testing.T) {
	analyser := &fakeAnalyser{analysis: sampleAnalysis()}
	setupTestServices(t, analyser)

	_, err := executeCommand(t, "analyze", "https://example.com/post")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/post", analyser.lastURL)
}
