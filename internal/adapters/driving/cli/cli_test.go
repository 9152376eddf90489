package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/carbon14-labs/carbon14-cli/internal/adapters/driven/storage/memory"
	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
	"github.com/carbon14-labs/carbon14-cli/internal/core/services"
)

type fakeAnalyser struct {
	analysis *domain.Analysis
	err      error
	lastURL  string
	lastAuth string
}

func (f *fakeAnalyser) Analyse(_ context.Context, url, author string) (*domain.Analysis, error) {
	f.lastURL = url
	f.lastAuth = author
	if f.err != nil {
		return nil, f.err
	}
	a := *f.analysis
	a.Author = author
	return &a, nil
}

type fakeConfigStore struct {
	values map[string]any
}

func (f *fakeConfigStore) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *fakeConfigStore) GetString(key string) string {
	if v, ok := f.values[key].(string); ok {
		return v
	}
	return ""
}

func (f *fakeConfigStore) GetInt(key string) int {
	if v, ok := f.values[key].(int); ok {
		return v
	}
	return 0
}

func (f *fakeConfigStore) GetFloat(key string) float64 {
	if v, ok := f.values[key].(float64); ok {
		return v
	}
	return 0
}

func (f *fakeConfigStore) GetBool(key string) bool {
	if v, ok := f.values[key].(bool); ok {
		return v
	}
	return false
}

func (f *fakeConfigStore) Set(key string, value any) error {
	if f.values == nil {
		f.values = map[string]any{}
	}
	f.values[key] = value
	return nil
}

func (f *fakeConfigStore) Path() string { return "" }

func sampleAnalysis() *domain.Analysis {
	return &domain.Analysis{
		ID:    "abcdef12-3456-7890-abcd-ef1234567890",
		URL:   "https://example.com/post",
		Title: "A post",
		Headers: map[string][]string{
			"Content-Type": {"text/html"},
		},
		StartedAt: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC),
		EndedAt:   time.Date(2023, 6, 1, 12, 0, 2, 0, time.UTC),
		CreatedAt: time.Date(2023, 6, 1, 12, 0, 2, 0, time.UTC),
		Findings: []domain.ImageFinding{
			{
				URL:          "https://example.com/a.png",
				LastModified: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
				Internal:     true,
			},
		},
	}
}

// setupTestServices injects fakes into the package wiring and restores
// the lazy production wiring when the test ends.
func setupTestServices(t *testing.T, analyser *fakeAnalyser) {
	t.Helper()

	analyserService = analyser
	historyService = services.NewHistoryService(memory.NewAnalysisStore())
	configStore = &fakeConfigStore{}

	t.Cleanup(func() {
		analyserService = nil
		historyService = nil
		configStore = nil
	})
}

// executeCommand runs the root command with args and captures its output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		resetFlags()
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags clears flag state that cobra keeps between Execute calls.
func resetFlags() {
	verboseFlag = false
	analyseAuthor = ""
	analyseJSON = false
	analyseNoSave = false
	analyseNoColour = false
}
