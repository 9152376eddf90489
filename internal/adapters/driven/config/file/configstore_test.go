package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("http.user_agent", "carbon14-test"))

	assert.Equal(t, "carbon14-test", store.GetString("http.user_agent"))
}

func TestConfigStore_MissingKeysReturnZeroValues(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, store.GetString("nope"))
	assert.Zero(t, store.GetInt("nope"))
	assert.Zero(t, store.GetFloat("nope"))
	assert.False(t, store.GetBool("nope"))
}

func TestConfigStore_LoadsNestedTOML(t *testing.T) {
	dir := t.TempDir()
	content := `
[http]
timeout_seconds = 10
user_agent = "custom-agent"
rate_per_second = 2.5

[analysis]
max_concurrency = 8

[report]
no_colour = true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 10, store.GetInt("http.timeout_seconds"))
	assert.Equal(t, "custom-agent", store.GetString("http.user_agent"))
	assert.InDelta(t, 2.5, store.GetFloat("http.rate_per_second"), 0.001)
	assert.Equal(t, 8, store.GetInt("analysis.max_concurrency"))
	assert.True(t, store.GetBool("report.no_colour"))
}

func TestConfigStore_GetFloatFromInteger(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[http]\nrate_per_second = 3\n"), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, store.GetFloat("http.rate_per_second"), 0.001)
}

func TestConfigStore_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("report.no_colour", true))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.True(t, reloaded.GetBool("report.no_colour"))
}

func TestConfigStore_MissingFileStartsEmpty(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestFlattenMap(t *testing.T) {
	nested := map[string]any{
		"a": map[string]any{
			"b": int64(1),
			"c": map[string]any{
				"d": "deep",
			},
		},
		"top": true,
	}

	flat := flattenMap(nested, "")

	assert.Equal(t, int64(1), flat["a.b"])
	assert.Equal(t, "deep", flat["a.c.d"])
	assert.Equal(t, true, flat["top"])
}
