package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{})

	out, err := executeCommand(t, "version")
	require.NoError(t, err)

	assert.Contains(t, out, "carbon14 version dev")
}

func TestSetVersion(t *testing.T) {
	setupTestServices(t, &fakeAnalyser{})
	t.Cleanup(func() { version = "dev" })

	SetVersion("1.2.3")
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "carbon14 version 1.2.3")

	SetVersion("")
	assert.Equal(t, "1.2.3", version)
}
