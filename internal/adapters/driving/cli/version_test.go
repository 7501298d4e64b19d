package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)

	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "engage version")
}

func TestSetVersion(t *testing.T) {
	old := version
	defer func() { version = old }()

	SetVersion("1.2.3")
	out, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "engage version 1.2.3")
}

func TestSetVersion_EmptyKeepsCurrent(t *testing.T) {
	old := version
	defer func() { version = old }()

	SetVersion("2.0.0")
	SetVersion("")
	assert.Equal(t, "2.0.0", version)
}
