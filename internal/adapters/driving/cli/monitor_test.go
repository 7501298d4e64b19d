package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitorCommand(t *testing.T) {
	assert.Equal(t, "monitor", monitorCmd.Use)
	assert.NotEmpty(t, monitorCmd.Short)
}

func TestRunMonitor_NotConfigured(t *testing.T) {
	restore := setupServices(&Services{})
	defer restore()

	err := runMonitor(monitorCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline service is required")
}
