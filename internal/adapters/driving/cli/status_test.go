package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivics/engage/internal/core/ports/driving"
)

func TestStatusCommand(t *testing.T) {
	assert.Equal(t, "status", statusCmd.Use)
	assert.NotEmpty(t, statusCmd.Short)
}

func TestRunStatus(t *testing.T) {
	status := &mockStatusService{status: &driving.Status{
		Meetings:       12,
		ActiveMeetings: 10,
		Legislations:   40,
		Documents:      55,
		Extractions:    30,
		Summaries:      22,
		LLMConfigured:  true,
		LLMModel:       "llama3.2",
		Customer:       "seattle",
	}}
	restore := setupServices(&Services{Status: status})
	defer restore()

	out, err := executeCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Engage Status")
	assert.Contains(t, out, "Meetings:     12 (10 active)")
	assert.Contains(t, out, "Legislation:  40")
	assert.Contains(t, out, "Documents:    55")
	assert.Contains(t, out, "Extractions:  30")
	assert.Contains(t, out, "Summaries:    22")
	assert.Contains(t, out, "Customer:     seattle")
	assert.Contains(t, out, "LLM:          configured (llama3.2)")
	assert.NotContains(t, out, "set-llm")
}

func TestRunStatus_LLMNotConfigured(t *testing.T) {
	status := &mockStatusService{status: &driving.Status{Customer: "seattle"}}
	restore := setupServices(&Services{Status: status})
	defer restore()

	out, err := executeCommand(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "LLM:          not configured")
	assert.Contains(t, out, "Run 'engage settings set-llm' before summarizing.")
}

func TestRunStatus_ServiceError(t *testing.T) {
	status := &mockStatusService{err: assert.AnError}
	restore := setupServices(&Services{Status: status})
	defer restore()

	_, err := executeCommand(t, "status")
	require.Error(t, err)
}

func TestRunStatus_NotConfigured(t *testing.T) {
	restore := setupServices(&Services{})
	defer restore()

	_, err := executeCommand(t, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status service not configured")
}
