package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivics/engage/internal/core/domain"
)

func TestSettingsCommands(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
	assert.Equal(t, "show", settingsShowCmd.Use)
	assert.Equal(t, "set-customer [slug]", settingsSetCustomerCmd.Use)
	assert.Equal(t, "set-llm", settingsSetLLMCmd.Use)
	assert.Equal(t, "set-key", settingsSetKeyCmd.Use)
	assert.Equal(t, "set-pipeline [name]", settingsSetPipelineCmd.Use)
}

func TestRunSettingsShow_Defaults(t *testing.T) {
	defaults := domain.DefaultAppSettings()
	settings := &mockSettingsService{settings: &defaults}
	restore := setupServices(&Services{Settings: settings})
	defer restore()

	out, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "Customer: seattle")
	assert.Contains(t, out, "Requests per second: 4.0")
	assert.Contains(t, out, "Status: not configured")
	assert.Contains(t, out, "Provider: Local filesystem")
	assert.Contains(t, out, "Config: concise")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestRunSettingsShow_CloudProvider(t *testing.T) {
	settings := &mockSettingsService{settings: &domain.AppSettings{
		Legistar: domain.LegistarSettings{Customer: "oakland", RequestsPerSecond: 2},
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderOpenAI,
			Model:    "gpt-4o",
			APIKey:   "sk-proj-1234567890",
		},
		Blob: domain.BlobSettings{
			Provider:        domain.BlobProviderGCS,
			Bucket:          "engage-blobs",
			CredentialsFile: "/etc/engage/sa.json",
		},
		PipelineConfigName: "concise",
	}}
	restore := setupServices(&Services{Settings: settings})
	defer restore()

	out, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Provider: OpenAI (cloud)")
	assert.Contains(t, out, "Model: gpt-4o")
	assert.Contains(t, out, "API Key: sk-p...7890")
	assert.NotContains(t, out, "sk-proj-1234567890")
	assert.Contains(t, out, "Status: configured")
	assert.Contains(t, out, "Bucket: engage-blobs")
	assert.Contains(t, out, "Credentials: /etc/engage/sa.json")
}

func TestRunSettingsShow_LocalProviderShowsBaseURL(t *testing.T) {
	settings := &mockSettingsService{settings: &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			Model:    "llama3.2",
			BaseURL:  "http://localhost:11434",
		},
	}}
	restore := setupServices(&Services{Settings: settings})
	defer restore()

	out, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Base URL: http://localhost:11434")
	assert.NotContains(t, out, "API Key:")
}

func TestRunSettingsShow_ValidationWarning(t *testing.T) {
	defaults := domain.DefaultAppSettings()
	settings := &mockSettingsService{settings: &defaults, validateErr: assert.AnError}
	restore := setupServices(&Services{Settings: settings})
	defer restore()

	out, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
	assert.NotContains(t, out, "Configuration is valid.")
}

func TestRunSettingsSetCustomer(t *testing.T) {
	settings := &mockSettingsService{}
	restore := setupServices(&Services{Settings: settings})
	defer restore()

	out, err := executeCommand(t, "settings", "set-customer", "oakland")
	require.NoError(t, err)
	assert.Contains(t, out, "Customer set to: oakland")
	assert.Equal(t, "oakland", settings.gotCustomer)
}

func TestRunSettingsSetCustomer_Error(t *testing.T) {
	settings := &mockSettingsService{err: domain.ErrInvalidInput}
	restore := setupServices(&Services{Settings: settings})
	defer restore()

	_, err := executeCommand(t, "settings", "set-customer", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set customer")
}

func TestRunSettingsSetPipeline(t *testing.T) {
	defaults := domain.DefaultAppSettings()
	settings := &mockSettingsService{settings: &defaults}
	restore := setupServices(&Services{Settings: settings})
	defer restore()

	out, err := executeCommand(t, "settings", "set-pipeline", "detailed")
	require.NoError(t, err)
	assert.Contains(t, out, "Pipeline config set to: detailed")
	require.NotNil(t, settings.saved)
	assert.Equal(t, "detailed", settings.saved.PipelineConfigName)
}

func TestRunSettingsSetKey_ProviderWithoutKey(t *testing.T) {
	settings := &mockSettingsService{settings: &domain.AppSettings{
		LLM: domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
	}}
	restore := setupServices(&Services{Settings: settings})
	defer restore()

	_, err := executeCommand(t, "settings", "set-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not use an API key")
}

func TestRunSettings_NotConfigured(t *testing.T) {
	restore := setupServices(&Services{})
	defer restore()

	for _, args := range [][]string{
		{"settings", "show"},
		{"settings", "set-customer", "seattle"},
		{"settings", "set-llm"},
		{"settings", "set-key"},
		{"settings", "set-pipeline", "concise"},
	} {
		_, err := executeCommand(t, args...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		want       int
	}{
		{"empty uses default", "", 4, 1, 1},
		{"valid choice", "3", 4, 1, 3},
		{"too large uses default", "9", 4, 1, 1},
		{"zero uses default", "0", 4, 1, 1},
		{"not a number uses default", "abc", 4, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseChoice(tt.input, tt.maxVal, tt.defaultVal))
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"short key fully masked", "short", "****"},
		{"eight chars fully masked", "12345678", "****"},
		{"long key keeps edges", "sk-proj-1234567890", "sk-p...7890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maskAPIKey(tt.key))
		})
	}
}
