package driving

import "github.com/opencivics/engage/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetCustomer updates the Legistar customer slug.
	SetCustomer(customer string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Validate checks if current settings are usable.
	Validate() error

	// ValidateLLMConfig validates the current LLM configuration by
	// pinging the provider.
	ValidateLLMConfig() error
}
