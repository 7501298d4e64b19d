package services

import (
	"fmt"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyCustomer        = "legistar.customer"
	keyRequestsPerSec  = "legistar.requests_per_second"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyBlobProvider    = "blob.provider"
	keyBlobDir         = "blob.dir"
	keyBlobBucket      = "blob.bucket"
	keyBlobCredentials = "blob.credentials_file"
	keyPipelineConfig  = "pipeline.config"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Legistar: domain.LegistarSettings{
			Customer:          s.getString(keyCustomer, defaults.Legistar.Customer),
			RequestsPerSecond: s.getFloat(keyRequestsPerSec, defaults.Legistar.RequestsPerSecond),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Blob: domain.BlobSettings{
			Provider:        s.getBlobProvider(keyBlobProvider, defaults.Blob.Provider),
			Dir:             s.configStore.GetString(keyBlobDir), // No default - empty means ~/.engage/blobs
			Bucket:          s.configStore.GetString(keyBlobBucket),
			CredentialsFile: s.configStore.GetString(keyBlobCredentials),
		},
		PipelineConfigName: s.getString(keyPipelineConfig, defaults.PipelineConfigName),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save Legistar settings
	if err := s.configStore.Set(keyCustomer, settings.Legistar.Customer); err != nil {
		return fmt.Errorf("save legistar customer: %w", err)
	}
	if err := s.configStore.Set(keyRequestsPerSec, settings.Legistar.RequestsPerSecond); err != nil {
		return fmt.Errorf("save legistar requests_per_second: %w", err)
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save blob settings
	if err := s.configStore.Set(keyBlobProvider, settings.Blob.Provider.String()); err != nil {
		return fmt.Errorf("save blob provider: %w", err)
	}
	if err := s.configStore.Set(keyBlobDir, settings.Blob.Dir); err != nil {
		return fmt.Errorf("save blob dir: %w", err)
	}
	if err := s.configStore.Set(keyBlobBucket, settings.Blob.Bucket); err != nil {
		return fmt.Errorf("save blob bucket: %w", err)
	}
	if err := s.configStore.Set(keyBlobCredentials, settings.Blob.CredentialsFile); err != nil {
		return fmt.Errorf("save blob credentials_file: %w", err)
	}

	// Save pipeline settings
	if err := s.configStore.Set(keyPipelineConfig, settings.PipelineConfigName); err != nil {
		return fmt.Errorf("save pipeline config: %w", err)
	}

	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	// Set API key
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetCustomer updates the Legistar customer slug.
func (s *SettingsService) SetCustomer(customer string) error {
	if customer == "" {
		return fmt.Errorf("%w: empty customer slug", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Legistar.Customer = customer

	return s.Save(settings)
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.Legistar.Customer == "" {
		return fmt.Errorf("legistar customer must be configured")
	}
	if settings.Legistar.RequestsPerSecond <= 0 {
		return fmt.Errorf("legistar requests_per_second must be positive")
	}

	if !settings.Blob.Provider.IsValid() {
		return fmt.Errorf("invalid blob provider: %s", settings.Blob.Provider)
	}
	if settings.Blob.Provider == domain.BlobProviderGCS && settings.Blob.Bucket == "" {
		return fmt.Errorf("blob provider %q requires a bucket", settings.Blob.Provider)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat64(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBlobProvider(key string, defaultVal domain.BlobProvider) domain.BlobProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.BlobProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
