package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for summarization.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderReplicate is Replicate cloud API.
	AIProviderReplicate AIProvider = "replicate"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderReplicate:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderReplicate
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderReplicate:
		return "Replicate (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// BlobProvider identifies where fetched document bytes are stored.
type BlobProvider string

// Available blob providers.
const (
	// BlobProviderFile stores blobs on the local filesystem.
	BlobProviderFile BlobProvider = "file"

	// BlobProviderGCS stores blobs in a Google Cloud Storage bucket.
	BlobProviderGCS BlobProvider = "gcs"
)

// IsValid returns true if the blob provider is recognised.
func (p BlobProvider) IsValid() bool {
	switch p {
	case BlobProviderFile, BlobProviderGCS:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p BlobProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p BlobProvider) Description() string {
	switch p {
	case BlobProviderFile:
		return "Local filesystem"
	case BlobProviderGCS:
		return "Google Cloud Storage"
	default:
		return unknownDescription
	}
}

// BlobSettings holds document blob storage configuration.
type BlobSettings struct {
	// Provider selects the blob backend.
	Provider BlobProvider

	// Dir is the root directory (for the file provider).
	Dir string

	// Bucket is the GCS bucket name (for the gcs provider).
	Bucket string

	// CredentialsFile is a service account JSON path (for the gcs
	// provider). Empty means application default credentials.
	CredentialsFile string
}

// LegistarSettings holds remote site configuration.
type LegistarSettings struct {
	// Customer is the Legistar customer slug, e.g. "seattle".
	Customer string

	// RequestsPerSecond throttles outbound page and document fetches.
	RequestsPerSecond float64
}

// Default Legistar configuration.
const (
	// DefaultCustomer is the customer crawled when none is configured.
	DefaultCustomer = "seattle"

	// DefaultRequestsPerSecond is a polite default for a municipal site.
	DefaultRequestsPerSecond = 4.0
)

// AppSettings holds all application settings.
type AppSettings struct {
	// Legistar holds remote site settings.
	Legistar LegistarSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Blob holds document blob storage settings.
	Blob BlobSettings

	// PipelineConfigName names the pipeline configuration used by
	// commands that do not specify one. See pipelines.Registry.
	PipelineConfigName string
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM provider is left unconfigured by default; users must
// explicitly configure it before summarization commands work.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Legistar: LegistarSettings{
			Customer:          DefaultCustomer,
			RequestsPerSecond: DefaultRequestsPerSecond,
		},
		// LLM is left unconfigured - user must set it up via settings
		LLM: LLMSettings{},
		Blob: BlobSettings{
			Provider: BlobProviderFile,
		},
		PipelineConfigName: "concise",
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderReplicate,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-3.5-turbo",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
		AIProviderReplicate: "replicate/vicuna-13b",
	}
}
