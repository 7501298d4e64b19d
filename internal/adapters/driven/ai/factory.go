// Package ai provides factory functions for creating LLM service adapters.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opencivics/engage/internal/adapters/driven/llm/anthropic"
	"github.com/opencivics/engage/internal/adapters/driven/llm/ollama"
	"github.com/opencivics/engage/internal/adapters/driven/llm/openai"
	"github.com/opencivics/engage/internal/adapters/driven/llm/replicate"
	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'engage settings set-llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'engage settings set-llm' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for use in settings commands to validate credentials on configuration.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	case domain.AIProviderReplicate:
		return createReplicateLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollama.NewLLMService(ollama.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openai.NewLLMService(openai.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropic.NewLLMService(anthropic.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createReplicateLLM creates a Replicate LLM service. The model setting
// is user/name form; an empty model keeps the vicuna-13b default.
func createReplicateLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	cfg := replicate.Config{
		APIToken: settings.APIKey,
		BaseURL:  settings.BaseURL,
	}
	if settings.Model != "" {
		user, name, ok := splitModelRef(settings.Model)
		if !ok {
			return nil, fmt.Errorf("replicate model must be user/name, got %q", settings.Model)
		}
		cfg.ModelUser = user
		cfg.ModelName = name
	}
	return replicate.NewLLMService(cfg)
}

// splitModelRef splits "user/name" into its parts.
func splitModelRef(ref string) (user, name string, ok bool) {
	user, name, ok = strings.Cut(ref, "/")
	if !ok || user == "" || name == "" || strings.Contains(name, "/") {
		return "", "", false
	}
	return user, name, true
}
