package driven

import "github.com/opencivics/engage/internal/core/domain"

// AIConfigValidator validates AI provider configurations by creating a
// throwaway client and pinging the provider.
type AIConfigValidator interface {
	// ValidateLLM checks that an LLM configuration is usable.
	// Unconfigured settings pass; a configured provider that cannot be
	// reached fails.
	ValidateLLM(config *domain.LLMSettings) error
}
