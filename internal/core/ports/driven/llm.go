package driven

import "context"

// LLMService provides language model text completion for summarization.
// This is an optional service - when nil, summarization commands fail
// fast with domain.ErrLLMUnavailable.
//
// Implementations may include:
//   - OpenAI (GPT-3.5, GPT-4)
//   - Anthropic (Claude)
//   - Replicate (hosted open models)
//   - Ollama (local models)
type LLMService interface {
	// Invoke sends a fully rendered prompt and returns the completion
	// text. Sampling parameters are fixed at construction; summaries
	// must be reproducible across chunks of the same run.
	Invoke(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to a batch run.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
