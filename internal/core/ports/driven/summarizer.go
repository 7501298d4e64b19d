package driven

import (
	"context"

	"github.com/opencivics/engage/internal/core/domain"
)

// Summarizer runs map-reduce summarization under a registered method
// name. Implementations bind the prompt templates; the language model
// is supplied per call so the registry itself stays static.
type Summarizer interface {
	// Name returns the registered method name.
	Name() string

	// Summarize condenses text. subs carries caller context values
	// (a title, a department name) substituted into the templates
	// before any chunk text is inserted. Empty and unchunkable input
	// come back as *domain.SummaryFailure; model failures are errors.
	Summarize(ctx context.Context, llm LLMService, text string, subs map[string]string) (domain.SummaryResult, error)
}

// SummarizerRegistry resolves summarizer method names.
type SummarizerRegistry interface {
	// Lookup returns the summarizer registered under name.
	// Unknown names return domain.ErrUnknownSummarizer.
	Lookup(name string) (Summarizer, error)

	// Names returns the registered method names, sorted.
	Names() []string
}
