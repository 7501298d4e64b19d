package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Engine drives the map and reduce phases over a language model.
type Engine struct {
	llm    driven.LLMService
	maxLen int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxChunkLen overrides the chunk size limit.
func WithMaxChunkLen(n int) Option {
	return func(e *Engine) {
		e.maxLen = n
	}
}

// NewEngine creates an engine over the given language model.
func NewEngine(llm driven.LLMService, opts ...Option) *Engine {
	e := &Engine{
		llm:    llm,
		maxLen: DefaultMaxChunkLen,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Summarize condenses text through one map invocation per chunk and a
// single reduce invocation over the joined partial summaries. Caller
// context values in subs are substituted into both templates before
// any chunk text is inserted. Empty input and unchunkable text come
// back as a *domain.SummaryFailure without touching the model; model
// failures propagate as errors.
func (e *Engine) Summarize(ctx context.Context, text, mapTemplate, combineTemplate string, subs map[string]string) (domain.SummaryResult, error) {
	if e.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return &domain.SummaryFailure{OriginalText: text, Message: "no text to summarize"}, nil
	}

	mapPrompt := renderContext(mapTemplate, subs)
	combinePrompt := renderContext(combineTemplate, subs)

	chunks, err := Chunk(text, e.maxLen)
	if err != nil {
		return &domain.SummaryFailure{OriginalText: text, Message: err.Error()}, nil
	}

	partials := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		partial, err := e.llm.Invoke(ctx, insertText(mapPrompt, chunk))
		if err != nil {
			return nil, fmt.Errorf("map chunk %d of %d: %w", i+1, len(chunks), err)
		}
		partials = append(partials, partial)
	}

	body, err := e.llm.Invoke(ctx, insertText(combinePrompt, strings.Join(partials, "\n\n")))
	if err != nil {
		return nil, fmt.Errorf("combine %d partial summaries: %w", len(partials), err)
	}

	return &domain.SummarySuccess{
		OriginalText:   text,
		Body:           body,
		Headline:       firstLine(body),
		Chunks:         chunks,
		ChunkSummaries: partials,
	}, nil
}

// renderContext substitutes <<name>> context values into a template.
// The delimiters cannot appear in chunk text, which is inserted later
// and never rescanned.
func renderContext(template string, subs map[string]string) string {
	for name, value := range subs {
		template = strings.ReplaceAll(template, "<<"+name+">>", value)
	}
	return template
}

// insertText fills the template's {text} slot.
func insertText(template, text string) string {
	return strings.ReplaceAll(template, "{text}", text)
}

// firstLine returns the body's first line, ignoring leading blanks.
func firstLine(body string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(body), "\n")
	return line
}
