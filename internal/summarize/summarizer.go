package summarize

import (
	"context"
	"fmt"
	"sort"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Registered summarizer method names.
const (
	MeetingConcise             = "summarize_meeting_gpt35_concise"
	MeetingConciseHeadline     = "summarize_meeting_gpt35_concise_headline"
	LegislationConcise         = "summarize_legislation_gpt35_concise"
	LegislationConciseHeadline = "summarize_legislation_gpt35_concise_headline"
	DocumentConcise            = "summarize_document_gpt35_concise"
	DocumentConciseHeadline    = "summarize_document_gpt35_concise_headline"
)

// Ensure Summarizer implements the interface.
var _ driven.Summarizer = (*Summarizer)(nil)

// Summarizer binds prompt templates to a registered method name.
type Summarizer struct {
	name            string
	mapTemplate     string
	combineTemplate string
	headline        bool
}

// New creates a summarizer producing a long-form body. The headline
// is derived as the body's first line.
func New(name, mapTemplate, combineTemplate string) *Summarizer {
	return &Summarizer{
		name:            name,
		mapTemplate:     mapTemplate,
		combineTemplate: combineTemplate,
	}
}

// NewHeadline creates a summarizer whose combine template produces a
// headline. Its output is used as both body and headline, unlike the
// long-form derivation; downstream config bindings rely on the
// difference.
func NewHeadline(name, mapTemplate, combineTemplate string) *Summarizer {
	return &Summarizer{
		name:            name,
		mapTemplate:     mapTemplate,
		combineTemplate: combineTemplate,
		headline:        true,
	}
}

// Name returns the registered method name.
func (s *Summarizer) Name() string {
	return s.name
}

// Summarize runs the engine over text with this summarizer's
// templates.
func (s *Summarizer) Summarize(ctx context.Context, llm driven.LLMService, text string, subs map[string]string) (domain.SummaryResult, error) {
	result, err := NewEngine(llm).Summarize(ctx, text, s.mapTemplate, s.combineTemplate, subs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	if success, ok := result.(*domain.SummarySuccess); ok && s.headline {
		success.Headline = success.Body
	}
	return result, nil
}

// Ensure Registry implements the interface.
var _ driven.SummarizerRegistry = (*Registry)(nil)

// Registry maps method names to summarizers.
type Registry struct {
	summarizers map[string]driven.Summarizer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		summarizers: make(map[string]driven.Summarizer),
	}
}

// Default returns a registry preloaded with every released
// summarizer.
func Default() *Registry {
	r := NewRegistry()
	r.Register(New(MeetingConcise, conciseSummaryTemplate, meetingConciseTemplate))
	r.Register(NewHeadline(MeetingConciseHeadline, conciseSummaryTemplate, meetingConciseHeadlineTemplate))
	r.Register(New(LegislationConcise, conciseSummaryTemplate, legislationConciseTemplate))
	r.Register(NewHeadline(LegislationConciseHeadline, conciseSummaryTemplate, legislationConciseHeadlineTemplate))
	r.Register(New(DocumentConcise, conciseSummaryTemplate, conciseSummaryTemplate))
	r.Register(NewHeadline(DocumentConciseHeadline, conciseSummaryTemplate, conciseHeadlineTemplate))
	return r
}

// Register adds a summarizer under its method name.
func (r *Registry) Register(s driven.Summarizer) {
	r.summarizers[s.Name()] = s
}

// Lookup returns the summarizer registered under name.
func (r *Registry) Lookup(name string) (driven.Summarizer, error) {
	s, ok := r.summarizers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSummarizer, name)
	}
	return s, nil
}

// Names returns the registered method names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.summarizers))
	for name := range r.summarizers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
