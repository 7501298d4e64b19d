package pipelines

import (
	"fmt"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/extractors"
	"github.com/opencivics/engage/internal/summarize"
)

// Concise is the name of the default pipeline.
const Concise = "concise"

// ConciseConfig binds the gpt35 concise summarizers and the first
// extractor generation.
func ConciseConfig() *domain.PipelineConfig {
	return &domain.PipelineConfig{
		Name: Concise,
		Meeting: domain.SummarizerPair{
			Body:     summarize.MeetingConcise,
			Headline: summarize.MeetingConciseHeadline,
		},
		Legislation: domain.SummarizerPair{
			Body:     summarize.LegislationConcise,
			Headline: summarize.LegislationConciseHeadline,
		},
		Document: domain.SummarizerPair{
			Body:     summarize.DocumentConcise,
			Headline: summarize.DocumentConciseHeadline,
		},
		Extractor: extractors.Version1,
	}
}

// Ensure Registry implements the interface.
var _ driven.PipelineRegistry = (*Registry)(nil)

// Registry holds the released pipeline configs.
type Registry struct {
	configs []*domain.PipelineConfig
	byName  map[string]*domain.PipelineConfig
}

// NewRegistry builds a registry, resolving every bound method name
// against the summarizer and extractor registries. A dangling name
// fails construction.
func NewRegistry(configs []*domain.PipelineConfig, summarizers driven.SummarizerRegistry, extractorReg driven.ExtractorRegistry) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*domain.PipelineConfig, len(configs)),
	}
	for _, config := range configs {
		if err := validate(config, summarizers, extractorReg); err != nil {
			return nil, fmt.Errorf("pipeline config %q: %w", config.Name, err)
		}
		if _, exists := r.byName[config.Name]; exists {
			return nil, fmt.Errorf("pipeline config %q: %w", config.Name, domain.ErrAlreadyExists)
		}
		r.configs = append(r.configs, config)
		r.byName[config.Name] = config
	}
	return r, nil
}

// Default builds the registry of released pipelines over the default
// summarizer and extractor registries.
func Default() (*Registry, error) {
	return NewRegistry(
		[]*domain.PipelineConfig{ConciseConfig()},
		summarize.Default(),
		extractors.Default(),
	)
}

// validate resolves each of the config's six summarizer bindings and
// its extractor binding.
func validate(config *domain.PipelineConfig, summarizers driven.SummarizerRegistry, extractorReg driven.ExtractorRegistry) error {
	for _, class := range domain.AllSubjectKinds {
		for _, kind := range domain.AllSummaryKinds {
			method, err := config.MethodFor(class, kind)
			if err != nil {
				return err
			}
			if _, err := summarizers.Lookup(method); err != nil {
				return fmt.Errorf("%s/%s: %w", class, kind, err)
			}
		}
	}
	for _, version := range extractorReg.Versions() {
		if version == config.Extractor {
			return nil
		}
	}
	return fmt.Errorf("%w: version %q", domain.ErrUnknownExtractor, config.Extractor)
}

// Configs returns every config in registration order.
func (r *Registry) Configs() []*domain.PipelineConfig {
	return r.configs
}

// ByName returns the named config.
func (r *Registry) ByName(name string) (*domain.PipelineConfig, error) {
	config, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("pipeline config %q: %w", name, domain.ErrNotFound)
	}
	return config, nil
}

// FindConfigs returns every config binding method for any of the
// given classes and kinds.
func (r *Registry) FindConfigs(method string, classes []domain.SubjectKind, kinds []domain.SummaryKind) []*domain.PipelineConfig {
	var matches []*domain.PipelineConfig
	for _, config := range r.configs {
		if config.Binds(method, classes, kinds) {
			matches = append(matches, config)
		}
	}
	return matches
}

// GetConfig returns the one config binding method for the given
// classes and kinds.
func (r *Registry) GetConfig(method string, classes []domain.SubjectKind, kinds []domain.SummaryKind) (*domain.PipelineConfig, error) {
	matches := r.FindConfigs(method, classes, kinds)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %q", domain.ErrConfigNotFound, method)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d configs", domain.ErrConfigAmbiguous, method, len(matches))
	}
}
