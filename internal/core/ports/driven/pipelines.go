package driven

import "github.com/opencivics/engage/internal/core/domain"

// PipelineRegistry resolves pipeline configs by name and by bound
// method. The registry is built once at startup, validated against
// the summarizer and extractor registries, and immutable afterwards.
type PipelineRegistry interface {
	// Configs returns every config in registration order.
	Configs() []*domain.PipelineConfig

	// ByName returns the named config.
	// Returns domain.ErrNotFound if absent.
	ByName(name string) (*domain.PipelineConfig, error)

	// FindConfigs returns every config binding method for any of the
	// given classes and kinds.
	FindConfigs(method string, classes []domain.SubjectKind, kinds []domain.SummaryKind) []*domain.PipelineConfig

	// GetConfig returns the one config binding method for the given
	// classes and kinds. Zero matches is domain.ErrConfigNotFound;
	// several is domain.ErrConfigAmbiguous.
	GetConfig(method string, classes []domain.SubjectKind, kinds []domain.SummaryKind) (*domain.PipelineConfig, error)
}
