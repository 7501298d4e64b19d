package extractors

import (
	"fmt"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Version1 is the method name recorded on artifacts produced by the
// first extractor generation.
const Version1 = "engage-extractor-1"

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps extractor versions to per-MIME-type extractors.
type Registry struct {
	versions map[string]map[string]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		versions: make(map[string]map[string]driven.Extractor),
	}
}

// Default returns a registry preloaded with every released version.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Version1, "text/plain", NewPlaintext())
	r.Register(Version1, "application/pdf", NewPDF())
	return r
}

// Register adds an extractor for the given version and MIME type.
func (r *Registry) Register(version, mimeType string, e driven.Extractor) {
	mimes, ok := r.versions[version]
	if !ok {
		mimes = make(map[string]driven.Extractor)
		r.versions[version] = mimes
	}
	mimes[mimeType] = e
}

// Lookup returns the extractor for the given version and MIME type.
// Both halves of the key are configuration, not document properties,
// so a miss is domain.ErrUnknownExtractor rather than a degraded
// result.
func (r *Registry) Lookup(version, mimeType string) (driven.Extractor, error) {
	mimes, ok := r.versions[version]
	if !ok {
		return nil, fmt.Errorf("%w: version %q", domain.ErrUnknownExtractor, version)
	}
	e, ok := mimes[mimeType]
	if !ok {
		return nil, fmt.Errorf("%w: version %q has no extractor for %q", domain.ErrUnknownExtractor, version, mimeType)
	}
	return e, nil
}

// Versions returns the registered version names.
func (r *Registry) Versions() []string {
	names := make([]string, 0, len(r.versions))
	for name := range r.versions {
		names = append(names, name)
	}
	return names
}
