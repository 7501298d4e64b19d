package driven

import "context"

// Extractor converts stored document bytes of one MIME type into
// plain text.
type Extractor interface {
	// Extract produces the text content of data. Text decoding
	// failures propagate as errors; PDF extraction instead degrades
	// to a placeholder string so a text artifact is always produced.
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorRegistry resolves an extractor version and MIME type to an
// Extractor. The version string doubles as the method name recorded
// on extraction artifacts.
type ExtractorRegistry interface {
	// Lookup returns the extractor registered for the version and
	// MIME type. Unknown pairs return domain.ErrUnknownExtractor.
	Lookup(version, mimeType string) (Extractor, error)

	// Versions returns the registered version names.
	Versions() []string
}
