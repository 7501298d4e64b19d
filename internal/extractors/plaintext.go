package extractors

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Ensure Plaintext implements the interface.
var _ driven.Extractor = (*Plaintext)(nil)

// Plaintext extracts text documents by decoding them as UTF-8.
type Plaintext struct{}

// NewPlaintext creates a plain text extractor.
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

// Extract decodes data as UTF-8. Invalid encodings are an error, not
// something to repair.
func (e *Plaintext) Extract(_ context.Context, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: document is not valid UTF-8", domain.ErrInvalidInput)
	}
	return string(data), nil
}
