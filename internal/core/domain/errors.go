package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the language model service is not
	// configured. Summarization commands fail fast with this.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrUnknownExtractor indicates an extractor version or MIME type
	// with no registered implementation. This is a configuration
	// error, not a property of the document.
	ErrUnknownExtractor = errors.New("unknown extractor")

	// ErrUnknownSummarizer indicates a summarizer method name with no
	// registered implementation.
	ErrUnknownSummarizer = errors.New("unknown summarizer")

	// ErrConfigNotFound indicates no pipeline config binds the given
	// method name for the requested classes and kinds.
	ErrConfigNotFound = errors.New("no pipeline config binds method")

	// ErrConfigAmbiguous indicates more than one pipeline config binds
	// the given method name for the requested classes and kinds.
	ErrConfigAmbiguous = errors.New("multiple pipeline configs bind method")
)

// FetchError is a network or HTTP failure while talking to the remote
// site. It is fatal for the operation that triggered it.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

// Error implements error.
func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }

// ParseError is an unexpected remote page shape: a missing table,
// mismatched headers, or an uninterpretable cell. The crawler is
// schema-strict; downstream persistence assumes a known shape, so
// parse failures are fatal rather than degraded.
type ParseError struct {
	Page   string
	Detail string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Page, e.Detail)
}

// MissingDependencyError means a summary was requested for a subject
// whose lower-level artifacts have not been computed yet. It is fatal
// for that request only; nothing is computed implicitly.
type MissingDependencyError struct {
	Subject Subject
	// Missing describes what the subject is waiting on, e.g. the
	// document or legislation lacking its body summary.
	Missing string
	Method  string
}

// Error implements error.
func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("summary for %s: missing dependency %s (method %s)",
		e.Subject, e.Missing, e.Method)
}
