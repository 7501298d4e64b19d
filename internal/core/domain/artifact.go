package domain

import "time"

// ExtractionArtifact is the cached text of one (document, extractor)
// pair. Artifacts are immutable once written: a later request for the
// same pair returns the stored text even if the extractor would now
// produce something different.
type ExtractionArtifact struct {
	ID          int64
	DocumentID  int64
	Method      string
	Text        string
	ExtractedAt time.Time
}

// SummaryArtifact is the cached output of one (subject, summarizer)
// pair. Body and Headline hold the final texts; Chunks and
// ChunkSummaries keep the intermediate map-phase state for audit.
//
// A summarization that failed before any model call (empty input,
// unchunkable text) is still recorded, with Message set and no body,
// headline, or chunks. Recording the failure keeps the at-most-once
// contract: the pair is not retried automatically.
type SummaryArtifact struct {
	ID          int64
	SubjectKind SubjectKind
	SubjectID   int64
	Method      string
	Body        string
	Headline    string
	// OriginalText is the full input text, kept for debugging.
	OriginalText   string
	Chunks         []string
	ChunkSummaries []string
	// Message is empty for successful summaries. For failed ones it
	// carries the human-readable reason.
	Message   string
	CreatedAt time.Time
}

// Subject returns the artifact's subject identity.
func (a *SummaryArtifact) Subject() Subject {
	return Subject{Kind: a.SubjectKind, ID: a.SubjectID}
}

// Failed reports whether the artifact records a summarization failure
// rather than a summary.
func (a *SummaryArtifact) Failed() bool {
	return a.Message != ""
}
