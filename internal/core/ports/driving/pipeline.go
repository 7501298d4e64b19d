package driving

import (
	"context"

	"github.com/opencivics/engage/internal/core/domain"
)

// PipelineService runs extraction and summarization pipelines over
// stored entities. All operations are get-or-create: the first request
// for a (subject, method) pair computes and stores the artifact, later
// requests return the stored row untouched.
type PipelineService interface {
	// ExtractDocument returns the document's extracted text under the
	// named pipeline config's extractor.
	ExtractDocument(ctx context.Context, documentID int64, configName string) (*domain.ExtractionArtifact, error)

	// SummarizeDocument produces the body and headline summaries for a
	// document under the named pipeline config.
	SummarizeDocument(ctx context.Context, documentID int64, configName string) (*SummaryPair, error)

	// SummarizeLegislation produces the body and headline summaries
	// for a legislation item. Body summaries for all its non-excluded
	// documents must already exist.
	SummarizeLegislation(ctx context.Context, legislationID int64, configName string) (*SummaryPair, error)

	// SummarizeMeeting produces the body and headline summaries for a
	// meeting. Body summaries for the legislation on its agenda and
	// for its non-excluded documents must already exist.
	SummarizeMeeting(ctx context.Context, meetingID int64, configName string) (*SummaryPair, error)

	// SummarizeAllMeetings runs SummarizeMeeting over every active
	// meeting, continuing past per-meeting failures.
	SummarizeAllMeetings(ctx context.Context, configName string) (*BatchStats, error)

	// SummarizeAllLegislation runs SummarizeLegislation over every
	// stored legislation item, continuing past per-item failures.
	SummarizeAllLegislation(ctx context.Context, configName string) (*BatchStats, error)

	// Summary returns the artifact for (subject, method), resolving
	// the pipeline config from the method name.
	Summary(ctx context.Context, subject domain.Subject, method string) (*domain.SummaryArtifact, error)

	// Extraction returns the artifact for (document, method).
	Extraction(ctx context.Context, documentID int64, method string) (*domain.ExtractionArtifact, error)
}

// SummaryPair holds the two summary artifacts produced per subject.
type SummaryPair struct {
	Body     *domain.SummaryArtifact
	Headline *domain.SummaryArtifact
}

// BatchStats summarises a batch summarization run.
type BatchStats struct {
	// Succeeded counts subjects whose pair was produced or was
	// already stored.
	Succeeded int

	// Failed counts subjects skipped over a recoverable error, such
	// as a missing dependency.
	Failed int
}
