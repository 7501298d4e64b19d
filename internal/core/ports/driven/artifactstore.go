package driven

import (
	"context"

	"github.com/opencivics/engage/internal/core/domain"
)

// ArtifactStore persists extraction and summary artifacts. Both tables
// carry a uniqueness constraint on their (subject, method) key; the
// Put methods lean on it to make concurrent get-or-create safe.
type ArtifactStore interface {
	// GetExtraction retrieves the artifact for a (document, method)
	// pair. Returns domain.ErrNotFound if absent.
	GetExtraction(ctx context.Context, documentID int64, method string) (*domain.ExtractionArtifact, error)

	// PutExtraction inserts a unless an artifact for the same
	// (document, method) pair already exists, in which case the
	// existing row is returned and a is discarded. Created reports
	// whether this call inserted the row.
	PutExtraction(ctx context.Context, a *domain.ExtractionArtifact) (*domain.ExtractionArtifact, bool, error)

	// GetSummary retrieves the artifact for a (subject, method) pair.
	// Returns domain.ErrNotFound if absent.
	GetSummary(ctx context.Context, subject domain.Subject, method string) (*domain.SummaryArtifact, error)

	// PutSummary inserts a unless an artifact for the same (subject,
	// method) pair already exists, in which case the existing row is
	// returned and a is discarded. Created reports whether this call
	// inserted the row.
	PutSummary(ctx context.Context, a *domain.SummaryArtifact) (*domain.SummaryArtifact, bool, error)

	// ListSummaries returns all summary artifacts for a subject.
	ListSummaries(ctx context.Context, subject domain.Subject) ([]domain.SummaryArtifact, error)

	// DeleteArtifactsFor removes all artifacts keyed by the subject.
	// For document subjects this includes extraction artifacts.
	DeleteArtifactsFor(ctx context.Context, subject domain.Subject) error

	// CountArtifacts returns the number of stored extraction and
	// summary artifacts.
	CountArtifacts(ctx context.Context) (extractions, summaries int64, err error)
}
