package driven

import (
	"context"

	"github.com/opencivics/engage/internal/core/domain"
)

// DocumentStore persists document metadata and its links to meetings
// and legislation. Documents are unique by URL; the bytes themselves
// live in a BlobStore.
type DocumentStore interface {
	// CreateDocument inserts doc unless a row with the same URL already
	// exists. The stored row is returned either way; created reports
	// whether this call inserted it. Concurrent callers racing on the
	// same URL all receive the winning row.
	CreateDocument(ctx context.Context, doc *domain.Document) (*domain.Document, bool, error)

	// GetDocument retrieves a document by row id.
	// Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, id int64) (*domain.Document, error)

	// GetDocumentByURL retrieves a document by its source URL.
	// Returns domain.ErrNotFound if absent.
	GetDocumentByURL(ctx context.Context, url string) (*domain.Document, error)

	// LinkMeetingDocument associates a document with a meeting.
	// Linking the same pair twice is a no-op.
	LinkMeetingDocument(ctx context.Context, meetingID, documentID int64) error

	// LinkLegislationDocument associates a document with a legislation.
	// Linking the same pair twice is a no-op.
	LinkLegislationDocument(ctx context.Context, legislationID, documentID int64) error

	// ListMeetingDocuments returns a meeting's documents in link order.
	ListMeetingDocuments(ctx context.Context, meetingID int64) ([]domain.Document, error)

	// ListLegislationDocuments returns a legislation's documents in
	// link order.
	ListLegislationDocuments(ctx context.Context, legislationID int64) ([]domain.Document, error)

	// DeleteDocument removes a document row and its meeting and
	// legislation links. Artifact cleanup is the caller's job via
	// ArtifactStore.DeleteArtifactsFor.
	DeleteDocument(ctx context.Context, id int64) error

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int64, error)
}
