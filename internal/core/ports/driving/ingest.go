package driving

import (
	"context"

	"github.com/opencivics/engage/internal/core/domain"
)

// IngestService persists crawled entities and their documents.
type IngestService interface {
	// IngestEntity upserts one crawled entity and downloads any
	// documents it references that have not been seen before. The
	// calendar is a no-op; it carries no persistent state of its own.
	IngestEntity(ctx context.Context, entity domain.Entity) (*IngestResult, error)

	// IngestFile stores raw file bytes as a supporting document. The
	// document is keyed by url, which for local files is a synthetic
	// file:// URL. Returns the stored document.
	IngestFile(ctx context.Context, url, title string, data []byte, mimeType string) (*domain.Document, error)
}

// IngestResult reports what one IngestEntity call persisted.
type IngestResult struct {
	// Created reports whether the entity row was newly inserted.
	Created bool

	// Updated reports whether an existing entity row was replaced.
	Updated bool

	// DocumentsCreated counts documents downloaded and stored by this
	// call. Already-known documents are linked but not counted.
	DocumentsCreated int
}
