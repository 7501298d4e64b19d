package driven

import (
	"context"

	"github.com/opencivics/engage/internal/core/domain"
)

// LegislationStore persists crawled legislation.
// Backed by SQLite for metadata storage.
type LegislationStore interface {
	// UpsertLegislation stores l keyed by its (LegistarID, GUID) pair,
	// replacing any previous crawl of the same page. l.ID is set to
	// the row id. Created reports whether a new row was inserted.
	UpsertLegislation(ctx context.Context, l *domain.Legislation) (created bool, err error)

	// GetLegislation retrieves legislation by row id.
	// Returns domain.ErrNotFound if absent.
	GetLegislation(ctx context.Context, id int64) (*domain.Legislation, error)

	// GetLegislationByRecordNo retrieves legislation by its record
	// number, e.g. "CB 120537". Returns domain.ErrNotFound if absent.
	GetLegislationByRecordNo(ctx context.Context, recordNo string) (*domain.Legislation, error)

	// ListLegislation returns all stored legislation, oldest first.
	ListLegislation(ctx context.Context) ([]domain.Legislation, error)

	// DeleteLegislation removes a legislation row and its document links.
	DeleteLegislation(ctx context.Context, id int64) error
}
