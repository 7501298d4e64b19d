package driven

import (
	"context"

	"github.com/opencivics/engage/internal/core/domain"
)

// ActionStore persists crawled legislative actions.
// Backed by SQLite for metadata storage.
type ActionStore interface {
	// UpsertAction stores a keyed by its (LegistarID, GUID) pair,
	// replacing any previous crawl of the same page. a.ID is set to
	// the row id. Created reports whether a new row was inserted.
	UpsertAction(ctx context.Context, a *domain.Action) (created bool, err error)

	// ListActionsByRecordNo returns all actions recorded against a
	// legislation record number, oldest first.
	ListActionsByRecordNo(ctx context.Context, recordNo string) ([]domain.Action, error)

	// DeleteActionsByRecordNo removes all actions for a record number.
	DeleteActionsByRecordNo(ctx context.Context, recordNo string) error
}
