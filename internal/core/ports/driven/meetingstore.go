package driven

import (
	"context"
	"time"

	"github.com/opencivics/engage/internal/core/domain"
)

// MeetingFilter narrows ListMeetings results. Zero value matches all.
type MeetingFilter struct {
	// ActiveOnly skips canceled meetings.
	ActiveOnly bool

	// Before matches meetings dated strictly before the given day.
	Before *time.Time
}

// MeetingStore persists crawled meetings.
// Backed by SQLite for metadata storage.
type MeetingStore interface {
	// UpsertMeeting stores m keyed by its (LegistarID, GUID) pair,
	// replacing any previous crawl of the same page. m.ID is set to
	// the row id. Created reports whether a new row was inserted.
	UpsertMeeting(ctx context.Context, m *domain.Meeting) (created bool, err error)

	// GetMeeting retrieves a meeting by row id.
	// Returns domain.ErrNotFound if absent.
	GetMeeting(ctx context.Context, id int64) (*domain.Meeting, error)

	// ListMeetings returns meetings matching the filter, oldest first.
	ListMeetings(ctx context.Context, f MeetingFilter) ([]domain.Meeting, error)

	// DeleteMeeting removes a meeting and its document links.
	DeleteMeeting(ctx context.Context, id int64) error
}
