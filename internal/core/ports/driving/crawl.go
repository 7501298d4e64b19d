package driving

import (
	"context"
	"time"
)

// CrawlService walks the remote site and persists everything it finds.
type CrawlService interface {
	// Crawl runs one crawl pass from the given start date (nil means
	// the full calendar) and ingests every discovered entity and its
	// documents. The first fetch or parse failure aborts the pass.
	Crawl(ctx context.Context, start *time.Time) (*CrawlStats, error)
}

// CrawlStats summarises one crawl pass.
type CrawlStats struct {
	// MeetingsCreated and MeetingsUpdated count persisted meetings.
	MeetingsCreated int
	MeetingsUpdated int

	// LegislationsCreated and LegislationsUpdated count persisted
	// legislation.
	LegislationsCreated int
	LegislationsUpdated int

	// ActionsCreated and ActionsUpdated count persisted actions.
	ActionsCreated int
	ActionsUpdated int

	// DocumentsCreated counts newly downloaded documents. Documents
	// already stored are not re-fetched.
	DocumentsCreated int
}
