package driven

import (
	"context"
	"iter"
	"time"

	"github.com/opencivics/engage/internal/core/domain"
)

// CrawlOptions narrows a crawl.
type CrawlOptions struct {
	// Start keeps only calendar rows dated on or after the given day.
	// Nil means the full calendar.
	Start *time.Time
}

// Crawler walks the remote site and yields entities in dependency
// order: the calendar first, then every meeting in calendar row
// order, then every piece of legislation referenced by any meeting
// row, then every action referenced by any legislation row. The
// latter two phases deduplicate by guid, keeping first-seen order,
// so every entity is yielded exactly once per crawl.
//
// The sequence is lazy; pages are fetched as the consumer advances.
// A fetch or parse failure ends the sequence after yielding the error.
type Crawler interface {
	// Crawl returns the entity sequence for one crawl pass.
	Crawl(ctx context.Context, opts CrawlOptions) iter.Seq2[domain.Entity, error]
}
