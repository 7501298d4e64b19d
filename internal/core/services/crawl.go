package services

import (
	"context"
	"fmt"
	"time"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/core/ports/driving"
	"github.com/opencivics/engage/internal/logger"
)

// Ensure CrawlService implements the interface.
var _ driving.CrawlService = (*CrawlService)(nil)

// CrawlService walks the Legistar calendar and hands every discovered
// entity to the ingest service.
type CrawlService struct {
	crawler driven.Crawler
	ingest  driving.IngestService
}

// NewCrawlService creates a new crawl service.
func NewCrawlService(crawler driven.Crawler, ingest driving.IngestService) *CrawlService {
	return &CrawlService{
		crawler: crawler,
		ingest:  ingest,
	}
}

// Crawl visits the calendar starting at start (every listed year when
// nil) and ingests each meeting, legislation, and action it reaches.
// Stats cover the work done before the first error.
func (s *CrawlService) Crawl(ctx context.Context, start *time.Time) (*driving.CrawlStats, error) {
	logger.Section("crawl")
	stats := &driving.CrawlStats{}
	for entity, err := range s.crawler.Crawl(ctx, driven.CrawlOptions{Start: start}) {
		if err != nil {
			return stats, fmt.Errorf("crawl failed: %w", err)
		}
		result, err := s.ingest.IngestEntity(ctx, entity)
		if err != nil {
			return stats, fmt.Errorf("ingest %s: %w", entity.EntityKind(), err)
		}
		tally(stats, entity.EntityKind(), result)
	}
	logger.Info("Crawled %d meetings (%d new), %d legislations (%d new), %d actions (%d new), %d documents fetched",
		stats.MeetingsCreated+stats.MeetingsUpdated, stats.MeetingsCreated,
		stats.LegislationsCreated+stats.LegislationsUpdated, stats.LegislationsCreated,
		stats.ActionsCreated+stats.ActionsUpdated, stats.ActionsCreated,
		stats.DocumentsCreated)
	return stats, nil
}

func tally(stats *driving.CrawlStats, kind domain.EntityKind, result *driving.IngestResult) {
	stats.DocumentsCreated += result.DocumentsCreated
	switch kind {
	case domain.EntityKindMeeting:
		if result.Created {
			stats.MeetingsCreated++
		} else {
			stats.MeetingsUpdated++
		}
	case domain.EntityKindLegislation:
		if result.Created {
			stats.LegislationsCreated++
		} else {
			stats.LegislationsUpdated++
		}
	case domain.EntityKindAction:
		if result.Created {
			stats.ActionsCreated++
		} else {
			stats.ActionsUpdated++
		}
	}
}
