package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/core/ports/driving"
	"github.com/opencivics/engage/internal/logger"
)

// SummarizeAllMeetings summarizes every active meeting bottom-up: each
// meeting's non-excluded documents, then the legislation on its agenda
// with their documents, then the meeting itself. Canceled meetings are
// skipped entirely. Recoverable per-item failures are counted and the
// run continues; anything else aborts it.
func (s *PipelineService) SummarizeAllMeetings(ctx context.Context, configName string) (*driving.BatchStats, error) {
	meetings, err := s.meetings.ListMeetings(ctx, driven.MeetingFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	logger.Section(fmt.Sprintf("summarize %d meetings", len(meetings)))
	stats := &driving.BatchStats{}
	for i := range meetings {
		m := &meetings[i]
		logger.Stage("ALL-MEETINGS", "Sum meeting %d (%d) w/ %s", m.ID, m.LegistarID, configName)
		if err := s.summarizeMeetingItem(ctx, m, configName); err != nil {
			if !recoverable(err) {
				return stats, fmt.Errorf("meeting %d: %w", m.ID, err)
			}
			logger.Warn("meeting %d: %v", m.ID, err)
			stats.Failed++
			continue
		}
		stats.Succeeded++
	}
	logger.Info("Summarized %d meetings, %d failed", stats.Succeeded, stats.Failed)
	return stats, nil
}

// SummarizeAllLegislation summarizes every stored legislation item
// bottom-up: each item's documents, then the item itself.
func (s *PipelineService) SummarizeAllLegislation(ctx context.Context, configName string) (*driving.BatchStats, error) {
	legislations, err := s.legislations.ListLegislation(ctx)
	if err != nil {
		return nil, fmt.Errorf("list legislation: %w", err)
	}
	logger.Section(fmt.Sprintf("summarize %d legislation items", len(legislations)))
	stats := &driving.BatchStats{}
	for i := range legislations {
		leg := &legislations[i]
		logger.Stage("ALL-LEGISLATION", "Sum %s w/ %s", leg.RecordNo, configName)
		if err := s.summarizeLegislationItem(ctx, leg, configName); err != nil {
			if !recoverable(err) {
				return stats, fmt.Errorf("legislation %d: %w", leg.ID, err)
			}
			logger.Warn("legislation %d: %v", leg.ID, err)
			stats.Failed++
			continue
		}
		stats.Succeeded++
	}
	logger.Info("Summarized %d legislation items, %d failed", stats.Succeeded, stats.Failed)
	return stats, nil
}

// summarizeMeetingItem builds everything one meeting summary needs,
// then the summary itself. Legislation record numbers with no stored
// row are left for SummarizeMeeting to report as missing dependencies.
func (s *PipelineService) summarizeMeetingItem(ctx context.Context, m *domain.Meeting, configName string) error {
	docs, err := s.documents.ListMeetingDocuments(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("list meeting documents: %w", err)
	}
	if err := s.summarizeDocuments(ctx, docs, configName); err != nil {
		return err
	}
	for _, recordNo := range m.RecordNos() {
		leg, err := s.legislations.GetLegislationByRecordNo(ctx, recordNo)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("get legislation %q: %w", recordNo, err)
		}
		if err := s.summarizeLegislationItem(ctx, leg, configName); err != nil {
			return err
		}
	}
	_, err = s.SummarizeMeeting(ctx, m.ID, configName)
	return err
}

// summarizeLegislationItem summarizes the item's documents, then the
// item.
func (s *PipelineService) summarizeLegislationItem(ctx context.Context, leg *domain.Legislation, configName string) error {
	docs, err := s.documents.ListLegislationDocuments(ctx, leg.ID)
	if err != nil {
		return fmt.Errorf("list legislation documents: %w", err)
	}
	if err := s.summarizeDocuments(ctx, docs, configName); err != nil {
		return err
	}
	_, err = s.SummarizeLegislation(ctx, leg.ID, configName)
	return err
}

// summarizeDocuments produces the body and headline pair for each
// non-excluded document, fanning out across a bounded worker group.
// The artifact store's get-or-create contract keeps racing workers
// safe: whoever computes a pair first wins, the rest read it back.
func (s *PipelineService) summarizeDocuments(ctx context.Context, docs []domain.Document, configName string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.docWorkers)
	for _, doc := range docs {
		if doc.Excluded(domain.DefaultMeetingExclusions) {
			continue
		}
		g.Go(func() error {
			if _, err := s.SummarizeDocument(ctx, doc.ID, configName); err != nil {
				return fmt.Errorf("document %d: %w", doc.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// recoverable reports whether a batch item failure should be skipped
// rather than abort the run. A dead document link, a reshaped remote
// page, or an item still waiting on lower-level artifacts is that
// item's problem; everything else likely affects the whole run.
func recoverable(err error) bool {
	var fetchErr *domain.FetchError
	var parseErr *domain.ParseError
	var depErr *domain.MissingDependencyError
	return errors.As(err, &fetchErr) || errors.As(err, &parseErr) || errors.As(err, &depErr)
}
