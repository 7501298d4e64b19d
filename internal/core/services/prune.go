package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/core/ports/driving"
	"github.com/opencivics/engage/internal/logger"
)

// Ensure PruneService implements the interface.
var _ driving.PruneService = (*PruneService)(nil)

// PruneService removes meetings older than a retention window together
// with their documents, the actions of the legislation on their
// agendas, and every artifact derived from the pruned rows.
// Legislation rows survive so record numbers stay resolvable.
type PruneService struct {
	meetings     driven.MeetingStore
	legislations driven.LegislationStore
	actions      driven.ActionStore
	documents    driven.DocumentStore
	artifacts    driven.ArtifactStore
	blobs        driven.BlobStore
}

// NewPruneService creates a new prune service.
func NewPruneService(
	meetings driven.MeetingStore,
	legislations driven.LegislationStore,
	actions driven.ActionStore,
	documents driven.DocumentStore,
	artifacts driven.ArtifactStore,
	blobs driven.BlobStore,
) *PruneService {
	return &PruneService{
		meetings:     meetings,
		legislations: legislations,
		actions:      actions,
		documents:    documents,
		artifacts:    artifacts,
		blobs:        blobs,
	}
}

// PruneMeetings deletes meetings dated strictly before today minus
// days, midnight UTC.
func (s *PruneService) PruneMeetings(ctx context.Context, days int) (*driving.PruneStats, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: negative retention window", domain.ErrInvalidInput)
	}
	logger.Section("prune")
	cutoff := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -days)
	meetings, err := s.meetings.ListMeetings(ctx, driven.MeetingFilter{Before: &cutoff})
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}

	stats := &driving.PruneStats{}
	for i := range meetings {
		if err := s.pruneMeeting(ctx, &meetings[i], stats); err != nil {
			return stats, err
		}
	}
	logger.Stage("PRUNE", "Delete %d meetings.", stats.Meetings)
	return stats, nil
}

func (s *PruneService) pruneMeeting(ctx context.Context, m *domain.Meeting, stats *driving.PruneStats) error {
	logger.Stage("PRUNE", "meeting (%d).", m.LegistarID)
	for _, recordNo := range m.RecordNos() {
		if err := s.pruneAgendaRecord(ctx, recordNo, stats); err != nil {
			return fmt.Errorf("prune record %q: %w", recordNo, err)
		}
	}
	docs, err := s.documents.ListMeetingDocuments(ctx, m.ID)
	if err != nil {
		return fmt.Errorf("list meeting documents: %w", err)
	}
	for i := range docs {
		if err := s.deleteDocument(ctx, &docs[i], stats); err != nil {
			return err
		}
	}
	if err := s.artifacts.DeleteArtifactsFor(ctx, domain.MeetingSubject(m.ID)); err != nil {
		return fmt.Errorf("delete meeting artifacts: %w", err)
	}
	if err := s.meetings.DeleteMeeting(ctx, m.ID); err != nil {
		return fmt.Errorf("delete meeting %d: %w", m.ID, err)
	}
	stats.Meetings++
	return nil
}

// pruneAgendaRecord clears the actions and documents of one agenda
// item's legislation. The legislation row itself is kept.
func (s *PruneService) pruneAgendaRecord(ctx context.Context, recordNo string, stats *driving.PruneStats) error {
	leg, err := s.legislations.GetLegislationByRecordNo(ctx, recordNo)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get legislation: %w", err)
	}

	acts, err := s.actions.ListActionsByRecordNo(ctx, recordNo)
	if err != nil {
		return fmt.Errorf("list actions: %w", err)
	}
	if len(acts) > 0 {
		if err := s.actions.DeleteActionsByRecordNo(ctx, recordNo); err != nil {
			return fmt.Errorf("delete actions: %w", err)
		}
		stats.Actions += len(acts)
	}

	docs, err := s.documents.ListLegislationDocuments(ctx, leg.ID)
	if err != nil {
		return fmt.Errorf("list legislation documents: %w", err)
	}
	for i := range docs {
		if err := s.deleteDocument(ctx, &docs[i], stats); err != nil {
			return err
		}
	}
	return nil
}

// deleteDocument removes the row, its artifacts, and its blob.
func (s *PruneService) deleteDocument(ctx context.Context, doc *domain.Document, stats *driving.PruneStats) error {
	if err := s.artifacts.DeleteArtifactsFor(ctx, domain.DocumentSubject(doc.ID)); err != nil {
		return fmt.Errorf("delete document artifacts: %w", err)
	}
	if err := s.documents.DeleteDocument(ctx, doc.ID); err != nil {
		return fmt.Errorf("delete document %d: %w", doc.ID, err)
	}
	if err := s.blobs.Delete(ctx, doc.BlobRef); err != nil {
		logger.Warn("orphan blob %s: %v", doc.BlobRef, err)
	}
	stats.Documents++
	return nil
}
