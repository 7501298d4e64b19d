package services

import (
	"context"
	"fmt"

	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/core/ports/driving"
)

// Ensure StatusService implements the interface.
var _ driving.StatusService = (*StatusService)(nil)

// StatusService reports row counts and configuration state.
type StatusService struct {
	meetings     driven.MeetingStore
	legislations driven.LegislationStore
	documents    driven.DocumentStore
	artifacts    driven.ArtifactStore
	settings     driving.SettingsService
}

// NewStatusService creates a new status service.
func NewStatusService(
	meetings driven.MeetingStore,
	legislations driven.LegislationStore,
	documents driven.DocumentStore,
	artifacts driven.ArtifactStore,
	settings driving.SettingsService,
) *StatusService {
	return &StatusService{
		meetings:     meetings,
		legislations: legislations,
		documents:    documents,
		artifacts:    artifacts,
		settings:     settings,
	}
}

// Status returns a snapshot of the local data store.
func (s *StatusService) Status(ctx context.Context) (*driving.Status, error) {
	all, err := s.meetings.ListMeetings(ctx, driven.MeetingFilter{})
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	active, err := s.meetings.ListMeetings(ctx, driven.MeetingFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list active meetings: %w", err)
	}
	legs, err := s.legislations.ListLegislation(ctx)
	if err != nil {
		return nil, fmt.Errorf("list legislation: %w", err)
	}
	docs, err := s.documents.CountDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	extractions, summaries, err := s.artifacts.CountArtifacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count artifacts: %w", err)
	}
	settings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	status := &driving.Status{
		Meetings:       int64(len(all)),
		ActiveMeetings: int64(len(active)),
		Legislations:   int64(len(legs)),
		Documents:      docs,
		Extractions:    extractions,
		Summaries:      summaries,
		LLMConfigured:  settings.LLM.IsConfigured(),
		Customer:       settings.Legistar.Customer,
	}
	if status.LLMConfigured {
		status.LLMModel = settings.LLM.Model
	}
	return status, nil
}
