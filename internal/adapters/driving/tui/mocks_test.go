package tui

import (
	"context"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driving"
)

// mockPipelineService returns canned batch stats.
type mockPipelineService struct {
	meetingStats     *driving.BatchStats
	legislationStats *driving.BatchStats
	err              error
	gotConfig        string
}

var _ driving.PipelineService = (*mockPipelineService)(nil)

func (m *mockPipelineService) ExtractDocument(_ context.Context, _ int64, _ string) (*domain.ExtractionArtifact, error) {
	return nil, m.err
}

func (m *mockPipelineService) SummarizeDocument(_ context.Context, _ int64, _ string) (*driving.SummaryPair, error) {
	return nil, m.err
}

func (m *mockPipelineService) SummarizeLegislation(_ context.Context, _ int64, _ string) (*driving.SummaryPair, error) {
	return nil, m.err
}

func (m *mockPipelineService) SummarizeMeeting(_ context.Context, _ int64, _ string) (*driving.SummaryPair, error) {
	return nil, m.err
}

func (m *mockPipelineService) SummarizeAllMeetings(_ context.Context, configName string) (*driving.BatchStats, error) {
	m.gotConfig = configName
	if m.err != nil {
		return nil, m.err
	}
	return m.meetingStats, nil
}

func (m *mockPipelineService) SummarizeAllLegislation(_ context.Context, configName string) (*driving.BatchStats, error) {
	m.gotConfig = configName
	if m.err != nil {
		return nil, m.err
	}
	return m.legislationStats, nil
}

func (m *mockPipelineService) Summary(_ context.Context, _ domain.Subject, _ string) (*domain.SummaryArtifact, error) {
	return nil, m.err
}

func (m *mockPipelineService) Extraction(_ context.Context, _ int64, _ string) (*domain.ExtractionArtifact, error) {
	return nil, m.err
}

// mockStatusService returns a canned status.
type mockStatusService struct {
	status *driving.Status
	err    error
}

var _ driving.StatusService = (*mockStatusService)(nil)

func (m *mockStatusService) Status(_ context.Context) (*driving.Status, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.status, nil
}
