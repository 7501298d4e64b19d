package mcp

import (
	"context"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/core/ports/driving"
)

// mockPipelineService returns canned pairs and artifacts, recording
// the arguments of the last call.
type mockPipelineService struct {
	pair       *domain.SummaryArtifact
	headline   *domain.SummaryArtifact
	artifact   *domain.SummaryArtifact
	extraction *domain.ExtractionArtifact
	batch      *driving.BatchStats
	err        error

	gotID      int64
	gotConfig  string
	gotSubject domain.Subject
	gotMethod  string
}

var _ driving.PipelineService = (*mockPipelineService)(nil)

func (m *mockPipelineService) summaryPair() *driving.SummaryPair {
	return &driving.SummaryPair{Body: m.pair, Headline: m.headline}
}

func (m *mockPipelineService) ExtractDocument(_ context.Context, documentID int64, configName string) (*domain.ExtractionArtifact, error) {
	m.gotID, m.gotConfig = documentID, configName
	if m.err != nil {
		return nil, m.err
	}
	return m.extraction, nil
}

func (m *mockPipelineService) SummarizeDocument(_ context.Context, documentID int64, configName string) (*driving.SummaryPair, error) {
	m.gotID, m.gotConfig = documentID, configName
	if m.err != nil {
		return nil, m.err
	}
	return m.summaryPair(), nil
}

func (m *mockPipelineService) SummarizeLegislation(_ context.Context, legislationID int64, configName string) (*driving.SummaryPair, error) {
	m.gotID, m.gotConfig = legislationID, configName
	if m.err != nil {
		return nil, m.err
	}
	return m.summaryPair(), nil
}

func (m *mockPipelineService) SummarizeMeeting(_ context.Context, meetingID int64, configName string) (*driving.SummaryPair, error) {
	m.gotID, m.gotConfig = meetingID, configName
	if m.err != nil {
		return nil, m.err
	}
	return m.summaryPair(), nil
}

func (m *mockPipelineService) SummarizeAllMeetings(_ context.Context, configName string) (*driving.BatchStats, error) {
	m.gotConfig = configName
	if m.err != nil {
		return nil, m.err
	}
	return m.batch, nil
}

func (m *mockPipelineService) SummarizeAllLegislation(_ context.Context, configName string) (*driving.BatchStats, error) {
	m.gotConfig = configName
	if m.err != nil {
		return nil, m.err
	}
	return m.batch, nil
}

func (m *mockPipelineService) Summary(_ context.Context, subject domain.Subject, method string) (*domain.SummaryArtifact, error) {
	m.gotSubject, m.gotMethod = subject, method
	if m.err != nil {
		return nil, m.err
	}
	return m.artifact, nil
}

func (m *mockPipelineService) Extraction(_ context.Context, documentID int64, method string) (*domain.ExtractionArtifact, error) {
	m.gotID, m.gotMethod = documentID, method
	if m.err != nil {
		return nil, m.err
	}
	return m.extraction, nil
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

// mockMeetingStore serves canned meetings.
type mockMeetingStore struct {
	meetings []domain.Meeting
	err      error
}

var _ driven.MeetingStore = (*mockMeetingStore)(nil)

func (m *mockMeetingStore) UpsertMeeting(_ context.Context, _ *domain.Meeting) (bool, error) {
	return false, m.err
}

func (m *mockMeetingStore) GetMeeting(_ context.Context, id int64) (*domain.Meeting, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.meetings {
		if m.meetings[i].ID == id {
			return &m.meetings[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockMeetingStore) ListMeetings(_ context.Context, _ driven.MeetingFilter) ([]domain.Meeting, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.meetings, nil
}

func (m *mockMeetingStore) DeleteMeeting(_ context.Context, _ int64) error {
	return m.err
}

// mockLegislationStore serves canned legislation by record number.
type mockLegislationStore struct {
	legislations []domain.Legislation
	err          error
}

var _ driven.LegislationStore = (*mockLegislationStore)(nil)

func (m *mockLegislationStore) UpsertLegislation(_ context.Context, _ *domain.Legislation) (bool, error) {
	return false, m.err
}

func (m *mockLegislationStore) GetLegislation(_ context.Context, id int64) (*domain.Legislation, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.legislations {
		if m.legislations[i].ID == id {
			return &m.legislations[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockLegislationStore) GetLegislationByRecordNo(_ context.Context, recordNo string) (*domain.Legislation, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.legislations {
		if m.legislations[i].RecordNo == recordNo {
			return &m.legislations[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockLegislationStore) ListLegislation(_ context.Context) ([]domain.Legislation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.legislations, nil
}

func (m *mockLegislationStore) DeleteLegislation(_ context.Context, _ int64) error {
	return m.err
}
