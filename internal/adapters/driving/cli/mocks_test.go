package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driving"
)

// setupServices swaps the package service vars for mocks, returning a
// restore func for defer.
func setupServices(s *Services) func() {
	old := &Services{
		Crawl:        crawlService,
		Pipeline:     pipelineService,
		Ingest:       ingestService,
		Prune:        pruneService,
		Status:       statusService,
		Settings:     settingsService,
		Meetings:     meetingStore,
		Legislations: legislationStore,
	}
	SetServices(s)
	return func() { SetServices(old) }
}

// executeCommand runs the root command with args, capturing output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// mockCrawlService returns canned crawl stats.
type mockCrawlService struct {
	stats    *driving.CrawlStats
	err      error
	gotStart *time.Time
}

var _ driving.CrawlService = (*mockCrawlService)(nil)

func (m *mockCrawlService) Crawl(_ context.Context, start *time.Time) (*driving.CrawlStats, error) {
	m.gotStart = start
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

// mockPipelineService returns canned pairs and batch stats, recording
// the arguments of the last call.
type mockPipelineService struct {
	pair       *driving.SummaryPair
	batch      *driving.BatchStats
	artifact   *domain.SummaryArtifact
	extraction *domain.ExtractionArtifact
	err        error

	gotID     int64
	gotConfig string
}

var _ driving.PipelineService = (*mockPipelineService)(nil)

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
	return m.pair, nil
}

func (m *mockPipelineService) SummarizeLegislation(_ context.Context, legislationID int64, configName string) (*driving.SummaryPair, error) {
	m.gotID, m.gotConfig = legislationID, configName
	if m.err != nil {
		return nil, m.err
	}
	return m.pair, nil
}

func (m *mockPipelineService) SummarizeMeeting(_ context.Context, meetingID int64, configName string) (*driving.SummaryPair, error) {
	m.gotID, m.gotConfig = meetingID, configName
	if m.err != nil {
		return nil, m.err
	}
	return m.pair, nil
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
	m.gotID = subject.ID
	if m.err != nil {
		return nil, m.err
	}
	return m.artifact, nil
}

func (m *mockPipelineService) Extraction(_ context.Context, documentID int64, _ string) (*domain.ExtractionArtifact, error) {
	m.gotID = documentID
	if m.err != nil {
		return nil, m.err
	}
	return m.extraction, nil
}

// mockPruneService returns canned prune stats.
type mockPruneService struct {
	stats   *driving.PruneStats
	err     error
	gotDays int
}

var _ driving.PruneService = (*mockPruneService)(nil)

func (m *mockPruneService) PruneMeetings(_ context.Context, days int) (*driving.PruneStats, error) {
	m.gotDays = days
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
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

// mockIngestService returns canned ingest results.
type mockIngestService struct {
	result *driving.IngestResult
	doc    *domain.Document
	err    error
}

var _ driving.IngestService = (*mockIngestService)(nil)

func (m *mockIngestService) IngestEntity(_ context.Context, _ domain.Entity) (*driving.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockIngestService) IngestFile(_ context.Context, _, _ string, _ []byte, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.doc, nil
}

// mockSettingsService serves and records settings.
type mockSettingsService struct {
	settings *domain.AppSettings
	err      error

	saved       *domain.AppSettings
	gotProvider domain.AIProvider
	gotModel    string
	gotAPIKey   string
	gotCustomer string

	validateErr    error
	validateLLMErr error
}

var _ driving.SettingsService = (*mockSettingsService)(nil)

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.settings, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.saved = settings
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.gotProvider, m.gotModel, m.gotAPIKey = provider, model, apiKey
	return m.err
}

func (m *mockSettingsService) SetCustomer(customer string) error {
	m.gotCustomer = customer
	return m.err
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.validateLLMErr
}
