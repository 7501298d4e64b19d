package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivics/engage/internal/adapters/driven/blob/fileblob"
	"github.com/opencivics/engage/internal/adapters/driven/storage/memory"
	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
	"github.com/opencivics/engage/internal/core/ports/driving"
)

// scriptedFetcher serves canned pages and records every fetched URL.
type scriptedFetcher struct {
	mu      sync.Mutex
	pages   map[string]fetchedPage
	fetched []string
}

type fetchedPage struct {
	data []byte
	mime string
}

func (f *scriptedFetcher) Fetch(_ context.Context, url string) ([]byte, string, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.mu.Unlock()
	page, ok := f.pages[url]
	if !ok {
		return nil, "", &domain.FetchError{URL: url, Status: 404}
	}
	return page.data, page.mime, nil
}

func (f *scriptedFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetched)
}

// Ensure the test double satisfies the port.
var _ driven.Fetcher = (*scriptedFetcher)(nil)

type ingestFixture struct {
	meetings     *memory.MeetingStore
	legislations *memory.LegislationStore
	actions      *memory.ActionStore
	documents    *memory.DocumentStore
	blobs        *fileblob.Store
	fetcher      *scriptedFetcher
	service      *IngestService
}

func newIngestFixture(t *testing.T) *ingestFixture {
	t.Helper()
	blobs, err := fileblob.NewStore(t.TempDir())
	require.NoError(t, err)

	f := &ingestFixture{
		meetings:     memory.NewMeetingStore(),
		legislations: memory.NewLegislationStore(),
		actions:      memory.NewActionStore(),
		documents:    memory.NewDocumentStore(),
		blobs:        blobs,
		fetcher:      &scriptedFetcher{pages: make(map[string]fetchedPage)},
	}
	f.service = NewIngestService(f.meetings, f.legislations, f.actions, f.documents, f.blobs, f.fetcher)
	return f
}

func (f *ingestFixture) servePage(url string, data, mime string) {
	f.fetcher.pages[url] = fetchedPage{data: []byte(data), mime: mime}
}

func testMeeting() *domain.Meeting {
	at := time.Date(2023, 4, 18, 14, 0, 0, 0, time.UTC)
	return &domain.Meeting{
		LegistarID:   5001,
		GUID:         "GUID-MTG-5001",
		URL:          "https://example.legistar.com/MeetingDetail.aspx?ID=5001&GUID=GUID-MTG-5001",
		Department:   domain.Link{Name: "City Council"},
		AgendaStatus: "Final",
		Date:         at,
		Time:         &at,
		Location:     "Council Chamber",
		Agenda:       domain.Link{Name: "Agenda", URL: "https://example.legistar.com/View.ashx?M=A&ID=5001"},
		AgendaPacket: &domain.Link{Name: "Agenda Packet", URL: "https://example.legistar.com/View.ashx?M=AP&ID=5001"},
		Minutes:      &domain.Link{Name: "Minutes", URL: "https://example.legistar.com/View.ashx?M=M&ID=5001"},
		Attachments:  []domain.Link{{Name: "Seating Chart", URL: "https://example.legistar.com/seating.pdf"}},
	}
}

func TestIngestService_Calendar(t *testing.T) {
	f := newIngestFixture(t)

	result, err := f.service.IngestEntity(context.Background(), &domain.Calendar{})
	require.NoError(t, err)
	assert.Equal(t, &driving.IngestResult{}, result)
	assert.Zero(t, f.fetcher.fetchCount())
}

func TestIngestService_Meeting(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()
	m := testMeeting()
	f.servePage(m.Agenda.URL, "agenda bytes", "application/pdf")
	f.servePage(m.AgendaPacket.URL, "packet bytes", "application/pdf")
	f.servePage(m.Minutes.URL, "minutes bytes", "application/pdf")
	f.servePage(m.Attachments[0].URL, "seating bytes", "application/pdf")

	result, err := f.service.IngestEntity(ctx, m)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.False(t, result.Updated)
	assert.Equal(t, 4, result.DocumentsCreated)
	assert.Equal(t, 4, f.fetcher.fetchCount())

	docs, err := f.documents.ListMeetingDocuments(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, docs, 4)

	assert.Equal(t, "meeting-5001-agenda-Agenda", docs[0].Title)
	assert.Equal(t, domain.DocumentKindAgenda, docs[0].Kind)
	assert.Equal(t, "meeting-5001-packet-Agenda Packet", docs[1].Title)
	assert.Equal(t, domain.DocumentKindAgendaPacket, docs[1].Kind)
	assert.Equal(t, "meeting-5001-minutes-Minutes", docs[2].Title)
	assert.Equal(t, domain.DocumentKindMinutes, docs[2].Kind)
	assert.Equal(t, "meeting-5001-attachment-Seating Chart", docs[3].Title)
	assert.Equal(t, domain.DocumentKindAttachment, docs[3].Kind)

	data, err := f.blobs.Get(ctx, docs[2].BlobRef)
	require.NoError(t, err)
	assert.Equal(t, "minutes bytes", string(data))
	assert.Equal(t, "application/pdf", docs[2].MIMEType)
	assert.Equal(t, int64(len("minutes bytes")), docs[2].Size)
}

func TestIngestService_Meeting_SecondIngestRefetchesNothing(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()
	m := testMeeting()
	f.servePage(m.Agenda.URL, "agenda bytes", "application/pdf")
	f.servePage(m.AgendaPacket.URL, "packet bytes", "application/pdf")
	f.servePage(m.Minutes.URL, "minutes bytes", "application/pdf")
	f.servePage(m.Attachments[0].URL, "seating bytes", "application/pdf")

	_, err := f.service.IngestEntity(ctx, m)
	require.NoError(t, err)

	recrawled := testMeeting()
	recrawled.AgendaStatus = "Revised"
	result, err := f.service.IngestEntity(ctx, recrawled)
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.True(t, result.Updated)
	assert.Equal(t, 0, result.DocumentsCreated)
	assert.Equal(t, 4, f.fetcher.fetchCount())

	stored, err := f.meetings.GetMeeting(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Revised", stored.AgendaStatus)

	count, err := f.documents.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestIngestService_Meeting_SkipsMissingLinks(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()
	at := time.Date(2023, 4, 18, 14, 0, 0, 0, time.UTC)
	m := &domain.Meeting{
		LegistarID: 5002,
		GUID:       "GUID-MTG-5002",
		Department: domain.Link{Name: "City Council"},
		Date:       at,
		Time:       &at,
		Agenda:     domain.Link{Name: "Agenda", URL: "https://example.legistar.com/View.ashx?M=A&ID=5002"},
	}
	f.servePage(m.Agenda.URL, "agenda bytes", "application/pdf")

	result, err := f.service.IngestEntity(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, 1, result.DocumentsCreated)

	docs, err := f.documents.ListMeetingDocuments(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, domain.DocumentKindAgenda, docs[0].Kind)
}

func TestIngestService_Meeting_SharedAttachmentURL(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()
	at := time.Date(2023, 4, 18, 14, 0, 0, 0, time.UTC)
	shared := "https://example.legistar.com/shared.pdf"
	f.servePage(shared, "shared bytes", "application/pdf")

	first := &domain.Meeting{
		LegistarID: 5003, GUID: "GUID-MTG-5003",
		Date: at, Time: &at,
		Attachments: []domain.Link{{Name: "Report", URL: shared}},
	}
	second := &domain.Meeting{
		LegistarID: 5004, GUID: "GUID-MTG-5004",
		Date: at, Time: &at,
		Attachments: []domain.Link{{Name: "Report", URL: shared}},
	}

	result, err := f.service.IngestEntity(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, result.DocumentsCreated)

	result, err = f.service.IngestEntity(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 0, result.DocumentsCreated)
	assert.Equal(t, 1, f.fetcher.fetchCount())

	// Both meetings link the same row.
	docsFirst, err := f.documents.ListMeetingDocuments(ctx, first.ID)
	require.NoError(t, err)
	docsSecond, err := f.documents.ListMeetingDocuments(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, docsFirst, 1)
	require.Len(t, docsSecond, 1)
	assert.Equal(t, docsFirst[0].ID, docsSecond[0].ID)
}

func TestIngestService_Legislation(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()
	l := &domain.Legislation{
		LegistarID: 13001,
		GUID:       "GUID-LEG-13001",
		RecordNo:   "CB 120537",
		Title:      "An ordinance",
		Attachments: []domain.Link{
			{Name: "Att A", URL: "https://example.legistar.com/att-a.pdf"},
		},
		SupportingDocuments: []domain.Link{
			{Name: "Summary and Fiscal Note", URL: "https://example.legistar.com/fiscal.docx"},
		},
	}
	f.servePage(l.Attachments[0].URL, "att bytes", "application/pdf")
	f.servePage(l.SupportingDocuments[0].URL, "fiscal bytes", "application/pdf")

	result, err := f.service.IngestEntity(ctx, l)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, 2, result.DocumentsCreated)

	docs, err := f.documents.ListLegislationDocuments(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "legislation-13001-attachment-Att A", docs[0].Title)
	assert.Equal(t, domain.DocumentKindAttachment, docs[0].Kind)
	assert.Equal(t, "legislation-13001-supporting-Summary and Fiscal Note", docs[1].Title)
	assert.Equal(t, domain.DocumentKindSupportingDocument, docs[1].Kind)
}

func TestIngestService_Action(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()
	a := &domain.Action{
		LegistarID: 21001,
		GUID:       "GUID-ACT-21001",
		RecordNo:   "CB 120537",
		ActionName: "pass",
		Result:     "Pass",
	}

	result, err := f.service.IngestEntity(ctx, a)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Zero(t, result.DocumentsCreated)
	assert.Zero(t, f.fetcher.fetchCount())

	result, err = f.service.IngestEntity(ctx, a)
	require.NoError(t, err)
	assert.True(t, result.Updated)

	acts, err := f.actions.ListActionsByRecordNo(ctx, "CB 120537")
	require.NoError(t, err)
	assert.Len(t, acts, 1)
}

func TestIngestService_FetchFailurePropagates(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()
	m := testMeeting()
	// No pages are served; the first document fetch fails.

	_, err := f.service.IngestEntity(ctx, m)
	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, m.Agenda.URL, fetchErr.URL)

	// The meeting row itself was stored before its documents.
	_, err = f.meetings.GetMeeting(ctx, m.ID)
	assert.NoError(t, err)
}

func TestIngestService_IngestFile(t *testing.T) {
	f := newIngestFixture(t)
	ctx := context.Background()

	doc, err := f.service.IngestFile(ctx, "file:///drop/report.txt", "report.txt", []byte("report body"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentKindSupportingDocument, doc.Kind)
	assert.Equal(t, "report.txt", doc.Title)
	assert.Equal(t, "text/plain", doc.MIMEType)

	data, err := f.blobs.Get(ctx, doc.BlobRef)
	require.NoError(t, err)
	assert.Equal(t, "report body", string(data))

	// A second drop of the same path is a no-op.
	again, err := f.service.IngestFile(ctx, "file:///drop/report.txt", "report.txt", []byte("report body"), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, again.ID)

	count, err := f.documents.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIngestService_IngestFile_EmptyURL(t *testing.T) {
	f := newIngestFixture(t)

	_, err := f.service.IngestFile(context.Background(), "", "x", []byte("x"), "text/plain")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
