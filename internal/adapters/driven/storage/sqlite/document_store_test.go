package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivics/engage/internal/core/domain"
)

func TestDocumentStore_CreateAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()

	doc := createTestDocument(t, store, "https://seattle.legistar.com/View.ashx?M=A&ID=1085011", domain.DocumentKindAgenda)
	require.NotZero(t, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())

	got, err := docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.URL, got.URL)
	assert.Equal(t, domain.DocumentKindAgenda, got.Kind)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, "application/pdf", got.MIMEType)
	assert.Equal(t, doc.BlobRef, got.BlobRef)
	assert.Equal(t, int64(2048), got.Size)

	byURL, err := docs.GetDocumentByURL(ctx, doc.URL)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, byURL.ID)
}

func TestDocumentStore_Create_SameURLReturnsExisting(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()

	url := "https://seattle.legistar.com/View.ashx?M=M&ID=1085011"
	first, created, err := docs.CreateDocument(ctx, &domain.Document{
		URL: url, Kind: domain.DocumentKindMinutes, Title: "first title",
	})
	require.NoError(t, err)
	require.True(t, created)

	// The losing write keeps the winner's row untouched
	second, created, err := docs.CreateDocument(ctx, &domain.Document{
		URL: url, Kind: domain.DocumentKindMinutes, Title: "second title",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first title", second.Title)

	count, err := docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDocumentStore_Get_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()

	_, err := docs.GetDocument(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = docs.GetDocumentByURL(ctx, "https://seattle.legistar.com/nowhere")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_MeetingLinks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()

	m := newTestMeeting(1085011, "AA59051C")
	_, err := store.MeetingStore().UpsertMeeting(ctx, m)
	require.NoError(t, err)

	agenda := createTestDocument(t, store, "https://example.com/agenda.pdf", domain.DocumentKindAgenda)
	minutes := createTestDocument(t, store, "https://example.com/minutes.pdf", domain.DocumentKindMinutes)

	require.NoError(t, docs.LinkMeetingDocument(ctx, m.ID, agenda.ID))
	require.NoError(t, docs.LinkMeetingDocument(ctx, m.ID, minutes.ID))
	// Re-linking the same pair is a no-op
	require.NoError(t, docs.LinkMeetingDocument(ctx, m.ID, agenda.ID))

	linked, err := docs.ListMeetingDocuments(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	assert.Equal(t, agenda.ID, linked[0].ID)
	assert.Equal(t, minutes.ID, linked[1].ID)
}

func TestDocumentStore_LegislationLinks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()

	l := newTestLegislation(6071351, "F3E9C728", "CB 120537")
	_, err := store.LegislationStore().UpsertLegislation(ctx, l)
	require.NoError(t, err)

	attachment := createTestDocument(t, store, "https://example.com/fiscal-note.pdf", domain.DocumentKindAttachment)
	require.NoError(t, docs.LinkLegislationDocument(ctx, l.ID, attachment.ID))

	linked, err := docs.ListLegislationDocuments(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, attachment.ID, linked[0].ID)

	// Unlinked legislation has no documents
	other := newTestLegislation(6071352, "AB12CD34", "Res 32078")
	_, err = store.LegislationStore().UpsertLegislation(ctx, other)
	require.NoError(t, err)

	none, err := docs.ListLegislationDocuments(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDocumentStore_DeleteCascades(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()
	artifacts := store.ArtifactStore()

	m := newTestMeeting(1085011, "AA59051C")
	_, err := store.MeetingStore().UpsertMeeting(ctx, m)
	require.NoError(t, err)

	doc := createTestDocument(t, store, "https://example.com/agenda.pdf", domain.DocumentKindAgenda)
	require.NoError(t, docs.LinkMeetingDocument(ctx, m.ID, doc.ID))

	_, _, err = artifacts.PutExtraction(ctx, &domain.ExtractionArtifact{
		DocumentID: doc.ID,
		Method:     "engage-extractor-1",
		Text:       "extracted text",
	})
	require.NoError(t, err)

	require.NoError(t, docs.DeleteDocument(ctx, doc.ID))

	_, err = docs.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	linked, err := docs.ListMeetingDocuments(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)

	_, err = artifacts.GetExtraction(ctx, doc.ID, "engage-extractor-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_MeetingDeleteCascadesLinks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()

	m := newTestMeeting(1085011, "AA59051C")
	_, err := store.MeetingStore().UpsertMeeting(ctx, m)
	require.NoError(t, err)

	doc := createTestDocument(t, store, "https://example.com/agenda.pdf", domain.DocumentKindAgenda)
	require.NoError(t, docs.LinkMeetingDocument(ctx, m.ID, doc.ID))

	require.NoError(t, store.MeetingStore().DeleteMeeting(ctx, m.ID))

	// The link row is gone but the document itself survives
	var links int64
	err = store.db.QueryRow("SELECT COUNT(*) FROM meeting_documents").Scan(&links)
	require.NoError(t, err)
	assert.Zero(t, links)

	_, err = docs.GetDocument(ctx, doc.ID)
	assert.NoError(t, err)
}

func TestDocumentStore_CountDocuments(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	docs := store.DocumentStore()

	count, err := docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	createTestDocument(t, store, "https://example.com/a.pdf", domain.DocumentKindAgenda)
	createTestDocument(t, store, "https://example.com/b.pdf", domain.DocumentKindMinutes)

	count, err = docs.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
