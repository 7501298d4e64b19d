package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencivics/engage/internal/core/domain"
)

func TestArtifactStore_PutAndGetExtraction(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	a, created, err := store.PutExtraction(ctx, &domain.ExtractionArtifact{
		DocumentID: 7,
		Method:     "engage-extractor-1",
		Text:       "ORDINANCE 126955 relating to app-based workers",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), a.ID)
	assert.False(t, a.ExtractedAt.IsZero())

	got, err := store.GetExtraction(ctx, 7, "engage-extractor-1")
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "ORDINANCE 126955 relating to app-based workers", got.Text)

	_, err = store.GetExtraction(ctx, 7, "engage-extractor-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArtifactStore_PutExtraction_FirstWriteWins(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	first, created, err := store.PutExtraction(ctx, &domain.ExtractionArtifact{
		DocumentID: 7,
		Method:     "engage-extractor-1",
		Text:       "first extraction",
	})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := store.PutExtraction(ctx, &domain.ExtractionArtifact{
		DocumentID: 7,
		Method:     "engage-extractor-1",
		Text:       "second extraction",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first extraction", second.Text)
}

func TestArtifactStore_PutAndGetSummary(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	subject := domain.MeetingSubject(7)
	a, created, err := store.PutSummary(ctx, &domain.SummaryArtifact{
		SubjectKind:    subject.Kind,
		SubjectID:      subject.ID,
		Method:         "summarize_meeting_gpt35_concise",
		Body:           "The council passed the ordinance.",
		Headline:       "Council passes ordinance",
		OriginalText:   "original",
		Chunks:         []string{"chunk one", "chunk two"},
		ChunkSummaries: []string{"summary one", "summary two"},
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(1), a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	got, err := store.GetSummary(ctx, subject, "summarize_meeting_gpt35_concise")
	require.NoError(t, err)
	assert.Equal(t, "The council passed the ordinance.", got.Body)
	assert.Equal(t, []string{"chunk one", "chunk two"}, got.Chunks)
	assert.False(t, got.Failed())

	_, err = store.GetSummary(ctx, domain.MeetingSubject(8), "summarize_meeting_gpt35_concise")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArtifactStore_PutSummary_FirstWriteWins(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	subject := domain.LegislationSubject(3)
	first, created, err := store.PutSummary(ctx, &domain.SummaryArtifact{
		SubjectKind: subject.Kind,
		SubjectID:   subject.ID,
		Method:      "summarize_legislation_gpt35_concise",
		Body:        "first body",
	})
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := store.PutSummary(ctx, &domain.SummaryArtifact{
		SubjectKind: subject.Kind,
		SubjectID:   subject.ID,
		Method:      "summarize_legislation_gpt35_concise",
		Body:        "second body",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "first body", second.Body)
}

func TestArtifactStore_ListSummaries_SortedByMethod(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	subject := domain.DocumentSubject(7)
	for _, method := range []string{"summarize_document_gpt35_concise", "summarize_document_gpt35_concise_headline"} {
		_, _, err := store.PutSummary(ctx, &domain.SummaryArtifact{
			SubjectKind: subject.Kind,
			SubjectID:   subject.ID,
			Method:      method,
			Body:        "body for " + method,
		})
		require.NoError(t, err)
	}
	// A different subject must not leak into the listing.
	_, _, err := store.PutSummary(ctx, &domain.SummaryArtifact{
		SubjectKind: domain.SubjectDocument,
		SubjectID:   8,
		Method:      "summarize_document_gpt35_concise",
	})
	require.NoError(t, err)

	summaries, err := store.ListSummaries(ctx, subject)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "summarize_document_gpt35_concise", summaries[0].Method)
	assert.Equal(t, "summarize_document_gpt35_concise_headline", summaries[1].Method)
}

func TestArtifactStore_DeleteArtifactsFor(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	_, _, err := store.PutExtraction(ctx, &domain.ExtractionArtifact{DocumentID: 7, Method: "engage-extractor-1", Text: "text"})
	require.NoError(t, err)
	docSubject := domain.DocumentSubject(7)
	_, _, err = store.PutSummary(ctx, &domain.SummaryArtifact{SubjectKind: docSubject.Kind, SubjectID: docSubject.ID, Method: "summarize_document_gpt35_concise"})
	require.NoError(t, err)
	meetingSubject := domain.MeetingSubject(7)
	_, _, err = store.PutSummary(ctx, &domain.SummaryArtifact{SubjectKind: meetingSubject.Kind, SubjectID: meetingSubject.ID, Method: "summarize_meeting_gpt35_concise"})
	require.NoError(t, err)

	// A meeting subject removes only its own summaries, never
	// extraction artifacts.
	require.NoError(t, store.DeleteArtifactsFor(ctx, meetingSubject))
	_, err = store.GetSummary(ctx, meetingSubject, "summarize_meeting_gpt35_concise")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetExtraction(ctx, 7, "engage-extractor-1")
	assert.NoError(t, err)

	// A document subject removes its extractions too.
	require.NoError(t, store.DeleteArtifactsFor(ctx, docSubject))
	_, err = store.GetExtraction(ctx, 7, "engage-extractor-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetSummary(ctx, docSubject, "summarize_document_gpt35_concise")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	extractions, summaries, err := store.CountArtifacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), extractions)
	assert.Equal(t, int64(0), summaries)
}

func TestArtifactStore_CountArtifacts(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	_, _, err := store.PutExtraction(ctx, &domain.ExtractionArtifact{DocumentID: 7, Method: "engage-extractor-1"})
	require.NoError(t, err)
	_, _, err = store.PutExtraction(ctx, &domain.ExtractionArtifact{DocumentID: 8, Method: "engage-extractor-1"})
	require.NoError(t, err)
	_, _, err = store.PutSummary(ctx, &domain.SummaryArtifact{SubjectKind: domain.SubjectMeeting, SubjectID: 1, Method: "summarize_meeting_gpt35_concise"})
	require.NoError(t, err)

	extractions, summaries, err := store.CountArtifacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), extractions)
	assert.Equal(t, int64(1), summaries)
}

func TestArtifactStore_Concurrency_PutSummarySameKey(t *testing.T) {
	store := NewArtifactStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	numGoroutines := 50
	results := make(chan bool, numGoroutines)

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			_, created, err := store.PutSummary(ctx, &domain.SummaryArtifact{
				SubjectKind: domain.SubjectMeeting,
				SubjectID:   7,
				Method:      "summarize_meeting_gpt35_concise",
				Body:        "racing body",
			})
			if err == nil {
				results <- created
			}
		}()
	}
	wg.Wait()
	close(results)

	createdCount := 0
	for created := range results {
		if created {
			createdCount++
		}
	}
	assert.Equal(t, 1, createdCount)

	_, summaries, err := store.CountArtifacts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summaries)
}
