package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

type extractionKey struct {
	documentID int64
	method     string
}

type summaryKey struct {
	subjectKind domain.SubjectKind
	subjectID   int64
	method      string
}

// ArtifactStore is an in-memory implementation of driven.ArtifactStore.
// Puts are first-write-wins, matching the unique indexes the SQLite
// store relies on.
type ArtifactStore struct {
	mu               sync.RWMutex
	nextExtractionID int64
	nextSummaryID    int64
	extractions      map[extractionKey]domain.ExtractionArtifact
	summaries        map[summaryKey]domain.SummaryArtifact
}

// NewArtifactStore creates a new in-memory artifact store.
func NewArtifactStore() *ArtifactStore {
	return &ArtifactStore{
		extractions: make(map[extractionKey]domain.ExtractionArtifact),
		summaries:   make(map[summaryKey]domain.SummaryArtifact),
	}
}

// GetExtraction retrieves the artifact for a (document, method) pair.
func (s *ArtifactStore) GetExtraction(_ context.Context, documentID int64, method string) (*domain.ExtractionArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.extractions[extractionKey{documentID: documentID, method: method}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

// PutExtraction inserts a unless the (document, method) pair is taken.
func (s *ArtifactStore) PutExtraction(_ context.Context, a *domain.ExtractionArtifact) (*domain.ExtractionArtifact, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := extractionKey{documentID: a.DocumentID, method: a.Method}
	if existing, ok := s.extractions[key]; ok {
		return &existing, false, nil
	}
	s.nextExtractionID++
	stored := *a
	stored.ID = s.nextExtractionID
	if stored.ExtractedAt.IsZero() {
		stored.ExtractedAt = time.Now().UTC()
	}
	s.extractions[key] = stored
	return &stored, true, nil
}

// GetSummary retrieves the artifact for a (subject, method) pair.
func (s *ArtifactStore) GetSummary(_ context.Context, subject domain.Subject, method string) (*domain.SummaryArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.summaries[summaryKey{subjectKind: subject.Kind, subjectID: subject.ID, method: method}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

// PutSummary inserts a unless the (subject, method) pair is taken.
func (s *ArtifactStore) PutSummary(_ context.Context, a *domain.SummaryArtifact) (*domain.SummaryArtifact, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := summaryKey{subjectKind: a.SubjectKind, subjectID: a.SubjectID, method: a.Method}
	if existing, ok := s.summaries[key]; ok {
		return &existing, false, nil
	}
	s.nextSummaryID++
	stored := *a
	stored.ID = s.nextSummaryID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.summaries[key] = stored
	return &stored, true, nil
}

// ListSummaries returns all summary artifacts for a subject, ordered
// by method.
func (s *ArtifactStore) ListSummaries(_ context.Context, subject domain.Subject) ([]domain.SummaryArtifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.SummaryArtifact
	for key := range s.summaries {
		if key.subjectKind == subject.Kind && key.subjectID == subject.ID {
			result = append(result, s.summaries[key])
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Method < result[j].Method
	})
	return result, nil
}

// DeleteArtifactsFor removes all artifacts keyed by the subject.
func (s *ArtifactStore) DeleteArtifactsFor(_ context.Context, subject domain.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.summaries {
		if key.subjectKind == subject.Kind && key.subjectID == subject.ID {
			delete(s.summaries, key)
		}
	}
	if subject.Kind == domain.SubjectDocument {
		for key := range s.extractions {
			if key.documentID == subject.ID {
				delete(s.extractions, key)
			}
		}
	}
	return nil
}

// CountArtifacts returns the number of stored artifacts.
func (s *ArtifactStore) CountArtifacts(_ context.Context) (int64, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.extractions)), int64(len(s.summaries)), nil
}
