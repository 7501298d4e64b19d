package memory

import (
	"context"
	"sync"
	"time"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu               sync.RWMutex
	nextID           int64
	documents        map[int64]domain.Document
	byURL            map[string]int64
	meetingLinks     map[int64][]int64
	legislationLinks map[int64][]int64
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents:        make(map[int64]domain.Document),
		byURL:            make(map[string]int64),
		meetingLinks:     make(map[int64][]int64),
		legislationLinks: make(map[int64][]int64),
	}
}

// CreateDocument inserts doc unless its URL is already stored, in which
// case the existing row is returned with created false.
func (s *DocumentStore) CreateDocument(_ context.Context, doc *domain.Document) (*domain.Document, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byURL[doc.URL]; ok {
		existing := s.documents[id]
		return &existing, false, nil
	}
	s.nextID++
	stored := *doc
	stored.ID = s.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	s.documents[stored.ID] = stored
	s.byURL[stored.URL] = stored.ID
	return &stored, true, nil
}

// GetDocument retrieves a document by row id.
func (s *DocumentStore) GetDocument(_ context.Context, id int64) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// GetDocumentByURL retrieves a document by its source URL.
func (s *DocumentStore) GetDocumentByURL(_ context.Context, url string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byURL[url]
	if !ok {
		return nil, domain.ErrNotFound
	}
	doc := s.documents[id]
	return &doc, nil
}

// LinkMeetingDocument associates a document with a meeting.
func (s *DocumentStore) LinkMeetingDocument(_ context.Context, meetingID, documentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetingLinks[meetingID] = appendLink(s.meetingLinks[meetingID], documentID)
	return nil
}

// LinkLegislationDocument associates a document with a legislation.
func (s *DocumentStore) LinkLegislationDocument(_ context.Context, legislationID, documentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.legislationLinks[legislationID] = appendLink(s.legislationLinks[legislationID], documentID)
	return nil
}

// ListMeetingDocuments returns a meeting's documents in link order.
func (s *DocumentStore) ListMeetingDocuments(_ context.Context, meetingID int64) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.meetingLinks[meetingID]), nil
}

// ListLegislationDocuments returns a legislation's documents in link order.
func (s *DocumentStore) ListLegislationDocuments(_ context.Context, legislationID int64) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(s.legislationLinks[legislationID]), nil
}

// DeleteDocument removes a document and its links.
func (s *DocumentStore) DeleteDocument(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil
	}
	delete(s.documents, id)
	delete(s.byURL, doc.URL)
	for owner, links := range s.meetingLinks {
		s.meetingLinks[owner] = removeLink(links, id)
	}
	for owner, links := range s.legislationLinks {
		s.legislationLinks[owner] = removeLink(links, id)
	}
	return nil
}

// CountDocuments returns the number of stored documents.
func (s *DocumentStore) CountDocuments(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.documents)), nil
}

func (s *DocumentStore) collect(ids []int64) []domain.Document {
	var result []domain.Document
	for _, id := range ids {
		if doc, ok := s.documents[id]; ok {
			result = append(result, doc)
		}
	}
	return result
}

func appendLink(links []int64, id int64) []int64 {
	for _, existing := range links {
		if existing == id {
			return links
		}
	}
	return append(links, id)
}

func removeLink(links []int64, id int64) []int64 {
	for i, existing := range links {
		if existing == id {
			return append(links[:i], links[i+1:]...)
		}
	}
	return links
}
