package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Ensure LegislationStore implements the interface.
var _ driven.LegislationStore = (*LegislationStore)(nil)

// LegislationStore is an in-memory implementation of driven.LegislationStore.
type LegislationStore struct {
	mu          sync.RWMutex
	nextID      int64
	legislation map[int64]domain.Legislation
}

// NewLegislationStore creates a new in-memory legislation store.
func NewLegislationStore() *LegislationStore {
	return &LegislationStore{
		legislation: make(map[int64]domain.Legislation),
	}
}

// UpsertLegislation stores l keyed by its (LegistarID, GUID) pair.
func (s *LegislationStore) UpsertLegislation(_ context.Context, l *domain.Legislation) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.legislation {
		if existing.LegistarID == l.LegistarID && existing.GUID == l.GUID {
			l.ID = id
			s.legislation[id] = *l
			return false, nil
		}
	}
	s.nextID++
	l.ID = s.nextID
	s.legislation[l.ID] = *l
	return true, nil
}

// GetLegislation retrieves legislation by row id.
func (s *LegislationStore) GetLegislation(_ context.Context, id int64) (*domain.Legislation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.legislation[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &l, nil
}

// GetLegislationByRecordNo retrieves legislation by record number.
func (s *LegislationStore) GetLegislationByRecordNo(_ context.Context, recordNo string) (*domain.Legislation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var match *domain.Legislation
	for id := range s.legislation {
		l := s.legislation[id]
		if l.RecordNo != recordNo {
			continue
		}
		if match == nil || l.ID < match.ID {
			match = &l
		}
	}
	if match == nil {
		return nil, domain.ErrNotFound
	}
	return match, nil
}

// ListLegislation returns all stored legislation, oldest first.
func (s *LegislationStore) ListLegislation(_ context.Context) ([]domain.Legislation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Legislation
	for id := range s.legislation {
		result = append(result, s.legislation[id])
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteLegislation removes a legislation row.
func (s *LegislationStore) DeleteLegislation(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.legislation, id)
	return nil
}
