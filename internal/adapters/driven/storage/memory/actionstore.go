package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Ensure ActionStore implements the interface.
var _ driven.ActionStore = (*ActionStore)(nil)

// ActionStore is an in-memory implementation of driven.ActionStore.
type ActionStore struct {
	mu      sync.RWMutex
	nextID  int64
	actions map[int64]domain.Action
}

// NewActionStore creates a new in-memory action store.
func NewActionStore() *ActionStore {
	return &ActionStore{
		actions: make(map[int64]domain.Action),
	}
}

// UpsertAction stores a keyed by its (LegistarID, GUID) pair.
func (s *ActionStore) UpsertAction(_ context.Context, a *domain.Action) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.actions {
		if existing.LegistarID == a.LegistarID && existing.GUID == a.GUID {
			a.ID = id
			s.actions[id] = *a
			return false, nil
		}
	}
	s.nextID++
	a.ID = s.nextID
	s.actions[a.ID] = *a
	return true, nil
}

// ListActionsByRecordNo returns all actions for a record number, oldest first.
func (s *ActionStore) ListActionsByRecordNo(_ context.Context, recordNo string) ([]domain.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Action
	for id := range s.actions {
		a := s.actions[id]
		if a.RecordNo == recordNo {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteActionsByRecordNo removes all actions for a record number.
func (s *ActionStore) DeleteActionsByRecordNo(_ context.Context, recordNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.actions {
		if a.RecordNo == recordNo {
			delete(s.actions, id)
		}
	}
	return nil
}
