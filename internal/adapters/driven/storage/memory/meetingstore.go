package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/opencivics/engage/internal/core/domain"
	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Ensure MeetingStore implements the interface.
var _ driven.MeetingStore = (*MeetingStore)(nil)

// MeetingStore is an in-memory implementation of driven.MeetingStore.
type MeetingStore struct {
	mu       sync.RWMutex
	nextID   int64
	meetings map[int64]domain.Meeting
}

// NewMeetingStore creates a new in-memory meeting store.
func NewMeetingStore() *MeetingStore {
	return &MeetingStore{
		meetings: make(map[int64]domain.Meeting),
	}
}

// UpsertMeeting stores m keyed by its (LegistarID, GUID) pair.
func (s *MeetingStore) UpsertMeeting(_ context.Context, m *domain.Meeting) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, existing := range s.meetings {
		if existing.LegistarID == m.LegistarID && existing.GUID == m.GUID {
			m.ID = id
			s.meetings[id] = *m
			return false, nil
		}
	}
	s.nextID++
	m.ID = s.nextID
	s.meetings[m.ID] = *m
	return true, nil
}

// GetMeeting retrieves a meeting by row id.
func (s *MeetingStore) GetMeeting(_ context.Context, id int64) (*domain.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meetings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

// ListMeetings returns meetings matching the filter, oldest first.
func (s *MeetingStore) ListMeetings(_ context.Context, f driven.MeetingFilter) ([]domain.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.Meeting
	for id := range s.meetings {
		m := s.meetings[id]
		if f.ActiveOnly && m.IsCanceled() {
			continue
		}
		if f.Before != nil && !m.Date.Before(*f.Before) {
			continue
		}
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteMeeting removes a meeting.
func (s *MeetingStore) DeleteMeeting(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.meetings, id)
	return nil
}
