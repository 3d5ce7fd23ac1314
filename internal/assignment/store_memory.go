package assignment

import (
	"context"
	"sync"

	"compass/pkg/domain"
)

type memoryKey struct {
	userID domain.UserID
	window domain.TimeWindow
}

// MemoryStore keeps assignments in memory, append-only per key. Used in
// tests and local wiring.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[memoryKey][]Assignment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[memoryKey][]Assignment)}
}

func (s *MemoryStore) Save(_ context.Context, a Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{userID: a.UserID, window: a.TimeWindow}
	s.records[key] = append(s.records[key], a)
	return nil
}

func (s *MemoryStore) FindLatest(_ context.Context, userID domain.UserID, window domain.TimeWindow) (Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.records[memoryKey{userID: userID, window: window}]
	if len(history) == 0 {
		return Assignment{}, ErrNotFound
	}

	latest := history[0]
	for _, a := range history[1:] {
		if a.AssignedAt.After(latest.AssignedAt) {
			latest = a
		}
	}
	return latest, nil
}
