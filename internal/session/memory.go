package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps slots in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Slots
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Slots),
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (Slots, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots, ok := s.sessions[id]
	if !ok {
		return Slots{}, ErrNotFound
	}
	return slots.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, id string, slots Slots) error {
	if slots.UpdatedAt.IsZero() {
		slots.UpdatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[id] = slots.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) EvictIdle(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, slots := range s.sessions {
		if slots.UpdatedAt.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted, nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
