package storage

import (
	"context"
	"sync"

	"SportsFeed/internal/ports"
)

// MemoryStore keeps state in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu    sync.RWMutex
	state map[string][]byte
}

var _ ports.StateStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: make(map[string][]byte)}
}

// Load returns a copy of the bytes saved under key.
func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.state[key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Save replaces the bytes under key.
func (s *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state[key] = append([]byte(nil), data...)
	return nil
}
