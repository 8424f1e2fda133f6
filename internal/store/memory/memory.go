package memory

import (
	"context"
	"sync"
)

// Store is an in-process Gateway. Nothing survives a restart.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// New creates an empty memory store.
func New() *Store {
	return &Store{
		values: make(map[string]string),
	}
}

// Load returns the value stored under key.
func (s *Store) Load(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Save overwrites the value stored under key.
func (s *Store) Save(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// ClearAll drops every key.
func (s *Store) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string]string)
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}
