package cache

import (
	"context"
	"sync"
)

// InMemoryStore is a thread-safe in-memory implementation of Store.
//
// It is the default backend for tests and single-process deployments.
// The store is optimized for read-heavy workloads using sync.RWMutex.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string]string)}
}

// Get retrieves the value for a key.
func (s *InMemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores the value for a key, overwriting any previous value.
func (s *InMemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Keys returns all keys currently in the store.
func (s *InMemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// DeleteMany removes the given keys. Missing keys are ignored.
func (s *InMemoryStore) DeleteMany(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

// Len reports the number of stored keys. Intended for tests.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
