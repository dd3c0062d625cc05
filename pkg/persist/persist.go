// Package persist provides the small key-value persistence surface the
// engine uses for user-scoped state, most notably the committed-query
// history that survives restarts.
//
// This package defines a byte-oriented Store interface with implementations
// for different deployment shapes:
//   - memory: in-process storage for development and testing
//   - file: JSON files in a config directory for CLI usage
//   - redis: Redis-backed storage for hosted multi-instance deployments
//
// The engine holds whichever Store the host injected and never knows which
// backend it is talking to.
package persist

import (
	"context"
	"sync"
)

// Store is the interface for persistence backends.
//
// Get returns the stored bytes and true, or nil and false when the key does
// not exist. Absence is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// MemoryStore is an in-process store for development and testing.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Get retrieves a value by key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

// Set stores a value.
func (s *MemoryStore) Set(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.data[key] = stored
	return nil
}

// Delete removes a value. Deleting a missing key is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
