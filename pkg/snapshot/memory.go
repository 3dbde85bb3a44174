package snapshot

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string][]byte)}
}

// Put stores snap, replacing any snapshot with the same key.
func (s *MemoryStore) Put(ctx context.Context, snap *Snapshot) error {
	if err := ValidateKey(snap.Key); err != nil {
		return err
	}
	// Stored encoded so callers cannot mutate what was put.
	data, err := encode(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snaps[snap.Key] = data
	s.mu.Unlock()
	return nil
}

// Get returns the snapshot stored under key.
func (s *MemoryStore) Get(ctx context.Context, key string) (*Snapshot, error) {
	s.mu.RLock()
	data, ok := s.snaps[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(key, data)
}

// Delete removes the snapshot stored under key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snaps[key]; !ok {
		return ErrNotFound
	}
	delete(s.snaps, key)
	return nil
}

// List returns the stored keys in sorted order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.snaps))
	for key := range s.snaps {
		keys = append(keys, key)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}
