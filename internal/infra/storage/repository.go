// Package storage provides the persistence layer for the pet server.
// Only simple string key-value pairs are persisted: the selected species
// and the equipped outfit image references.
package storage

import (
	"context"
	"sort"
	"sync"
)

// KeyValueStore is the persisted preference store shared by the dress-up
// flow (writer) and the simulation (reader).
type KeyValueStore interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set inserts or replaces a value.
	Set(ctx context.Context, key, value string) error

	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// All returns every stored pair.
	All(ctx context.Context) (map[string]string, error)
}

// MemoryKVStore is an in-process KeyValueStore for tests and ephemeral runs.
type MemoryKVStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKVStore creates an empty store, optionally seeded.
func NewMemoryKVStore(seed map[string]string) *MemoryKVStore {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &MemoryKVStore{values: values}
}

func (m *MemoryKVStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKVStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryKVStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *MemoryKVStore) All(_ context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

// Keys returns the stored keys in sorted order.
func Keys(ctx context.Context, s KeyValueStore) ([]string, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Ensure implementations satisfy KeyValueStore
var (
	_ KeyValueStore = (*MemoryKVStore)(nil)
	_ KeyValueStore = (*SQLiteKVStore)(nil)
)
