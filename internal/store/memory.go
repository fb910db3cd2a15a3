package store

import (
	"bytes"
	"context"
	"sync"

	"github.com/onkoe/direction/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Store.
// Nothing survives the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte // key -> encoded link
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
	}
}

func (m *MemoryStore) Insert(_ context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[string(key)] = bytes.Clone(value)

	return nil
}

func (m *MemoryStore) InsertIfAbsent(_ context.Context, key, value []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[string(key)]; ok {
		return false, nil
	}

	m.entries[string(key)] = bytes.Clone(value)

	return true, nil
}

func (m *MemoryStore) Get(_ context.Context, key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.entries[string(key)]
	if !ok {
		return nil, false, nil
	}

	return bytes.Clone(value), true, nil
}

// Len returns the number of stored entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// Compile-time check.
var _ shortener.Store = (*MemoryStore)(nil)
