package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned by KV.Get when the key holds no record.
var ErrNotFound = errors.New("store: record not found")

// KV is the byte store the journal is persisted to. Keys are slash separated
// paths such as "@kcal/2024-01".
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte) error
	// Erase removes key. Erasing a missing key is not an error.
	Erase(key string) error
	Keys(ctx context.Context) ([]string, error)
}

// NewMemoryKV returns a KV that keeps records in memory. It cannot be
// watched.
func NewMemoryKV() KV {
	return &memoryKV{records: make(map[string][]byte)}
}

type memoryKV struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func (m *memoryKV) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *memoryKV) Set(key string, val []byte) error {
	stored := make([]byte, len(val))
	copy(stored, val)
	m.mu.Lock()
	m.records[key] = stored
	m.mu.Unlock()
	return nil
}

func (m *memoryKV) Erase(key string) error {
	m.mu.Lock()
	delete(m.records, key)
	m.mu.Unlock()
	return nil
}

func (m *memoryKV) Keys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.records))
	for k := range m.records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
