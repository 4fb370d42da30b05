package answerkey

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("answer key not found")

// Store persists encoded entries keyed by variant number.
type Store interface {
	Put(ctx context.Context, e Entry) error
	Get(ctx context.Context, variantNumber int) (Entry, error)
	List(ctx context.Context) ([]Entry, error)
	// Replace swaps the whole key set, so a generation run or an import
	// never leaves stale variants behind.
	Replace(ctx context.Context, entries []Entry) error
}

type memoryStore struct {
	mu      sync.RWMutex
	entries map[int]Entry
}

// NewMemoryStore returns a map-backed Store for tests and single-session use.
func NewMemoryStore() Store {
	return &memoryStore{entries: map[int]Entry{}}
}

func (m *memoryStore) Put(_ context.Context, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.VariantNumber] = e
	return nil
}

func (m *memoryStore) Get(_ context.Context, variantNumber int) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[variantNumber]
	if !ok {
		return Entry{}, fmt.Errorf("variant %d: %w", variantNumber, ErrNotFound)
	}
	return e, nil
}

func (m *memoryStore) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VariantNumber < out[j].VariantNumber })
	return out, nil
}

func (m *memoryStore) Replace(_ context.Context, entries []Entry) error {
	next := make(map[int]Entry, len(entries))
	for _, e := range entries {
		next[e.VariantNumber] = e
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = next
	return nil
}
