package runlog

import (
	"context"
	"iter"
	"sort"
	"sync"
)

// Memory is an in-memory Store implementation backed by a map of encoded
// records. It is safe for concurrent use and intended primarily for testing.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates a new in-memory Store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Put(_ context.Context, rec Record) error {
	data, err := rec.Encode()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[rec.ID] = data
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (Record, error) {
	m.mu.RLock()
	data, ok := m.data[id]
	m.mu.RUnlock()
	if !ok {
		return Record{}, ErrNotFound
	}
	return Decode(data)
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.data, id)
	m.mu.Unlock()
	return nil
}

func (m *Memory) List(_ context.Context) iter.Seq2[Record, error] {
	// Snapshot under read lock, sort for deterministic order.
	m.mu.RLock()
	ids := make([]string, 0, len(m.data))
	snapshot := make(map[string][]byte, len(m.data))
	for id, data := range m.data {
		ids = append(ids, id)
		snapshot[id] = data
	}
	m.mu.RUnlock()
	sort.Strings(ids)

	return func(yield func(Record, error) bool) {
		for _, id := range ids {
			rec, err := Decode(snapshot[id])
			if !yield(rec, err) {
				return
			}
		}
	}
}

func (m *Memory) Close() error {
	return nil
}
