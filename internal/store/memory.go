package store

import (
	"context"
	"sync"

	"github.com/hurou927/tag-communities/internal/graph"
)

// Memory is an in-process Store guarded by a RWMutex.
type Memory struct {
	mu     sync.RWMutex
	people graph.Interests
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{people: make(graph.Interests)}
}

func (m *Memory) Replace(_ context.Context, interests graph.Interests) error {
	cp := interests.Clone()
	for name, tags := range cp {
		cp[name] = nonNil(tags)
	}

	m.mu.Lock()
	m.people = cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Upsert(_ context.Context, name string, tags []string) error {
	cp := nonNil(append([]string(nil), tags...))

	m.mu.Lock()
	m.people[name] = cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, name string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tags, ok := m.people[name]
	if !ok {
		return nil, ErrPersonNotFound
	}
	return append([]string{}, tags...), nil
}

func (m *Memory) Snapshot(_ context.Context) (graph.Interests, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.people.Clone(), nil
}

func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.people), nil
}

func (m *Memory) Close() error {
	return nil
}
