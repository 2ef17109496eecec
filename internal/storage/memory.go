package storage

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// Memory keeps entries in process memory.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
	hub     *Hub
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string][]byte),
		hub:     NewHub(),
	}
}

func (m *Memory) All(ctx context.Context) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte, len(m.entries))
	for k, v := range m.entries {
		out[k] = slices.Clone(v)
	}
	return out, nil
}

func (m *Memory) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[name]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *Memory) Set(ctx context.Context, name string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[name] = slices.Clone(value)
	m.mu.Unlock()

	m.hub.Notify()
	return nil
}

func (m *Memory) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	_, ok := m.entries[name]
	delete(m.entries, name)
	m.mu.Unlock()

	if ok {
		m.hub.Notify()
	}
	return nil
}

func (m *Memory) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	clear(m.entries)
	m.mu.Unlock()

	m.hub.Notify()
	return nil
}

func (m *Memory) Watch(ctx context.Context) (<-chan struct{}, error) {
	return m.hub.Subscribe(ctx), nil
}

// Keys returns the stored names in sorted order.
func (m *Memory) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.entries))
}

func (m *Memory) Close() error { return nil }
