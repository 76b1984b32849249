package session

import (
	"bytes"
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Store.Get and Store.Delete for missing keys.
var ErrNotFound = errors.New("session: key not found")

// Store is a namespaced key/value store. Namespaces isolate clients so one
// browser's identity never leaks into another's.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, namespace, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[namespace][key]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(v), nil
}

func (m *MemoryStore) Put(_ context.Context, namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.values[namespace]
	if !ok {
		ns = make(map[string][]byte)
		m.values[namespace] = ns
	}
	ns[key] = bytes.Clone(value)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.values[namespace]
	if !ok {
		return ErrNotFound
	}
	if _, ok := ns[key]; !ok {
		return ErrNotFound
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(m.values, namespace)
	}
	return nil
}
