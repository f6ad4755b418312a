package store

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// memoryStore keeps resources in a map. Useful for tests and ephemeral servers.
type memoryStore struct {
	mu          sync.RWMutex
	defaultName string
	data        map[string][]byte
}

func newMemory(defaultName string) *memoryStore {
	return &memoryStore{
		defaultName: defaultName,
		data:        make(map[string][]byte),
	}
}

func (m *memoryStore) Read(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[m.key(name)]
	if !ok {
		return nil, fmt.Errorf("read %q: %w", name, ErrNotFound)
	}

	return slices.Clone(v), nil
}

func (m *memoryStore) Write(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := slices.Clone(data)
	if v == nil {
		v = []byte{}
	}
	m.data[m.key(name)] = v

	return nil
}

func (m *memoryStore) Exists(name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.data[m.key(name)]
	return ok, nil
}

func (m *memoryStore) Close() error { return nil }

// key must be called with mu held.
func (m *memoryStore) key(name string) string {
	hasChildren := func(prefix string) bool {
		for k := range m.data {
			if strings.HasPrefix(k, prefix) {
				return true
			}
		}
		return false
	}

	return resolveKey(Clean(name), m.defaultName, hasChildren)
}
