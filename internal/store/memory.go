package store

import "sync"

// MemoryStore is an in-memory Store, used as a test double and for throwaway
// runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[name], nil
}

func (m *MemoryStore) Set(name, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = message
	return nil
}

func (m *MemoryStore) All() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}
