package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	errs "github.com/adminconsole/go-auth-client/internal/errors"
)

// MemoryStore is an in-process KeyValueStore. It backs the transient
// scope in every deployment and both scopes in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ KeyValueStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return "", errors.Wrapf(errs.ErrKeyNotFound, "[MemoryStore.Get] %q", key)
	}
	return value, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
