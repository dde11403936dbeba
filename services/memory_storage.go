package services

import (
	"context"
	"sync"

	"github.com/kendall-kelly/petnic-studio-api/utils"
)

// MemoryStorage keeps uploads in a map. Used by tests.
type MemoryStorage struct {
	files     map[string][]byte
	urlPrefix string
	mu        sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory store
func NewMemoryStorage(urlPrefix string) *MemoryStorage {
	return &MemoryStorage{files: make(map[string][]byte), urlPrefix: urlPrefix}
}

func (m *MemoryStorage) Save(_ context.Context, name string, data []byte, _ string) error {
	m.mu.Lock()
	m.files[name] = append([]byte(nil), data...)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return ErrObjectNotFound
	}
	delete(m.files, name)
	return nil
}

func (m *MemoryStorage) Exists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[name]
	return ok, nil
}

func (m *MemoryStorage) URL(_ context.Context, name string) (string, error) {
	return utils.GetImageURL(m.urlPrefix, name), nil
}

// Files returns a copy of every stored object (for testing assertions)
func (m *MemoryStorage) Files() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make(map[string][]byte, len(m.files))
	for k, v := range m.files {
		files[k] = v
	}
	return files
}
