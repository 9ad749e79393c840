package storage

import (
	"context"
	"strconv"
	"sync"
)

// MemoryStore is an in-process BlobStore for tests.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	seq   int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Put(_ context.Context, _ string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	key := "mem-" + strconv.Itoa(m.seq)
	m.blobs[key] = append([]byte(nil), data...)
	return key, nil
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, ErrBlobNotFound
	}
	return b, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}
