package history

import (
	"context"
	"errors"
	"sync"
)

// ErrEmpty is returned by Medium.Load when nothing is stored under the key.
var ErrEmpty = errors.New("history: key not present")

// Medium is a single-key blob store. The history Store keeps its whole
// record list under one key, the way browser local storage is used.
type Medium interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error
}

// MemoryMedium keeps blobs in process memory.
type MemoryMedium struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{items: make(map[string][]byte)}
}

func (m *MemoryMedium) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.items[key]
	if !ok {
		return nil, ErrEmpty
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryMedium) Save(_ context.Context, key string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	m.mu.Lock()
	m.items[key] = buf
	m.mu.Unlock()
	return nil
}

func (m *MemoryMedium) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}
