package authstore

import (
	"context"
	"sync"
)

// KV is a persistent string store scoped per chat, the bot's equivalent of a device key-value store.
type KV interface {
	Get(ctx context.Context, chatID int64, key string) (string, bool, error)
	Set(ctx context.Context, chatID int64, key, value string) error
	Delete(ctx context.Context, chatID int64, keys ...string) error
}

type MemoryKV struct {
	mu   sync.RWMutex
	data map[int64]map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[int64]map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, chatID int64, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[chatID][key]
	return v, ok, nil
}

func (m *MemoryKV) Set(_ context.Context, chatID int64, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[chatID] == nil {
		m.data[chatID] = make(map[string]string)
	}
	m.data[chatID][key] = value
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, chatID int64, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data[chatID], k)
	}
	return nil
}
