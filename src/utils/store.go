package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Store is a JSON value store with expiry. RedisHandler satisfies it, and
// MemoryStore stands in when no Redis is configured.
type Store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, result interface{}) (bool, error)
	Delete(ctx context.Context, key string) error
}

type MemoryStore struct {
	cache *Cache[[]byte]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cache: NewCache[[]byte]()}
}

func (m *MemoryStore) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize value: %w", err)
	}
	m.cache.Set(key, data, expiration)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string, result interface{}) (bool, error) {
	data, ok := m.cache.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return false, fmt.Errorf("failed to deserialize value: %w", err)
	}
	return true, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}
