package storage

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
)

type memoryCacheStore struct {
	cache *lru.Cache[string, []byte]
}

// NewMemoryCacheStore in-process store bounded to size records, least
// recently used evicted first
func NewMemoryCacheStore(size int) (repository.CacheStore, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru: %w", err)
	}
	return &memoryCacheStore{cache: cache}, nil
}

func (m *memoryCacheStore) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := m.cache.Get(key)
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return value, nil
}

func (m *memoryCacheStore) Put(_ context.Context, key string, value []byte) error {
	m.cache.Add(key, append([]byte(nil), value...))
	return nil
}

func (m *memoryCacheStore) Delete(_ context.Context, key string) error {
	m.cache.Remove(key)
	return nil
}

func (m *memoryCacheStore) Exists(_ context.Context, key string) (bool, error) {
	return m.cache.Contains(key), nil
}
