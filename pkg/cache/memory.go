package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type memoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore returns an in-process store.
func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) Store {
	return &memoryStore{c: gocache.New(defaultTTL, cleanupInterval)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, ErrMiss
	}
	return append([]byte(nil), b...), nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.c.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (s *memoryStore) Close() error {
	s.c.Flush()
	return nil
}
