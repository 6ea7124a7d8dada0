package storage

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// Memory keeps entries in process memory. Entries never expire; it is meant
// for development and tests, where durability across restarts is not needed.
type Memory struct {
	c *cache.Cache
}

var _ Storage = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{c: cache.New(cache.NoExpiration, 0)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.c.Set(key, value, cache.NoExpiration)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.c.Delete(k)
	}
	return nil
}

func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
