// Package cache wraps go-cache with typed access, per-cache hit counters and
// stable keys built from request components.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Metrics tracks cache performance
type Metrics struct {
	Hits   int64
	Misses int64
	Sets   int64
}

// Typed is a TTL cache holding values of one type. A zero TTL disables it:
// Set stores nothing and Get always misses.
type Typed[T any] struct {
	items  *gocache.Cache
	ttl    time.Duration
	name   string
	logger *zap.Logger

	hits, misses, sets atomic.Int64
}

// New creates a cache with the given TTL; name labels its log lines.
func New[T any](ttl time.Duration, name string, logger *zap.Logger) *Typed[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	cleanup := ttl * 2
	if ttl <= 0 {
		cleanup = 0
	}
	return &Typed[T]{
		items:  gocache.New(ttl, cleanup),
		ttl:    ttl,
		name:   name,
		logger: logger,
	}
}

// Set stores value under key for the cache TTL.
func (c *Typed[T]) Set(key string, value T) {
	if c.ttl <= 0 {
		return
	}
	c.items.SetDefault(key, value)
	c.sets.Add(1)
	c.logger.Debug("Cache set", zap.String("cache", c.name), zap.String("key", key))
}

// Get retrieves an unexpired item.
func (c *Typed[T]) Get(key string) (T, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		c.misses.Add(1)
		var zero T
		return zero, false
	}
	c.hits.Add(1)
	return v.(T), true
}

func (c *Typed[T]) Delete(key string) {
	c.items.Delete(key)
}

// DeleteMatching removes every item whose key satisfies match.
func (c *Typed[T]) DeleteMatching(match func(key string) bool) {
	for key := range c.items.Items() {
		if match(key) {
			c.items.Delete(key)
		}
	}
}

// Clear removes all items from the cache
func (c *Typed[T]) Clear() {
	c.items.Flush()
	c.logger.Info("Cache cleared", zap.String("cache", c.name))
}

// Size returns the number of items, expired ones included until cleanup.
func (c *Typed[T]) Size() int {
	return c.items.ItemCount()
}

func (c *Typed[T]) Metrics() Metrics {
	return Metrics{Hits: c.hits.Load(), Misses: c.misses.Load(), Sets: c.sets.Load()}
}

// KeyBuilder builds cache keys from named components. Components are hashed,
// so keys may include credentials without exposing them in logs.
type KeyBuilder struct {
	components []map[string]any
}

func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{components: make([]map[string]any, 0, 4)}
}

// Add adds a component to the cache key
func (b *KeyBuilder) Add(key string, value any) *KeyBuilder {
	b.components = append(b.components, map[string]any{key: value})
	return b
}

// Build generates the final cache key as an MD5 hash
func (b *KeyBuilder) Build() (string, error) {
	jsonBytes, err := json.Marshal(b.components)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cache key components: %w", err)
	}
	hash := md5.Sum(jsonBytes)
	return hex.EncodeToString(hash[:]), nil
}
