package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	resultTTL        = 24 * time.Hour
	redisTimeout     = 500 * time.Millisecond
	memoryCacheLimit = 512
)

// ResultCache stores serialized plan and simulation results.
type ResultCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Name() string
	Close() error
}

// NewResultCache returns a Redis-backed cache when addr is set and reachable,
// and an in-memory cache otherwise.
func NewResultCache(addr string, logger *logrus.Logger) ResultCache {
	if addr == "" {
		return NewMemoryCache()
	}

	rc := NewRedisCache(addr)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).WithField("addr", addr).Warn("redis unreachable, using memory cache")
		_ = rc.Close()
		return NewMemoryCache()
	}
	return rc
}

// RedisCache is a ResultCache backed by Redis with a fixed TTL.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache returns a cache for the Redis server at addr.
func NewRedisCache(addr string) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &RedisCache{client: rdb}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	return r.client.Set(ctx, key, value, resultTTL).Err()
}

func (r *RedisCache) Name() string { return "redis" }

func (r *RedisCache) Close() error { return r.client.Close() }

// MemoryCache is a process-local ResultCache. It is reset wholesale once it
// holds memoryCacheLimit entries.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryCache returns an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]string)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *MemoryCache) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.data[key]; !exists && len(m.data) >= memoryCacheLimit {
		clear(m.data)
	}
	m.data[key] = value
	return nil
}

func (m *MemoryCache) Name() string { return "memory" }

func (m *MemoryCache) Close() error { return nil }
