package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultCacheTTL     = 24 * time.Hour
	redisKeyPrefix      = "vacation-days:events:"
	redisRequestTimeout = 2 * time.Second
)

// MonthCache stores a month of oracle events under a string key
type MonthCache interface {
	Get(key string) ([]Event, bool)
	Set(key string, events []Event)
	Clear() error
}

// MemoryCache is an in-process MonthCache with a TTL
type MemoryCache struct {
	ttl     time.Duration
	cache   map[string]*cachedMonth
	cacheMu sync.RWMutex
	now     func() time.Time
}

type cachedMonth struct {
	events    []Event
	fetchedAt time.Time
}

// NewMemoryCache creates a new MemoryCache. A zero ttl uses the default of 24h.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &MemoryCache{
		ttl:   ttl,
		cache: make(map[string]*cachedMonth),
		now:   time.Now,
	}
}

// Get returns the cached events for key if present and not expired
func (c *MemoryCache) Get(key string) ([]Event, bool) {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()

	cached, ok := c.cache[key]
	if !ok || c.now().Sub(cached.fetchedAt) >= c.ttl {
		return nil, false
	}
	return cached.events, true
}

// Set stores events under key
func (c *MemoryCache) Set(key string, events []Event) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache[key] = &cachedMonth{
		events:    events,
		fetchedAt: c.now(),
	}
}

// Clear clears the cache
func (c *MemoryCache) Clear() error {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache = make(map[string]*cachedMonth)
	return nil
}

// RedisCache is a MonthCache shared between processes through Redis.
// Redis errors are logged and treated as cache misses.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache creates a new RedisCache
func NewRedisCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached events for key
func (c *RedisCache) Get(key string) ([]Event, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisRequestTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Redis cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		c.logger.Warn("Failed to decode cached events", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return events, true
}

// Set stores events under key with the cache TTL
func (c *RedisCache) Set(key string, events []Event) {
	data, err := json.Marshal(events)
	if err != nil {
		c.logger.Warn("Failed to encode events for cache", zap.String("key", key), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisRequestTimeout)
	defer cancel()

	if err := c.client.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Redis cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Clear deletes every cached month
func (c *RedisCache) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisRequestTimeout)
	defer cancel()

	deleted := 0
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	c.logger.Info("Calendar cache cleared", zap.Int("keys", deleted))
	return nil
}
