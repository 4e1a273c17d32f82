package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BerylCAtieno/cfo-service/internal/utils"
)

var ErrMiss = errors.New("cache miss")

const keyPrefix = "cfo:"

// Cache stores serialized analysis results. Redis is used when configured;
// every read and write falls back to an in-process map when it is absent or
// failing.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *utils.Logger

	mu    sync.RWMutex
	items map[string]entry
}

type entry struct {
	value     []byte
	expiresAt time.Time
}

func New(client *redis.Client, ttl time.Duration, logger *utils.Logger) *Cache {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "cache"),
		items:  make(map[string]entry),
	}
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}
	return client, nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	key = keyPrefix + key

	if c.client != nil {
		val, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return val, nil
		}
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed, using memory cache", "key", key, "error", err)
		}
	}

	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrMiss
	}
	if time.Now().After(item.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, ErrMiss
	}
	return item.value, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	key = keyPrefix + key

	if c.client != nil {
		err := c.client.Set(ctx, key, value, c.ttl).Err()
		if err == nil {
			return nil
		}
		c.logger.Warn("redis set failed, using memory cache", "key", key, "error", err)
	}

	c.mu.Lock()
	c.items[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	key = keyPrefix + key

	if c.client != nil {
		if err := c.client.Del(ctx, key).Err(); err != nil {
			c.logger.Warn("redis delete failed", "key", key, "error", err)
		}
	}

	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

// GetJSON decodes a cached value into dst.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) error {
	raw, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode cached value: %w", err)
	}
	return nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for cache: %w", err)
	}
	return c.Set(ctx, key, raw)
}

// Backend names the store currently serving requests.
func (c *Cache) Backend() string {
	if c.client != nil {
		return "redis"
	}
	return "memory"
}

// Health is "degraded" when redis is configured but does not answer.
func (c *Cache) Health(ctx context.Context) (status string, err error) {
	if c.client == nil {
		return "healthy", nil
	}
	if err := c.client.Ping(ctx).Err(); err != nil {
		return "degraded", err
	}
	return "healthy", nil
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache) removeExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}
}

// StartCleanup evicts expired memory entries every interval until ctx is done.
func (c *Cache) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				c.removeExpired(now)
			}
		}
	}()
}
