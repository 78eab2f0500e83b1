package classconfig

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a redis read-through cache for per-year configurations. Every
// attendance write resolves the active configuration, so the hot document
// is kept out of Postgres. Misses and redis outages fall back to the DB.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a cache with the given entry TTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(schoolYear string) string {
	return "classconfig:" + schoolYear
}

// Get returns the cached configuration for a school year, or nil on miss.
func (c *Cache) Get(ctx context.Context, schoolYear string) *Config {
	if c == nil || c.client == nil {
		return nil
	}
	data, err := c.client.Get(ctx, cacheKey(schoolYear)).Bytes()
	if err != nil {
		return nil
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil
	}
	return &cfg
}

// Set stores a configuration under its school-year key.
func (c *Cache) Set(ctx context.Context, cfg Config) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(cfg.SchoolYear), data, c.ttl)
}

// Invalidate drops the cached entry for a school year.
func (c *Cache) Invalidate(ctx context.Context, schoolYear string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, cacheKey(schoolYear))
}
