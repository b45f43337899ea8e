package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs. Listings change often, categories almost never.
const (
	TTLPluginList   = 5 * time.Minute
	TTLPluginDetail = 10 * time.Minute
	TTLCategories   = 1 * time.Hour
	TTLDefault      = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixPluginList   = "plugins:list:"
	PrefixPluginDetail = "plugins:detail:"
	KeyCategories      = "categories:all"
)

// Service is the Redis read-cache used by the marketplace handlers.
// Every method degrades to a no-op / miss when Redis is unavailable,
// so the API keeps working without a cache backend.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Plugin listing cache, keyed by filter set
	GetPluginList(ctx context.Context, filterKey string, dest interface{}) error
	SetPluginList(ctx context.Context, filterKey string, data interface{}) error
	InvalidatePluginLists(ctx context.Context) error

	// Plugin detail cache
	GetPluginDetail(ctx context.Context, pluginID uint64, dest interface{}) error
	SetPluginDetail(ctx context.Context, pluginID uint64, data interface{}) error
	InvalidatePlugin(ctx context.Context, pluginID uint64) error

	// Category list cache
	GetCategories(ctx context.Context, dest interface{}) error
	SetCategories(ctx context.Context, data interface{}) error
	InvalidateCategories(ctx context.Context) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a new cache service
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

// ListKey builds a deterministic cache key from listing filters.
func ListKey(search, category string, page int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("search=%s&category=%s&page=%d", search, category, page)))
	return hex.EncodeToString(sum[:16])
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return redis.Nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// ========================================
// Plugin listings
// ========================================

func (c *redisCache) GetPluginList(ctx context.Context, filterKey string, dest interface{}) error {
	return c.Get(ctx, PrefixPluginList+filterKey, dest)
}

func (c *redisCache) SetPluginList(ctx context.Context, filterKey string, data interface{}) error {
	return c.Set(ctx, PrefixPluginList+filterKey, data, TTLPluginList)
}

func (c *redisCache) InvalidatePluginLists(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixPluginList+"*")
}

// ========================================
// Plugin detail
// ========================================

func (c *redisCache) detailKey(pluginID uint64) string {
	return fmt.Sprintf("%s%d", PrefixPluginDetail, pluginID)
}

func (c *redisCache) GetPluginDetail(ctx context.Context, pluginID uint64, dest interface{}) error {
	return c.Get(ctx, c.detailKey(pluginID), dest)
}

func (c *redisCache) SetPluginDetail(ctx context.Context, pluginID uint64, data interface{}) error {
	return c.Set(ctx, c.detailKey(pluginID), data, TTLPluginDetail)
}

// InvalidatePlugin drops the detail entry and all cached listings for a
// plugin. Called synchronously from every write path touching the plugin row.
func (c *redisCache) InvalidatePlugin(ctx context.Context, pluginID uint64) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, c.detailKey(pluginID)).Err(); err != nil {
		return err
	}
	return c.deleteByPattern(ctx, PrefixPluginList+"*")
}

// ========================================
// Categories
// ========================================

func (c *redisCache) GetCategories(ctx context.Context, dest interface{}) error {
	return c.Get(ctx, KeyCategories, dest)
}

func (c *redisCache) SetCategories(ctx context.Context, data interface{}) error {
	return c.Set(ctx, KeyCategories, data, TTLCategories)
}

func (c *redisCache) InvalidateCategories(ctx context.Context) error {
	return c.Delete(ctx, KeyCategories)
}

// deleteByPattern removes all keys matching a glob pattern via SCAN
func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
