// internal/engine/extraction/cache.go
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"talentmatch-workers/internal/common/logger"
	"talentmatch-workers/internal/common/metrics"
	"talentmatch-workers/internal/models"
)

// Cache memoizes extraction results per query fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (*Result, bool)
	Set(ctx context.Context, key string, result *Result)
}

// CacheKey builds the memoization key from the query parameters and the
// first 100 characters of the source text.
func CacheKey(text string, domain models.Domain, maxResults int, minScore float64) string {
	prefix := text
	if len(prefix) > 100 {
		prefix = prefix[:100]
	}
	return fmt.Sprintf("%s:%d:%g:%s", domain, maxResults, minScore, prefix)
}

type memoryEntry struct {
	result    *Result
	expiresAt time.Time
}

// MemoryCache is a bounded in-process cache with a fixed TTL. When full, the
// oldest-inserted entry is evicted first.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	order   []string
	maxSize int
	ttl     time.Duration
}

// NewMemoryCache creates a bounded in-memory cache.
func NewMemoryCache(maxSize int, ttl time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &MemoryCache{
		entries: make(map[string]memoryEntry, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		metrics.CacheMisses.WithLabelValues("memory").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues("memory").Inc()
	return entry.result, true
}

func (c *MemoryCache) Set(_ context.Context, key string, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.maxSize && len(c.order) > 0 {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = memoryEntry{result: result, expiresAt: time.Now().Add(c.ttl)}
}

// Len returns the current number of live entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RedisCache stores extraction results as JSON with a server-side TTL.
// Redis errors degrade to cache misses.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewRedisCache creates a Redis-backed extraction cache.
func NewRedisCache(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, logger: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*Result, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("extraction cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil, false
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("extraction cache entry corrupt, discarding", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, key string, result *Result) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("extraction cache marshal failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("extraction cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
