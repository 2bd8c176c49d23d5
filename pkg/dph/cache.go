package dph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrCacheKeyNotFound = errors.New("key not found")
	ErrCacheExpired     = errors.New("entry expired")
)

// CacheEntry is a cached response body.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry is past its expiry time.
func (e *CacheEntry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// Cache is a backend for single-resource reads.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// MemoryCache is a bounded in-process cache. It is safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memoryItem
	maxSize int
}

type memoryItem struct {
	entry    *CacheEntry
	lastUsed time.Time
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
// A non-positive maxSize means unbounded.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*memoryItem),
		maxSize: maxSize,
	}
}

// Get returns the entry for key. Expired entries are removed and reported as errors.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if item.entry.Expired() {
		delete(c.entries, key)

		return nil, fmt.Errorf("%w: %s", ErrCacheExpired, key)
	}

	item.lastUsed = time.Now()

	return item.entry, nil
}

// Set stores entry under key, evicting the least recently used entry when full.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLocked()
	}

	c.entries[key] = &memoryItem{entry: entry, lastUsed: time.Now()}

	return nil
}

func (c *MemoryCache) evictLocked() {
	var (
		oldestKey  string
		oldestTime time.Time
	)

	for key, item := range c.entries {
		if item.entry.Expired() {
			delete(c.entries, key)

			return
		}

		if oldestKey == "" || item.lastUsed.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.lastUsed
		}
	}

	delete(c.entries, oldestKey)
}

// Delete removes key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)

	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*memoryItem)

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.entries[key]

	return ok && !item.entry.Expired()
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Cleanup removes expired entries.
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, item := range c.entries {
		if item.entry.Expired() {
			delete(c.entries, key)
		}
	}
}

// CacheStats counts cache activity.
type CacheStats struct {
	Hits          int64
	Misses        int64
	Sets          int64
	Invalidations int64
}

// GetHitRate returns the ratio of hits to lookups.
func (s *CacheStats) GetHitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}

	return float64(s.Hits) / float64(total)
}

// CacheManager applies the read-through rules of the transport on top of a Cache.
//
// Only GET requests without query parameters are cached, so list pages never
// are. A write to a path invalidates that path and every ancestor path, since
// parents embed summaries of their children.
type CacheManager struct {
	cache Cache
	ttl   time.Duration

	hits          atomic.Int64
	misses        atomic.Int64
	sets          atomic.Int64
	invalidations atomic.Int64
}

// NewCacheManager creates a manager over cache. A non-positive ttl keeps entries until invalidated.
func NewCacheManager(cache Cache, ttl time.Duration) *CacheManager {
	return &CacheManager{cache: cache, ttl: ttl}
}

// GetCacheKey builds the cache key of a request.
func (m *CacheManager) GetCacheKey(method, path string, params map[string]string) string {
	key := method + ":" + path
	if len(params) == 0 {
		return key
	}

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}

	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+params[name])
	}

	return key + ":" + strings.Join(parts, "&")
}

// Cacheable reports whether a request may be served from or stored in the cache.
func (m *CacheManager) Cacheable(method string, hasQuery bool) bool {
	return m != nil && m.cache != nil && method == http.MethodGet && !hasQuery
}

// Lookup returns the cached body for a GET of path.
func (m *CacheManager) Lookup(ctx context.Context, path string) ([]byte, bool) {
	entry, err := m.cache.Get(ctx, m.GetCacheKey(http.MethodGet, path, nil))
	if err != nil {
		m.misses.Add(1)

		return nil, false
	}

	m.hits.Add(1)

	return entry.Data, true
}

// Store caches the body of a successful GET of path.
func (m *CacheManager) Store(ctx context.Context, path string, body []byte, etag string) error {
	entry := &CacheEntry{Data: body, ETag: etag}
	if m.ttl > 0 {
		entry.ExpiresAt = time.Now().Add(m.ttl)
	}

	err := m.cache.Set(ctx, m.GetCacheKey(http.MethodGet, path, nil), entry)
	if err != nil {
		return fmt.Errorf("storing cache entry: %w", err)
	}

	m.sets.Add(1)

	return nil
}

// Invalidate drops path and its ancestors, e.g. a write to
// /v1/data_products/dp/drafts/d1/publish also drops /v1/data_products/dp/drafts/d1
// and /v1/data_products/dp.
func (m *CacheManager) Invalidate(ctx context.Context, path string) error {
	var lastErr error

	for current := strings.TrimSuffix(path, "/"); current != ""; current = parentPath(current) {
		err := m.cache.Delete(ctx, m.GetCacheKey(http.MethodGet, current, nil))
		if err != nil {
			lastErr = err
		}

		m.invalidations.Add(1)
	}

	if lastErr != nil {
		return fmt.Errorf("invalidating cache entries: %w", lastErr)
	}

	return nil
}

// GetStats returns a snapshot of the counters.
func (m *CacheManager) GetStats() CacheStats {
	return CacheStats{
		Hits:          m.hits.Load(),
		Misses:        m.misses.Load(),
		Sets:          m.sets.Load(),
		Invalidations: m.invalidations.Load(),
	}
}

func parentPath(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx <= 0 {
		return ""
	}

	return path[:idx]
}
