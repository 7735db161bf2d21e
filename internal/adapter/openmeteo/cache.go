package openmeteo

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/oxygen-conversion-service/internal/domain"
	"github.com/couchcryptid/oxygen-conversion-service/internal/observability"
)

// CachedProvider wraps an AirPressureProvider with an in-memory LRU cache
// keyed on position rounded to 0.01 degrees and the UTC hour.
type CachedProvider struct {
	inner   domain.AirPressureProvider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a provider.
func NewCachedProvider(inner domain.AirPressureProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedProvider) AirPressure(ctx context.Context, lat, lon float64, at time.Time) (float64, error) {
	key := cacheKey(lat, lon, at)
	if p, ok := c.cache.get(key); ok {
		c.metrics.AirPressureCache.WithLabelValues("hit").Inc()
		return p, nil
	}
	c.metrics.AirPressureCache.WithLabelValues("miss").Inc()

	p, err := c.inner.AirPressure(ctx, lat, lon, at)
	if err != nil {
		return p, err
	}
	// Empty results are not cached so a later lookup can retry.
	if p > 0 {
		c.cache.put(key, p)
	}
	return p, nil
}

func cacheKey(lat, lon float64, at time.Time) string {
	return fmt.Sprintf("%.2f,%.2f|%s", lat, lon, at.UTC().Truncate(time.Hour).Format(hourLayout))
}

// lruCache is a thread-safe LRU cache of pressures.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	order      *list.List // front is most recently used
	entries    map[string]*list.Element
}

type cacheEntry struct {
	key      string
	pressure float64
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		order:      list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *lruCache) get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).pressure, true
}

func (c *lruCache) put(key string, pressure float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).pressure = pressure
		c.order.MoveToFront(el)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, pressure: pressure})
	if c.order.Len() > c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
