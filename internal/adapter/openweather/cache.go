package openweather

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/couchcryptid/weather-dashboard/internal/domain"
	"github.com/couchcryptid/weather-dashboard/internal/observability"
)

// CachedSource wraps a WeatherSource with an in-memory LRU cache whose
// entries expire after a fixed TTL.
type CachedSource struct {
	inner   domain.WeatherSource
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around a weather source.
func NewCachedSource(inner domain.WeatherSource, maxEntries int, ttl time.Duration, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries, ttl),
		metrics: metrics,
	}
}

func (c *CachedSource) CurrentWeather(ctx context.Context, city string) (domain.Payload, error) {
	key := cacheKey(city)
	if payload, ok := c.cache.get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return payload, nil
	}
	c.metrics.CacheLookups.WithLabelValues("miss").Inc()

	payload, err := c.inner.CurrentWeather(ctx, city)
	if err != nil {
		return payload, err
	}
	// Failures are never cached so the next request retries upstream.
	c.cache.put(key, payload)
	return payload, nil
}

// BreakerOpen forwards to the wrapped source when it exposes breaker state.
func (c *CachedSource) BreakerOpen() bool {
	if b, ok := c.inner.(interface{ BreakerOpen() bool }); ok {
		return b.BreakerOpen()
	}
	return false
}

func cacheKey(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}

// lruCache is a thread-safe LRU cache of payloads with per-entry expiry.
type lruCache struct {
	maxEntries int
	ttl        time.Duration
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     domain.Payload
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int, ttl time.Duration) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.Payload, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.Payload{}, false
	}
	if !domain.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return domain.Payload{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.Payload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := domain.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
