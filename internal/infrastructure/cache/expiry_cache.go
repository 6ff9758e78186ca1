// Package cache implements the keyed cache-with-expiry shared by the weather and
// tips lookups. Entries live in durable storage through the persistence adapter.
package cache

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/juaai/jua/internal/domain"
	"github.com/juaai/jua/internal/infrastructure/metrics"
	"github.com/juaai/jua/internal/infrastructure/persistence"
	"github.com/juaai/jua/internal/ports"
)

// Cache stores values of type T under a scope-specific namespace prefix.
type Cache[T any] struct {
	adapter *persistence.Adapter
	clock   ports.Clock
	scope   string
	metrics *metrics.Recorder
}

// Option customizes a Cache.
type Option func(*options)

type options struct {
	clock   ports.Clock
	metrics *metrics.Recorder
}

// WithClock overrides the wall clock used for expiry decisions.
func WithClock(clock ports.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithMetrics records hits and misses on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) { o.metrics = r }
}

// New returns a cache for scope (for example "weather" or "tips").
func New[T any](adapter *persistence.Adapter, scope string, opts ...Option) *Cache[T] {
	o := options{clock: ports.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[T]{
		adapter: adapter,
		clock:   o.clock,
		scope:   scope,
		metrics: o.metrics,
	}
}

// Get returns the live value for key. Expired entries are removed and reported
// absent; so are entries that cannot be read back.
func (c *Cache[T]) Get(key string) (T, bool) {
	var zero T
	namespace := c.namespace(key)
	var entry domain.CacheEntry
	if !c.adapter.Load(namespace, &entry) {
		c.metrics.CacheMiss(c.scope)
		return zero, false
	}
	if !entry.ValidAt(c.clock.Now()) {
		c.adapter.Remove(namespace)
		c.metrics.CacheMiss(c.scope)
		return zero, false
	}
	var value T
	if err := json.Unmarshal(entry.Data, &value); err != nil {
		c.adapter.Remove(namespace)
		c.metrics.CacheMiss(c.scope)
		return zero, false
	}
	c.metrics.CacheHit(c.scope)
	return value, true
}

// Set stores data under key for ttlMinutes, overwriting any previous entry.
// A non-positive TTL is rejected.
func (c *Cache[T]) Set(key string, data T, ttlMinutes int) bool {
	if ttlMinutes <= 0 {
		return false
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return false
	}
	now := c.clock.Now()
	entry := domain.CacheEntry{
		Data:      raw,
		StoredAt:  now,
		ExpiresAt: now.Add(time.Duration(ttlMinutes) * time.Minute),
	}
	return c.adapter.Save(c.namespace(key), entry)
}

// Keys lists the live keys of this scope. Expired or unreadable entries met along
// the way are removed.
func (c *Cache[T]) Keys() []string {
	prefix := c.namespace("")
	now := c.clock.Now()
	names := c.adapter.Namespaces(prefix)
	keys := make([]string, 0, len(names))
	for _, name := range names {
		var entry domain.CacheEntry
		if !c.adapter.Load(name, &entry) || !entry.ValidAt(now) {
			c.adapter.Remove(name)
			continue
		}
		keys = append(keys, strings.TrimPrefix(name, prefix))
	}
	return keys
}

// Clear removes every entry of this scope.
func (c *Cache[T]) Clear() bool {
	return clearPrefix(c.adapter, c.namespace(""))
}

func (c *Cache[T]) namespace(key string) string {
	return domain.NamespaceCachePrefix + c.scope + ":" + key
}

// EntryInfo describes one stored cache entry without decoding its payload.
type EntryInfo struct {
	Namespace string
	StoredAt  time.Time
	ExpiresAt time.Time
	Expired   bool
}

// Inspect lists every cache entry across scopes.
func Inspect(adapter *persistence.Adapter, now time.Time) []EntryInfo {
	var infos []EntryInfo
	for _, name := range adapter.Namespaces(domain.NamespaceCachePrefix) {
		var entry domain.CacheEntry
		if !adapter.Load(name, &entry) {
			continue
		}
		infos = append(infos, EntryInfo{
			Namespace: name,
			StoredAt:  entry.StoredAt,
			ExpiresAt: entry.ExpiresAt,
			Expired:   !entry.ValidAt(now),
		})
	}
	return infos
}

// ClearAll removes every cache entry across scopes.
func ClearAll(adapter *persistence.Adapter) bool {
	return clearPrefix(adapter, domain.NamespaceCachePrefix)
}

func clearPrefix(adapter *persistence.Adapter, prefix string) bool {
	ok := true
	for _, name := range adapter.Namespaces(prefix) {
		if !adapter.Remove(name) {
			ok = false
		}
	}
	return ok
}
