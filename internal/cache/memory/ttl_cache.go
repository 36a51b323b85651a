package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Gunvolt24/orderfeed/internal/ports"
	"github.com/Gunvolt24/orderfeed/pkg/metrics"
)

type entry struct {
	value      any
	insertedAt time.Time
	expiresAt  time.Time // нулевое значение — без срока
}

// TTLCache — in-memory кэш со сроком жизни записей.
// Размер не ограничен; просроченная запись удаляется при чтении.
type TTLCache struct {
	defaultTTL time.Duration
	now        func() time.Time

	items map[string]*entry

	mu sync.Mutex
}

var _ ports.Cache = (*TTLCache)(nil)

// NewTTLCache — defaultTTL <= 0 означает «без срока».
func NewTTLCache(defaultTTL time.Duration) *TTLCache {
	return &TTLCache{
		defaultTTL: defaultTTL,
		now:        time.Now,
		items:      make(map[string]*entry),
	}
}

func (c *TTLCache) Set(_ context.Context, key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &entry{
		value:      value,
		insertedAt: now,
		expiresAt:  c.expiryFrom(now, ttl),
	}
	metrics.CacheOps.WithLabelValues("set").Inc()
	metrics.CacheSize.Set(float64(len(c.items)))
}

func (c *TTLCache) Get(_ context.Context, key string) (any, bool) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.lookup(key, now)
	if !ok {
		return nil, false
	}
	metrics.CacheOps.WithLabelValues("hit").Inc()
	return ent.value, true
}

func (c *TTLCache) Has(_ context.Context, key string) bool {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.lookup(key, now)
	return ok
}

func (c *TTLCache) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; ok {
		delete(c.items, key)
		metrics.CacheOps.WithLabelValues("delete").Inc()
		metrics.CacheSize.Set(float64(len(c.items)))
	}
}

// DeletePrefix удаляет все ключи с префиксом и возвращает их количество.
func (c *TTLCache) DeletePrefix(_ context.Context, prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			removed++
		}
	}
	if removed > 0 {
		metrics.CacheOps.WithLabelValues("delete").Add(float64(removed))
		metrics.CacheSize.Set(float64(len(c.items)))
	}
	return removed
}

// Len — число записей, включая ещё не вычищенные просроченные.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// ------вспомогательные функции------

func (c *TTLCache) lookup(key string, now time.Time) (*entry, bool) {
	ent, ok := c.items[key]
	if !ok {
		metrics.CacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	if isExpired(ent, now) {
		delete(c.items, key)
		metrics.CacheOps.WithLabelValues("expired").Inc()
		metrics.CacheSize.Set(float64(len(c.items)))
		return nil, false
	}
	return ent, true
}

func isExpired(ent *entry, now time.Time) bool {
	if ent.expiresAt.IsZero() {
		return false
	}
	return !now.Before(ent.expiresAt)
}

func (c *TTLCache) expiryFrom(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
