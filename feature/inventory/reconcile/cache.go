package reconcile

import (
	"context"
	"sync"
	"time"

	"lv-inventory/core/procore"

	"golang.org/x/sync/singleflight"
)

// orderCache holds fetched purchase orders per project with a TTL, so a CLI
// run and an HTTP-triggered run close together share one vendor fetch.
type orderCache struct {
	mu  sync.RWMutex
	ttl time.Duration
	sf  singleflight.Group

	entries map[string]*orderCacheEntry
}

type orderCacheEntry struct {
	orders []procore.PurchaseOrder
	built  time.Time
}

func newOrderCache(ttl time.Duration) *orderCache {
	return &orderCache{
		ttl:     ttl,
		entries: make(map[string]*orderCacheEntry),
	}
}

func (c *orderCacheEntry) expired(ttl time.Duration) bool {
	if ttl == 0 {
		return true // no caching
	}
	return time.Since(c.built) > ttl
}

// get returns the cached orders for a project, fetching through the given
// function when the cache is cold or expired. Concurrent callers for the same
// project collapse into a single fetch.
func (c *orderCache) get(ctx context.Context, projectID string, fetch func(context.Context) ([]procore.PurchaseOrder, error)) ([]procore.PurchaseOrder, error) {
	if c.ttl > 0 {
		c.mu.RLock()
		entry, ok := c.entries[projectID]
		c.mu.RUnlock()
		if ok && !entry.expired(c.ttl) {
			return entry.orders, nil
		}
	}

	v, err, _ := c.sf.Do(projectID, func() (any, error) {
		orders, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			c.entries[projectID] = &orderCacheEntry{orders: orders, built: time.Now()}
			c.mu.Unlock()
		}
		return orders, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]procore.PurchaseOrder), nil
}

// invalidate drops the cached orders for a project.
func (c *orderCache) invalidate(projectID string) {
	c.mu.Lock()
	delete(c.entries, projectID)
	c.mu.Unlock()
}
