package mdblog

import (
	"sync"
	"time"

	"github.com/eringen/mdblog/content"
)

// IndexCache keeps the most recently built content index for a TTL. Expired
// entries are rebuilt from scratch by the loader.
type IndexCache struct {
	mu      sync.RWMutex
	index   *content.Index
	fetched time.Time
	ttl     time.Duration
	load    func() (*content.Index, error)
}

// NewIndexCache creates an IndexCache that calls load on a miss.
func NewIndexCache(load func() (*content.Index, error), ttl time.Duration) *IndexCache {
	return &IndexCache{load: load, ttl: ttl}
}

func (c *IndexCache) valid() bool {
	return c.index != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *IndexCache) Invalidate() {
	c.mu.Lock()
	c.index = nil
	c.mu.Unlock()
}

// Index returns the cached index, rebuilding it when it is missing or stale.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *IndexCache) Index() (*content.Index, error) {
	c.mu.RLock()
	if c.valid() {
		idx := c.index
		c.mu.RUnlock()
		return idx, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.index, nil
	}
	idx, err := c.load()
	if err != nil {
		return nil, err
	}
	c.index = idx
	c.fetched = time.Now()
	return idx, nil
}
