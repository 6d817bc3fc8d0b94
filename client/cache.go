package client

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// queryCache holds fetched resources keyed by logical resource id.
// Concurrent misses for the same key coalesce through singleflight so a
// burst of reads triggers one underlying fetch.
type queryCache struct {
	mu      sync.Mutex
	entries map[string]interface{}
	group   singleflight.Group
}

func newQueryCache() *queryCache {
	return &queryCache{entries: make(map[string]interface{})}
}

// fetch returns the cached value for key, or runs fn once to populate it.
func (c *queryCache) fetch(key string, fn func() (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, err := fn()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = v
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

// invalidate drops entries so the next read refetches server state.
func (c *queryCache) invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
}

func (c *queryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]interface{})
}
