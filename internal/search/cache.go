package search

import (
	"container/list"
	"sync"

	"github.com/ludmilasolutions/productos/internal/models"
)

// queryCache is a bounded cache of ranked result lists keyed by the verbatim
// (query, category) pair. Eviction is strict insertion order: once at
// capacity, the oldest-inserted key goes first regardless of access recency.
// A whole cache is discarded and replaced on every catalog reload, so cached
// scores never outlive the positions they were computed from.
type queryCache struct {
	capacity int
	entries  map[string]*list.Element
	order    *list.List // front = oldest inserted
	mu       sync.Mutex
}

type cacheEntry struct {
	key     string
	results []models.ScoredResult
}

func newQueryCache(capacity int) *queryCache {
	return &queryCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// get returns the stored result list unchanged. Lookups do not refresh the
// entry's eviction position.
func (c *queryCache) get(key string) ([]models.ScoredResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[key]; ok {
		return elem.Value.(*cacheEntry).results, true
	}
	return nil, false
}

// set stores results for key, evicting the oldest-inserted entry when at
// capacity. Re-setting an existing key keeps its original insertion slot.
func (c *queryCache) set(key string, results []models.ScoredResult) {
	if c.capacity <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*cacheEntry).results = results
		return
	}

	elem := c.order.PushBack(&cacheEntry{key: key, results: results})
	c.entries[key] = elem

	if c.order.Len() > c.capacity {
		oldest := c.order.Front()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*cacheEntry).key)
		}
	}
}

func (c *queryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
