package aggregator

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

const (
	EntitySourceBalances = "source_balances"
	EntityAsset          = "asset"
	EntityLiquidity      = "liquidity"
	EntityPrices         = "prices"
)

// RequestKey identifies one upstream request within a refresh cycle
type RequestKey struct {
	Entity     string
	ID         string
	Generation uint64
}

func (k RequestKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Entity, k.ID, k.Generation)
}

type cacheEntry struct {
	value any
	err   error
}

// RequestCache deduplicates concurrent upstream requests sharing a RequestKey.
// Completed requests are remembered until a newer generation starts.
type RequestCache struct {
	group      singleflight.Group
	lock       sync.Mutex
	generation uint64
	entries    map[RequestKey]cacheEntry
}

func NewRequestCache() *RequestCache {
	return &RequestCache{
		entries: map[RequestKey]cacheEntry{},
	}
}

// StartGeneration evicts every entry of an older generation. Older generations are ignored.
func (c *RequestCache) StartGeneration(generation uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if generation <= c.generation {
		return
	}

	c.generation = generation

	for key := range c.entries {
		if key.Generation < generation {
			delete(c.entries, key)
		}
	}
}

func (c *RequestCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return len(c.entries)
}

func (c *RequestCache) get(key RequestKey) (cacheEntry, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	entry, exists := c.entries[key]

	return entry, exists
}

func (c *RequestCache) put(key RequestKey, entry cacheEntry) {
	c.lock.Lock()
	defer c.lock.Unlock()

	// results of a superseded cycle are not remembered
	if key.Generation < c.generation {
		return
	}

	c.entries[key] = entry
}

// Cached runs fn once per key. Concurrent callers with the same key share the single in-flight call,
// later callers within the same generation get the remembered outcome.
func Cached[T any](
	ctx context.Context, cache *RequestCache, key RequestKey, fn func(ctx context.Context) (T, error),
) (T, error) {
	if entry, exists := cache.get(key); exists {
		return entryValue[T](entry)
	}

	value, _, _ := cache.group.Do(key.String(), func() (interface{}, error) {
		if entry, exists := cache.get(key); exists {
			return entry, nil
		}

		result, err := fn(ctx)
		entry := cacheEntry{value: result, err: err}

		cache.put(key, entry)

		return entry, nil
	})

	entry, _ := value.(cacheEntry)

	return entryValue[T](entry)
}

func entryValue[T any](entry cacheEntry) (T, error) {
	value, _ := entry.value.(T)

	return value, entry.err
}
