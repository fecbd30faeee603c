package httpclient

import (
	"sync"
	"time"

	"github.com/karlseguin/ccache/v2"
	"github.com/luizaranda/go-browserkit/pkg/transport"
)

// A Cache interface is used by HTTP client to store and retrieve responses.
type Cache interface {
	transport.Cache

	// Close is used to signal a shutdown of the cache when you are done with
	// it. This allows the cleaning goroutines to exit and ensures references
	// are not kept to the cache preventing GC of the entire cache.
	//
	// Package httpclient will never call Close, it's a responsibility that's
	// left to the user.
	Close() error
}

// MiB represents an integer value in Mega Bytes (1024*1024 bytes). It is used
// to indicate the local in-memory cache size.
type MiB int64

func (m MiB) bytes() int64 { return int64(m * 1024 * 1024) }

// DefaultCacheSize is the size of the cache returned by DefaultCache.
var DefaultCacheSize MiB = 64

var (
	_defaultCache     Cache
	_defaultCacheOnce sync.Once
)

// DefaultCache returns the process wide cache used by EnableCache. It is
// created on first use.
func DefaultCache() Cache {
	_defaultCacheOnce.Do(func() {
		_defaultCache = NewLocalCache(DefaultCacheSize)
	})
	return _defaultCache
}

type cache struct{ cache *ccache.Cache }

// sizedBytes is an slice alias which provides the Size() method, to fulfill
// the ccache.Sized interface and allow ccache to measure item size correctly.
type sizedBytes []byte

func (s sizedBytes) Size() int64 {
	// ccache has an overhead of ~350 bytes per entry that's not taken into
	// account. We add it so that the memory tracking is more precise.
	return int64(len(s)) + 350
}

// NewLocalCache instantiates a new memory cache for HTTP responses.
//
// The cache will optimistically try to keep its total memory consumption
// below maxSize. Expired entries stay readable as stale responses until they
// are pruned, which is what the force-cache and only-if-cached modes rely on.
//
// If creating a cache that has a short life, then in order to avoid memory
// leaks the user is required to call Close() on the cache when it finishes
// using it.
func NewLocalCache(maxSize MiB) Cache {
	gcThreshold := uint32(maxSize) / 10
	if gcThreshold == 0 {
		gcThreshold = 1
	}

	cfg := ccache.Configure().
		MaxSize(maxSize.bytes()).
		ItemsToPrune(gcThreshold)

	return &cache{
		cache: ccache.New(cfg),
	}
}

func (c *cache) Get(key string) ([]byte, bool, bool) {
	item := c.cache.Get(key)
	if item == nil {
		return nil, false, false
	}

	bytes, ok := item.Value().(sizedBytes)
	if !ok {
		return nil, false, false
	}
	return bytes, !item.Expired(), true
}

func (c *cache) Set(key string, responseBytes []byte, ttl time.Duration) {
	c.cache.Set(key, sizedBytes(responseBytes), ttl)
}

func (c *cache) Delete(key string) {
	c.cache.Delete(key)
}

func (c *cache) Close() error {
	c.cache.Stop()
	return nil
}
