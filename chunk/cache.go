package chunk

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache defaults.
const (
	DefaultTTL           = 10 * time.Minute
	DefaultMaxEntries    = 64
	DefaultSweepInterval = time.Minute
)

// Cache retrieval errors.
var (
	// ErrUnknownKey indicates the cache key does not exist or has expired.
	ErrUnknownKey = errors.New("unknown or expired chunk cache key")

	// ErrIndexOutOfRange indicates the chunk index is outside the page set.
	ErrIndexOutOfRange = errors.New("chunk index out of range")
)

// Cache is an in-memory TTL cache of paginated responses.
//
// Keys are derived from page content, so storing the same page set twice
// yields the same key and refreshes the entry's expiry. Entries expire
// lazily on access and eagerly via a background sweep.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	ttl        time.Duration
	maxEntries int
	sweepEvery time.Duration

	now func() time.Time

	done      chan struct{}
	closeOnce sync.Once
}

type entry struct {
	pages   []string
	created time.Time
	expires time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL sets the entry lifetime. Non-positive values keep the default.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxEntries bounds the number of cached page sets. When full, the
// oldest entry is evicted. Non-positive values keep the default.
func WithMaxEntries(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithSweepInterval sets how often expired entries are swept.
// Non-positive values keep the default.
func WithSweepInterval(d time.Duration) CacheOption {
	return func(c *Cache) {
		if d > 0 {
			c.sweepEvery = d
		}
	}
}

// NewCache creates a cache and starts its background sweeper.
// Call Close to stop the sweeper.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		entries:    make(map[string]*entry),
		ttl:        DefaultTTL,
		maxEntries: DefaultMaxEntries,
		sweepEvery: DefaultSweepInterval,
		now:        time.Now,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.sweep()
	return c
}

// Put stores a page set and returns its cache key.
func (c *Cache) Put(pages []string) string {
	key := keyFor(pages)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictExpiredLocked()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked()
	}

	now := c.now()
	c.entries[key] = &entry{
		pages:   pages,
		created: now,
		expires: now.Add(c.ttl),
	}
	return key
}

// Get returns the 1-based page at index for the given key, along with the
// total page count. Access refreshes the entry's expiry.
func (c *Cache) Get(key string, index int) (string, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", 0, ErrUnknownKey
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return "", 0, ErrUnknownKey
	}
	if index < 1 || index > len(e.pages) {
		return "", len(e.pages), fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(e.pages))
	}

	e.expires = c.now().Add(c.ttl)
	return e.pages[index-1], len(e.pages), nil
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evictExpiredLocked()
	return len(c.entries)
}

// Close stops the background sweeper. The cache remains usable.
func (c *Cache) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.evictExpiredLocked()
			c.mu.Unlock()
		}
	}
}

func (c *Cache) evictExpiredLocked() {
	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for key, e := range c.entries {
		if oldestKey == "" || e.created.Before(oldest) {
			oldestKey = key
			oldest = e.created
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// keyFor derives a content-addressed key from the page set.
func keyFor(pages []string) string {
	h := xxhash.New()
	for _, page := range pages {
		_, _ = h.WriteString(page)
		_, _ = h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
