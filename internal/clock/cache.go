package clock

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	quote     Quote
	expiresAt time.Time
}

// quoteCache keeps feed responses for a fixed TTL. A nil cache is valid and
// never hits.
type quoteCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

func newQuoteCache(ttl time.Duration) *quoteCache {
	if ttl <= 0 {
		return nil
	}
	return &quoteCache{store: make(map[string]cacheEntry), ttl: ttl, now: time.Now}
}

func (c *quoteCache) Get(key string) (Quote, bool) {
	if c == nil {
		return Quote{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[key]
	if !ok || c.now().After(entry.expiresAt) {
		return Quote{}, false
	}
	return entry.quote, true
}

func (c *quoteCache) Set(key string, q Quote) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = cacheEntry{quote: q, expiresAt: c.now().Add(c.ttl)}
}

func (c *quoteCache) prune() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, k)
		}
	}
}

// cleanup removes expired entries every interval until ctx is done.
func (c *quoteCache) cleanup(ctx context.Context, interval time.Duration) {
	if c == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.prune()
		}
	}
}
