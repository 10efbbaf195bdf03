// Package cache holds the remote-fetch result caches. A cache is an
// optimization only: misses and cache errors must never fail a request.
package cache

import (
	"context"
	"sync"
	"time"
)

// VerseCache stores cleaned verse text keyed by verse id and language.
type VerseCache interface {
	Get(ctx context.Context, lang, verseID string) (string, bool)
	Set(ctx context.Context, lang, verseID, text string)
}

type memoryEntry struct {
	text      string
	fetchedAt time.Time
}

// MemoryCache is a process-local VerseCache with a fixed TTL. Expiry is
// checked lazily on read; there is no background sweep, so an entry for
// a verse nobody asks about again simply lingers.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration

	// now is swappable for tests.
	now func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func verseKey(lang, verseID string) string {
	return lang + ":" + verseID
}

func (c *MemoryCache) Get(_ context.Context, lang, verseID string) (string, bool) {
	key := verseKey(lang, verseID)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}

	if c.now().Sub(entry.fetchedAt) > c.ttl {
		c.mu.Lock()
		// Recheck under the write lock: a concurrent Set may have
		// refreshed the entry.
		if current, ok := c.entries[key]; ok && current.fetchedAt.Equal(entry.fetchedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false
	}

	return entry.text, true
}

func (c *MemoryCache) Set(_ context.Context, lang, verseID, text string) {
	c.mu.Lock()
	c.entries[verseKey(lang, verseID)] = memoryEntry{text: text, fetchedAt: c.now()}
	c.mu.Unlock()
}
