package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(24 * time.Hour)
	ctx := context.Background()

	_, ok := c.Get(ctx, "en", "43003016")
	assert.False(t, ok)

	c.Set(ctx, "en", "43003016", "For God loved the world")

	text, ok := c.Get(ctx, "en", "43003016")
	require.True(t, ok)
	assert.Equal(t, "For God loved the world", text)
}

func TestMemoryCacheKeysAreLanguageScoped(t *testing.T) {
	c := NewMemoryCache(24 * time.Hour)
	ctx := context.Background()

	c.Set(ctx, "en", "1001001", "In the beginning")

	_, ok := c.Get(ctx, "da", "1001001")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(24 * time.Hour)
	ctx := context.Background()

	now := time.Now()
	c.now = func() time.Time { return now }
	c.Set(ctx, "en", "43003016", "For God loved the world")

	// Just inside the TTL.
	c.now = func() time.Time { return now.Add(23 * time.Hour) }
	_, ok := c.Get(ctx, "en", "43003016")
	assert.True(t, ok)

	// Past the TTL: miss, and the entry is evicted.
	c.now = func() time.Time { return now.Add(25 * time.Hour) }
	_, ok = c.Get(ctx, "en", "43003016")
	assert.False(t, ok)

	c.mu.RLock()
	_, present := c.entries[verseKey("en", "43003016")]
	c.mu.RUnlock()
	assert.False(t, present)
}

func TestMemoryCacheConcurrentAccess(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Set(ctx, "en", "43003016", "text")
		}()
		go func() {
			defer wg.Done()
			c.Get(ctx, "en", "43003016")
		}()
	}
	wg.Wait()

	text, ok := c.Get(ctx, "en", "43003016")
	require.True(t, ok)
	assert.Equal(t, "text", text)
}
