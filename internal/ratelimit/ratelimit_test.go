package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(limit int, window time.Duration) (*Limiter, *time.Time) {
	l := New(limit, window)
	current := time.Now()
	l.now = func() time.Time { return current }
	return l, &current
}

func TestLimiterAllowsUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("1.2.3.4"))
	}
	assert.False(t, l.Allow("1.2.3.4"))
}

func TestLimiterTracksClientsSeparately(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	defer l.Stop()

	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("5.6.7.8"))
}

func TestLimiterWindowSlides(t *testing.T) {
	l, current := newTestLimiter(2, time.Minute)
	defer l.Stop()

	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))

	*current = current.Add(61 * time.Second)
	assert.True(t, l.Allow("1.2.3.4"))
}
