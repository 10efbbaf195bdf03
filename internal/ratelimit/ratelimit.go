// Package ratelimit implements a per-client sliding-window limiter for
// the verse endpoint. The remote source is someone else's website; the
// limiter keeps one misbehaving client from turning this proxy into a
// scraper on their behalf.
package ratelimit

import (
	"sync"
	"time"
)

type Limiter struct {
	mu      sync.Mutex
	clients map[string][]time.Time
	limit   int
	window  time.Duration
	done    chan struct{}

	// now is swappable for tests.
	now func() time.Time
}

func New(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		clients: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		done:    make(chan struct{}),
		now:     time.Now,
	}

	go l.sweep()

	return l
}

// Allow records a request for the client and reports whether it stays
// within the window's limit.
func (l *Limiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := withinWindow(l.clients[client], now.Add(-l.window))

	if len(recent) >= l.limit {
		l.clients[client] = recent
		return false
	}

	l.clients[client] = append(recent, now)
	return true
}

// Stop ends the background sweep.
func (l *Limiter) Stop() {
	close(l.done)
}

func withinWindow(stamps []time.Time, cutoff time.Time) []time.Time {
	recent := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	return recent
}

// sweep drops clients that have gone quiet so the map does not grow
// with every address ever seen.
func (l *Limiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
		}

		l.mu.Lock()
		cutoff := l.now().Add(-l.window)
		for client, stamps := range l.clients {
			recent := withinWindow(stamps, cutoff)
			if len(recent) == 0 {
				delete(l.clients, client)
			} else {
				l.clients[client] = recent
			}
		}
		l.mu.Unlock()
	}
}
