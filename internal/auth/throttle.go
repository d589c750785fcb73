package auth

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle paces login attempts per client key (usually the remote IP).
type Throttle struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*throttleEntry
	idle    time.Duration
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewThrottle allows burst attempts at once, refilling at perSecond.
func NewThrottle(perSecond float64, burst int) *Throttle {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	return &Throttle{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*throttleEntry),
		idle:    30 * time.Minute,
	}
}

// Allow reports whether key may attempt a login now.
func (t *Throttle) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.clients[key]
	if !ok {
		e = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.clients[key] = e
	}
	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

// Reset forgets key, typically after a successful login.
func (t *Throttle) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.clients, key)
}

// Len returns the number of tracked clients.
func (t *Throttle) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.clients)
}

// Sweep drops clients idle since before cutoff.
func (t *Throttle) Sweep(cutoff time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, e := range t.clients {
		if e.lastSeen.Before(cutoff) {
			delete(t.clients, key)
		}
	}
}

// StartCleanup sweeps idle clients every interval until ctx ends.
func (t *Throttle) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				t.Sweep(now.Add(-t.idle))
			}
		}
	}()
}
