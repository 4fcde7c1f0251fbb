package ratelimit

import (
	"sync"
	"time"
)

// Limiter enforces a per-identity sliding window: at most limit requests per
// window. State is process-local and resets on restart. Entries older than
// the window are pruned lazily on each check, so an idle identity costs at
// most one stale slice.
type Limiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	entries map[string]*entry

	now func() time.Time
}

// Each identity carries its own lock so concurrent checks from unrelated
// identities never serialize on shared state.
type entry struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// New returns a Limiter allowing limit requests per window per identity.
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow reports whether the identity may send another message, recording the
// attempt when it may. Denied attempts are not recorded, so a blocked caller
// does not push their own window further out.
func (l *Limiter) Allow(identity string) bool {
	e := l.entry(identity)
	now := l.now()

	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.timestamps[:0]
	for _, ts := range e.timestamps {
		if now.Sub(ts) < l.window {
			kept = append(kept, ts)
		}
	}
	e.timestamps = kept

	if len(e.timestamps) >= l.limit {
		return false
	}
	e.timestamps = append(e.timestamps, now)
	return true
}

func (l *Limiter) entry(identity string) *entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[identity]
	if !ok {
		e = &entry{}
		l.entries[identity] = e
	}
	return e
}
