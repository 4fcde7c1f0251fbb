package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func newTestLimiter(limit int, window time.Duration) (*Limiter, *time.Time) {
	l := New(limit, window)
	current := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }
	return l, &current
}

func TestAllowUpToLimit(t *testing.T) {
	l, _ := newTestLimiter(10, time.Minute)

	for i := 0; i < 10; i++ {
		if !l.Allow("u1") {
			t.Fatalf("request %d unexpectedly denied", i+1)
		}
	}
	if l.Allow("u1") {
		t.Fatal("request 11 unexpectedly allowed")
	}
}

func TestDeniedAttemptsAreNotRecorded(t *testing.T) {
	l, now := newTestLimiter(2, time.Minute)

	l.Allow("u1")
	l.Allow("u1")
	for i := 0; i < 5; i++ {
		if l.Allow("u1") {
			t.Fatal("over-limit request allowed")
		}
	}

	// Only the two allowed timestamps should age out; the denials must not
	// have extended the window.
	*now = now.Add(time.Minute + time.Second)
	if !l.Allow("u1") {
		t.Fatal("expected capacity after window elapsed")
	}
}

func TestCapacityRestoredByPrunedEntries(t *testing.T) {
	l, now := newTestLimiter(3, time.Minute)

	l.Allow("u1")
	*now = now.Add(30 * time.Second)
	l.Allow("u1")
	l.Allow("u1")
	if l.Allow("u1") {
		t.Fatal("expected denial at ceiling")
	}

	// 40s later only the first timestamp is outside the window, so exactly
	// one slot returns.
	*now = now.Add(40 * time.Second)
	if !l.Allow("u1") {
		t.Fatal("expected one slot after oldest entry expired")
	}
	if l.Allow("u1") {
		t.Fatal("expected denial after the freed slot was used")
	}
}

func TestIdentitiesAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	if !l.Allow("u1") {
		t.Fatal("u1 denied")
	}
	if !l.Allow("u2") {
		t.Fatal("u2 denied despite separate window")
	}
	if l.Allow("u1") {
		t.Fatal("u1 second request allowed")
	}
}

func TestConcurrentChecksDoNotCorrupt(t *testing.T) {
	l := New(50, time.Minute)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Allow("u1") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Fatalf("expected exactly 50 allowed, got %d", allowed)
	}
}
