package services

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// CooldownTracker enforces a minimum interval between drops per user.
// Records live in memory only and reset when the process restarts.
type CooldownTracker struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	duration time.Duration
	lastDrop map[int64]time.Time
}

// NewCooldownTracker creates a tracker with the given window
func NewCooldownTracker(clock clockwork.Clock, duration time.Duration) *CooldownTracker {
	return &CooldownTracker{
		clock:    clock,
		duration: duration,
		lastDrop: make(map[int64]time.Time),
	}
}

// TryCharge starts a new cooldown window for userID, or returns a
// *CooldownError with the time left in the current one. The check and the
// charge happen under one lock so concurrent attempts cannot both pass.
func (t *CooldownTracker) TryCharge(userID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	if last, ok := t.lastDrop[userID]; ok {
		if remaining := last.Add(t.duration).Sub(now); remaining > 0 {
			return &CooldownError{Remaining: remaining}
		}
	}

	t.lastDrop[userID] = now
	return nil
}

// Remaining returns the time left before userID may drop again
func (t *CooldownTracker) Remaining(userID int64) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.lastDrop[userID]
	if !ok {
		return 0
	}
	if remaining := last.Add(t.duration).Sub(t.clock.Now()); remaining > 0 {
		return remaining
	}
	return 0
}

// Prune forgets records whose window has closed and returns how many
func (t *CooldownTracker) Prune() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock.Now()
	pruned := 0
	for userID, last := range t.lastDrop {
		if !now.Before(last.Add(t.duration)) {
			delete(t.lastDrop, userID)
			pruned++
		}
	}
	return pruned
}
