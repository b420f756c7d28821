package testutil

import (
	"sync"
	"time"
)

// Epoch is the default start time for FixedClock: 2024-01-02T03:04:05Z.
var Epoch = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// FixedClock is a model.Clock that only moves when told to.
//
// Unlike model.SystemClock, two calls to Now() without an Advance in between
// return the same instant, so createdAt/updatedAt assertions are exact.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock reading start. A zero start selects Epoch.
func NewFixedClock(start time.Time) *FixedClock {
	if start.IsZero() {
		start = Epoch
	}
	return &FixedClock{now: start}
}

// Now returns the current instant without moving the clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new instant.
func (c *FixedClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
