package timer

import (
	"sync"
	"time"
)

// Clock reports monotonic elapsed time since an arbitrary origin.
type Clock interface {
	Elapsed() time.Duration
}

// SystemClock reads the process monotonic clock.
type SystemClock struct {
	origin time.Time
}

// NewSystemClock returns a clock whose origin is now.
func NewSystemClock() *SystemClock {
	return &SystemClock{origin: time.Now()}
}

// Elapsed implements Clock.
func (c *SystemClock) Elapsed() time.Duration {
	return time.Since(c.origin)
}

// ManualClock is a Clock advanced by hand.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

// Elapsed implements Clock.
func (c *ManualClock) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	c.mu.Unlock()
}

// Set moves the clock to an absolute reading. Moving it backwards makes the
// next State.Update panic.
func (c *ManualClock) Set(d time.Duration) {
	c.mu.Lock()
	c.now = d
	c.mu.Unlock()
}
