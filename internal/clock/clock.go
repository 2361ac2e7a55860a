package clock

import (
	"sync"
	"time"
)

// StampLayout renders times as "Monday 19 October 2026 14:03:05".
const StampLayout = "Monday 02 January 2006 15:04:05"

// Clock is the time source used for welcome banners and session bookkeeping.
// The zero value is not usable; use System or New.
type Clock struct {
	mu     sync.RWMutex
	now    func() time.Time
	offset time.Duration
}

// System returns a clock backed by time.Now.
func System() *Clock {
	return &Clock{now: time.Now}
}

// New creates a clock frozen at base. Advance moves it forward.
func New(base time.Time) *Clock {
	return &Clock{now: func() time.Time { return base }}
}

// Now returns the current time as seen by the clock.
func (c *Clock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now().Add(c.offset)
}

// Advance moves the clock forward and returns the updated time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.offset += d
	now := c.now().Add(c.offset)
	c.mu.Unlock()
	return now
}

// Stamp formats the current time with StampLayout.
func (c *Clock) Stamp() string {
	return c.Now().Format(StampLayout)
}
