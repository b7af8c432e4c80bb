package ledger

import (
	"sync"
	"time"
)

// Cooldown gates how often the read path re-runs schedule extension. A
// window of zero or less disables the gate. The clock is injectable so
// tests control elapsed time.
type Cooldown struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	last   time.Time
}

// NewCooldown builds a Cooldown; a nil clock falls back to time.Now.
func NewCooldown(window time.Duration, now func() time.Time) *Cooldown {
	if now == nil {
		now = time.Now
	}
	return &Cooldown{window: window, now: now}
}

// Allow reports whether the window has elapsed since the last allowed call,
// recording the call when it has.
func (c *Cooldown) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.window <= 0 {
		return true
	}
	t := c.now()
	if !c.last.IsZero() && t.Sub(c.last) < c.window {
		return false
	}
	c.last = t
	return true
}

// Reset clears the gate so the next Allow passes. Mutations call it so the
// following read observes a fresh extension.
func (c *Cooldown) Reset() {
	c.mu.Lock()
	c.last = time.Time{}
	c.mu.Unlock()
}
