package testutil

import "sync"

// Clock is a thread-safe fake wall clock for tests, counting in whole
// seconds like the answer queue's time_start and time_end fields.
//
// Unlike time.Now it only moves when told to, so timing-sensitive
// behaviour (study-time delays, remaining question time) can be tested
// to the exact second.
type Clock struct {
	mu  sync.Mutex
	now int64
}

// NewClock creates a clock set to the given epoch time.
func NewClock(start int64) *Clock {
	return &Clock{now: start}
}

// Now returns the current time in epoch seconds. Pass this method as a
// session's time source.
func (c *Clock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by the given number of seconds.
func (c *Clock) Advance(seconds int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += seconds
}

// Set jumps the clock to an absolute time.
func (c *Clock) Set(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
