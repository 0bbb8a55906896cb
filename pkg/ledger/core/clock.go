package core

// LamportClock is the monotone logical counter of §4.1. It is mutated only
// from the Coordinator's single goroutine, so unlike the source's
// mutex-guarded counter, no internal locking is needed (§9 "Shared-state
// cycle").
type LamportClock struct {
	counter uint64
}

// NewLamportClock returns a clock starting at 0.
func NewLamportClock() *LamportClock {
	return &LamportClock{}
}

// Tick increments the counter for a local event and returns the new value.
func (c *LamportClock) Tick() uint64 {
	c.counter++
	return c.counter
}

// Observe merges a remote timestamp: counter <- max(counter, remote) + 1.
func (c *LamportClock) Observe(remote uint64) {
	if remote > c.counter {
		c.counter = remote
	}
	c.counter++
}

// Read returns the counter without modifying it.
func (c *LamportClock) Read() uint64 {
	return c.counter
}
