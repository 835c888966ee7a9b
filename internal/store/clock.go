package store

import "sync/atomic"

// Clock supplies the seq numbers that order fires within a run.
type Clock interface {
	Next() int64
}

// LogicalClock is a monotonic counter. The first Next returns 1.
//
// Thread-safety: LogicalClock is safe for concurrent use (atomic operations).
type LogicalClock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *LogicalClock {
	return &LogicalClock{}
}

// Next returns the next sequence number and increments the clock.
func (c *LogicalClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *LogicalClock) Current() int64 {
	return c.seq.Load()
}
