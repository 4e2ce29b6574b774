package counters

import "sync/atomic"

// StrictMonotonousCounter tracks a strictly increasing uint64. Updates with a
// value at or below the stored one are rejected, which makes it suitable for
// skipping already-processed sequence numbers. Implemented with non-blocking
// atomic operations only.
type StrictMonotonousCounter struct {
	atomicCounter uint64
}

// NewMonotonousCounter creates a new counter with the given initial value.
func NewMonotonousCounter(initialValue uint64) StrictMonotonousCounter {
	return StrictMonotonousCounter{
		atomicCounter: initialValue,
	}
}

// Set updates the counter if and only if newValue is strictly larger than the
// stored value. Returns false if the stored value is equal or larger.
func (c *StrictMonotonousCounter) Set(newValue uint64) bool {
	for {
		oldValue := c.Value()
		if newValue <= oldValue {
			return false
		}
		if atomic.CompareAndSwapUint64(&c.atomicCounter, oldValue, newValue) {
			return true
		}
	}
}

// Value returns the current value.
func (c *StrictMonotonousCounter) Value() uint64 {
	return atomic.LoadUint64(&c.atomicCounter)
}
