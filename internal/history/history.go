// Package history keeps a bounded, insertion-ordered window of recent
// samples for live consumers.
package history

import (
	"sync"

	"codeberg.org/mutker/sensord/internal/sensor"
)

// DefaultCapacity bounds the window when no explicit capacity is given.
const DefaultCapacity = 100

// Buffer is a fixed-capacity sliding window over the most recent
// samples. Single writer (the acquisition loop), multiple readers;
// readers take an immutable snapshot instead of holding the lock across
// their own processing.
type Buffer struct {
	mu       sync.RWMutex
	samples  []sensor.Sample
	capacity int
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Buffer{
		samples:  make([]sensor.Sample, 0, capacity),
		capacity: capacity,
	}
}

// Publish appends a sample, evicting from the front once the window is
// full. Strict FIFO: the oldest sample always goes first.
func (b *Buffer) Publish(s sensor.Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.samples) >= b.capacity {
		copy(b.samples, b.samples[1:])
		b.samples[len(b.samples)-1] = s
		return
	}

	b.samples = append(b.samples, s)
}

// Snapshot returns a copy of the window consistent with a single point
// in the publish sequence, oldest first.
func (b *Buffer) Snapshot() []sensor.Sample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]sensor.Sample, len(b.samples))
	copy(out, b.samples)

	return out
}

// Latest returns the most recently published sample.
func (b *Buffer) Latest() (sensor.Sample, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.samples) == 0 {
		return sensor.Sample{}, false
	}

	return b.samples[len(b.samples)-1], true
}

// Len returns the current window length.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.samples)
}
