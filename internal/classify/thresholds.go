package classify

import (
	"math"
	"sync/atomic"
)

// Thresholds is the pair of UI-owned limits the fault summary is
// evaluated against.
type Thresholds struct {
	Temperature float64
	Gas         int // 0 or 1
}

// Store holds the current thresholds. Single writer (the UI), multiple
// readers (the acquisition loop); each cell is read and written
// atomically, and one-iteration staleness is acceptable, so no lock is
// needed.
type Store struct {
	temperature atomic.Uint64
	gas         atomic.Int32
}

func NewStore(initial Thresholds) *Store {
	s := &Store{}
	s.SetTemperature(initial.Temperature)
	s.SetGas(initial.Gas)

	return s
}

func (s *Store) SetTemperature(v float64) {
	s.temperature.Store(math.Float64bits(v))
}

func (s *Store) SetGas(v int) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.gas.Store(int32(v))
}

// Snapshot returns the thresholds as of this instant.
func (s *Store) Snapshot() Thresholds {
	return Thresholds{
		Temperature: math.Float64frombits(s.temperature.Load()),
		Gas:         int(s.gas.Load()),
	}
}
