// Package gpio abstracts the digital I/O lines the sensors hang off.
// The acquisition code only sees Port and Clock; the periph.io adapter
// in this package is the single place that touches real hardware.
package gpio

import "time"

// Level is the logic level of a digital line.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l == High {
		return "high"
	}

	return "low"
}

// Pin identifies a line by its BCM number.
type Pin int

// Port drives and samples digital lines.
type Port interface {
	// Write drives an output pin to the given level.
	Write(pin Pin, level Level) error

	// Read samples an input pin.
	Read(pin Pin) (Level, error)

	// Release returns all claimed pins to a safe state. Safe to call once;
	// callers must not reuse the port afterwards.
	Release() error
}

// Clock supplies time to the pulse-timing code so deadlines can be tested
// without real sleeps.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall-clock Clock used outside of tests.
type SystemClock struct{}

func (SystemClock) Now() time.Time        { return time.Now() }
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }
