package acquire

import (
	"codeberg.org/mutker/sensord/internal/sensor"
	"codeberg.org/mutker/sensord/internal/store"
)

// Reader produces one sample per acquisition round.
type Reader interface {
	ReadRound() sensor.Sample
}

// Appender persists one classified round.
type Appender interface {
	Append(record store.Record) error
}
