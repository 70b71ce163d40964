// Package sensor produces one coherent sample per acquisition round from
// the temperature, gas and distance sensors.
package sensor

import "time"

// Measurement is a numeric reading that may be absent. A failed sensor
// read is recorded as an invalid measurement, never as an error; the
// "N/A" token exists only at the serialization boundary.
type Measurement struct {
	Value float64
	Valid bool
}

// Some returns a present measurement.
func Some(value float64) Measurement {
	return Measurement{Value: value, Valid: true}
}

// None returns an absent measurement.
func None() Measurement {
	return Measurement{}
}

// Sample is the result of one read pass across all three sensors.
// Exactly one is produced per loop iteration; fields are never mixed
// across rounds.
type Sample struct {
	Timestamp   time.Time
	Temperature Measurement // Celsius
	GasPresent  bool        // digital line low means gas detected
	Distance    Measurement // centimeters
}
