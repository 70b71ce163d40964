// Package classify decides whether an acquisition round is anomalous and
// derives the live fault summary shown by the presentation layer.
package classify

import "codeberg.org/mutker/sensord/internal/sensor"

// Plausible operating ranges. Readings outside these are flagged in the
// persisted log regardless of the UI thresholds.
const (
	TemperatureMin = 0.0
	TemperatureMax = 50.0
	DistanceMin    = 0.0
	DistanceMax    = 400.0
)

// Verdict is the persisted classification of one sample. It is always
// paired with the sample it was derived from.
type Verdict struct {
	Anomalous bool
}

// Classify maps a sample to its verdict. Pure function: a missing
// temperature or distance is itself a fault, otherwise readings outside
// the operating ranges are anomalous, boundaries included as normal.
// The gas reading never contributes to the persisted verdict; it only
// feeds the live fault summary.
func Classify(s sensor.Sample) Verdict {
	if !s.Temperature.Valid || !s.Distance.Valid {
		return Verdict{Anomalous: true}
	}

	if s.Temperature.Value < TemperatureMin || s.Temperature.Value > TemperatureMax {
		return Verdict{Anomalous: true}
	}

	if s.Distance.Value < DistanceMin || s.Distance.Value > DistanceMax {
		return Verdict{Anomalous: true}
	}

	return Verdict{}
}

const (
	faultMissing  = "Critical fault: Sensor data missing!"
	faultDetected = "Critical fault detected!"
)

// FaultSummary derives the display-only fault banner for a sample against
// the current thresholds. It is never persisted. Unlike Classify, the gas
// reading does participate here.
func FaultSummary(s sensor.Sample, th Thresholds) string {
	if !s.Temperature.Valid || !s.Distance.Valid {
		return faultMissing
	}

	gas := 0
	if s.GasPresent {
		gas = 1
	}

	if s.Temperature.Value > th.Temperature || gas > th.Gas {
		return faultDetected
	}

	if s.Distance.Value < DistanceMin || s.Distance.Value > DistanceMax {
		return faultDetected
	}

	return ""
}
