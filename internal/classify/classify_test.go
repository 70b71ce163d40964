package classify_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/sensord/internal/classify"
	"codeberg.org/mutker/sensord/internal/sensor"
	"github.com/stretchr/testify/assert"
)

func makeSample(temp, distance sensor.Measurement, gas bool) sensor.Sample {
	return sensor.Sample{
		Timestamp:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Temperature: temp,
		GasPresent:  gas,
		Distance:    distance,
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		temp      sensor.Measurement
		distance  sensor.Measurement
		gas       bool
		anomalous bool
	}{
		{"nominal", sensor.Some(23.5), sensor.Some(120.34), false, false},
		{"temperature absent", sensor.None(), sensor.Some(120.0), false, true},
		{"distance absent", sensor.Some(23.5), sensor.None(), false, true},
		{"both absent", sensor.None(), sensor.None(), true, true},
		{"temperature at lower bound", sensor.Some(0), sensor.Some(100), false, false},
		{"temperature at upper bound", sensor.Some(50), sensor.Some(100), false, false},
		{"temperature just above bound", sensor.Some(50.01), sensor.Some(100), false, true},
		{"temperature below bound", sensor.Some(-0.1), sensor.Some(100), false, true},
		{"temperature far above bound", sensor.Some(55.0), sensor.Some(120.0), false, true},
		{"distance at lower bound", sensor.Some(20), sensor.Some(0), false, false},
		{"distance at upper bound", sensor.Some(20), sensor.Some(400), false, false},
		{"distance just above bound", sensor.Some(20), sensor.Some(400.01), false, true},
		{"distance below bound", sensor.Some(20), sensor.Some(-0.01), false, true},
		{"gas alone is never anomalous", sensor.Some(23.5), sensor.Some(120.34), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := classify.Classify(makeSample(tt.temp, tt.distance, tt.gas))
			assert.Equal(t, tt.anomalous, verdict.Anomalous)
		})
	}
}

func TestFaultSummary(t *testing.T) {
	th := classify.Thresholds{Temperature: 50, Gas: 1}

	t.Run("no fault", func(t *testing.T) {
		s := makeSample(sensor.Some(23.5), sensor.Some(120.34), false)
		assert.Empty(t, classify.FaultSummary(s, th))
	})

	t.Run("missing data", func(t *testing.T) {
		s := makeSample(sensor.None(), sensor.Some(120.0), false)
		assert.Equal(t, "Critical fault: Sensor data missing!", classify.FaultSummary(s, th))
	})

	t.Run("temperature above threshold", func(t *testing.T) {
		s := makeSample(sensor.Some(60), sensor.Some(120.0), false)
		assert.Equal(t, "Critical fault detected!", classify.FaultSummary(s, th))
	})

	t.Run("gas above threshold", func(t *testing.T) {
		s := makeSample(sensor.Some(23.5), sensor.Some(120.0), true)
		summary := classify.FaultSummary(s, classify.Thresholds{Temperature: 50, Gas: 0})
		assert.Equal(t, "Critical fault detected!", summary)
	})

	t.Run("gas at threshold", func(t *testing.T) {
		s := makeSample(sensor.Some(23.5), sensor.Some(120.0), true)
		assert.Empty(t, classify.FaultSummary(s, th))
	})

	t.Run("distance out of range", func(t *testing.T) {
		s := makeSample(sensor.Some(23.5), sensor.Some(450), false)
		assert.Equal(t, "Critical fault detected!", classify.FaultSummary(s, th))
	})
}

func TestThresholdStore(t *testing.T) {
	store := classify.NewStore(classify.Thresholds{Temperature: 50, Gas: 1})

	th := store.Snapshot()
	assert.InDelta(t, 50.0, th.Temperature, 0.001)
	assert.Equal(t, 1, th.Gas)

	store.SetTemperature(42.5)
	store.SetGas(0)

	th = store.Snapshot()
	assert.InDelta(t, 42.5, th.Temperature, 0.001)
	assert.Equal(t, 0, th.Gas)

	store.SetGas(7)
	assert.Equal(t, 1, store.Snapshot().Gas, "gas threshold clamps to 0 or 1")
}
