package sensor

import (
	"time"

	"codeberg.org/mutker/sensord/internal/gpio"
	"codeberg.org/mutker/sensord/internal/logger"
	"codeberg.org/mutker/sensord/internal/probe"
)

// TemperatureReader is the opaque synchronous temperature/humidity read.
// Implementations own their wire protocol; callers only see a value or a
// failure.
type TemperatureReader interface {
	ReadTemperature() (float64, error)
}

// RoundReader performs one synchronous read from each sensor.
type RoundReader struct {
	temp   TemperatureReader
	port   gpio.Port
	gasPin gpio.Pin
	prober probe.Prober
	clock  gpio.Clock
}

func NewRoundReader(temp TemperatureReader, port gpio.Port, gasPin gpio.Pin, prober probe.Prober, clock gpio.Clock) *RoundReader {
	return &RoundReader{
		temp:   temp,
		port:   port,
		gasPin: gasPin,
		prober: prober,
		clock:  clock,
	}
}

// ReadRound queries all three sensors once and stamps the result. A
// failed sub-read yields an absent field for this round; the next
// scheduled round is the retry mechanism. The call never blocks longer
// than the probe's timeout ceiling plus the temperature read itself.
func (r *RoundReader) ReadRound() Sample {
	sample := Sample{Timestamp: r.clock.Now().Truncate(time.Second)}

	if value, err := r.temp.ReadTemperature(); err != nil {
		logger.Debug().Err(err).Msg("Temperature read failed")
	} else {
		sample.Temperature = Some(value)
	}

	// The MQ sensor's digital output is active low.
	level, err := r.port.Read(r.gasPin)
	if err != nil {
		logger.Debug().Err(err).Msg("Gas line read failed")
	}
	sample.GasPresent = err == nil && level == gpio.Low

	if distance, ok := r.prober.Measure(); ok {
		sample.Distance = Some(distance)
	}

	return sample
}
