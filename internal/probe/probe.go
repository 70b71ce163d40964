// Package probe implements the HC-SR04 trigger/echo pulse-timing protocol.
package probe

import (
	"math"
	"time"

	"codeberg.org/mutker/sensord/internal/gpio"
	"codeberg.org/mutker/sensord/internal/logger"
)

const (
	// settleDelay keeps the trigger line low before each measurement.
	// Not strictly required by the sensor, but part of the established
	// timing contract.
	settleDelay = 100 * time.Millisecond

	// triggerPulse is the high pulse that starts a measurement.
	triggerPulse = 10 * time.Microsecond

	// echoTimeout bounds each wait for an echo edge.
	echoTimeout = 40 * time.Millisecond

	// cmPerSecond converts echo pulse duration to centimeters: half the
	// speed of sound in air, accounting for the round trip.
	cmPerSecond = 17150.0
)

// Prober yields a distance measurement or reports that none was available.
type Prober interface {
	Measure() (float64, bool)
}

// Probe times echo pulses on a pair of digital lines.
type Probe struct {
	port  gpio.Port
	trig  gpio.Pin
	echo  gpio.Pin
	clock gpio.Clock
}

func New(port gpio.Port, trig, echo gpio.Pin, clock gpio.Clock) *Probe {
	return &Probe{
		port:  port,
		trig:  trig,
		echo:  echo,
		clock: clock,
	}
}

// Measure runs one trigger/echo cycle and returns the distance in
// centimeters, rounded to two decimals. A missing or stuck echo yields
// (0, false); absence is an expected outcome, not an error. Every wait is
// bounded by a wall-clock deadline, so a call never blocks longer than the
// settle delay plus two echo timeouts.
func (p *Probe) Measure() (float64, bool) {
	if err := p.port.Write(p.trig, gpio.Low); err != nil {
		logger.Warn().Err(err).Msg("Failed to settle trigger line")
		return 0, false
	}
	p.clock.Sleep(settleDelay)

	if err := p.port.Write(p.trig, gpio.High); err != nil {
		logger.Warn().Err(err).Msg("Failed to raise trigger line")
		return 0, false
	}
	p.clock.Sleep(triggerPulse)
	if err := p.port.Write(p.trig, gpio.Low); err != nil {
		logger.Warn().Err(err).Msg("Failed to drop trigger line")
		return 0, false
	}

	// No echo edge within the timeout means no object in range.
	rise, ok := p.waitForEdge(gpio.High)
	if !ok {
		return 0, false
	}

	// An echo stuck high means the object is beyond the sensor's
	// unambiguous range, or a hardware fault.
	fall, ok := p.waitForEdge(gpio.Low)
	if !ok {
		return 0, false
	}

	distance := fall.Sub(rise).Seconds() * cmPerSecond

	return math.Round(distance*100) / 100, true
}

// waitForEdge polls the echo line until it reads the wanted level,
// returning the instant it did. The deadline is compared against the
// clock on every poll, never against an iteration count, so total wait
// time stays bounded regardless of scheduling jitter.
func (p *Probe) waitForEdge(want gpio.Level) (time.Time, bool) {
	deadline := p.clock.Now().Add(echoTimeout)

	for {
		level, err := p.port.Read(p.echo)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to read echo line")
			return time.Time{}, false
		}

		now := p.clock.Now()
		if level == want {
			return now, true
		}
		if now.After(deadline) {
			return time.Time{}, false
		}
	}
}
