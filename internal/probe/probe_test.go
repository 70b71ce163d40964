package probe_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/sensord/internal/gpio"
	"codeberg.org/mutker/sensord/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	trigPin = gpio.Pin(23)
	echoPin = gpio.Pin(24)
)

// fakeClock advances only when slept on or when the fake port is polled.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time        { return c.now }
func (c *fakeClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

// fakePort replays a scripted sequence of echo levels, one per poll, and
// charges the clock a fixed cost per poll. Once the script runs out the
// last level repeats.
type fakePort struct {
	clock    *fakeClock
	pollCost time.Duration
	echo     []gpio.Level
	pos      int
	writes   []gpio.Level
}

func (p *fakePort) Write(pin gpio.Pin, level gpio.Level) error {
	if pin == trigPin {
		p.writes = append(p.writes, level)
	}
	return nil
}

func (p *fakePort) Read(pin gpio.Pin) (gpio.Level, error) {
	p.clock.Sleep(p.pollCost)
	if p.pos < len(p.echo) {
		level := p.echo[p.pos]
		p.pos++
		return level, nil
	}
	if len(p.echo) == 0 {
		return gpio.Low, nil
	}
	return p.echo[len(p.echo)-1], nil
}

func (p *fakePort) Release() error { return nil }

func newFixture(pollCost time.Duration, echo []gpio.Level) (*probe.Probe, *fakePort, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	port := &fakePort{clock: clock, pollCost: pollCost, echo: echo}
	return probe.New(port, trigPin, echoPin, clock), port, clock
}

func TestMeasure(t *testing.T) {
	// Echo goes high on the third poll and low on the sixth. With a 1ms
	// poll cost the pulse lasts 3ms: 3ms * 17150cm/s = 51.45cm.
	echo := []gpio.Level{gpio.Low, gpio.Low, gpio.High, gpio.High, gpio.High, gpio.Low}
	p, port, _ := newFixture(time.Millisecond, echo)

	distance, ok := p.Measure()
	require.True(t, ok)
	assert.InDelta(t, 51.45, distance, 0.001)

	// Trigger sequence: settle low, pulse high, drop low.
	require.Equal(t, []gpio.Level{gpio.Low, gpio.High, gpio.Low}, port.writes)
}

func TestMeasureRounding(t *testing.T) {
	// 333µs per poll, pulse spans one poll: 0.000333s * 17150 = 5.71095,
	// which must round to 5.71.
	echo := []gpio.Level{gpio.High, gpio.Low}
	p, _, _ := newFixture(333*time.Microsecond, echo)

	distance, ok := p.Measure()
	require.True(t, ok)
	assert.InDelta(t, 5.71, distance, 0.0001)
}

func TestMeasureNoEcho(t *testing.T) {
	// Echo never rises: the wait must end once 40ms of polling elapsed,
	// regardless of how many polls that takes.
	p, port, clock := newFixture(time.Millisecond, nil)
	start := clock.now

	distance, ok := p.Measure()
	assert.False(t, ok)
	assert.Zero(t, distance)

	elapsed := clock.now.Sub(start)
	assert.Less(t, elapsed, 200*time.Millisecond, "wait must be deadline-bounded")
	assert.GreaterOrEqual(t, port.pos, 0)
}

func TestMeasureNoEchoCoarseScheduling(t *testing.T) {
	// A 25ms poll cost simulates heavy scheduling jitter: only a couple
	// of polls fit in the window, and the result is still absent.
	p, _, clock := newFixture(25*time.Millisecond, nil)
	start := clock.now

	_, ok := p.Measure()
	assert.False(t, ok)
	assert.Less(t, clock.now.Sub(start), 300*time.Millisecond)
}

func TestMeasureEchoStuckHigh(t *testing.T) {
	echo := []gpio.Level{gpio.High} // rises immediately, never falls
	p, _, _ := newFixture(time.Millisecond, echo)

	distance, ok := p.Measure()
	assert.False(t, ok)
	assert.Zero(t, distance)
}

type errorPort struct {
	fakePort
}

func (p *errorPort) Read(gpio.Pin) (gpio.Level, error) {
	return gpio.Low, assert.AnError
}

func TestMeasureReadFailure(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	port := &errorPort{fakePort{clock: clock, pollCost: time.Millisecond}}
	p := probe.New(port, trigPin, echoPin, clock)

	_, ok := p.Measure()
	assert.False(t, ok)
}
