package gpio

import (
	"fmt"
	"sync"

	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/logger"
	periphgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PeriphPort drives Raspberry Pi GPIO lines through periph.io.
type PeriphPort struct {
	pins        map[Pin]periphgpio.PinIO
	outputs     map[Pin]bool
	releaseOnce sync.Once
	releaseErr  error
}

// NewPeriphPort initializes the GPIO host and claims the given pins.
// Output pins are driven low on claim. Any claim failure is returned to
// the caller, which is expected to treat it as fatal.
func NewPeriphPort(outputs, inputs []Pin) (*PeriphPort, error) {
	errFactory := errors.New()

	if _, err := host.Init(); err != nil {
		return nil, errFactory.Wrap(errors.ErrHostInit, err)
	}

	p := &PeriphPort{
		pins:    make(map[Pin]periphgpio.PinIO, len(outputs)+len(inputs)),
		outputs: make(map[Pin]bool, len(outputs)),
	}

	for _, pin := range outputs {
		io := gpioreg.ByName(pinName(pin))
		if io == nil {
			return nil, errFactory.WithData(errors.ErrPinClaim, pinName(pin))
		}
		if err := io.Out(periphgpio.Low); err != nil {
			return nil, errFactory.Wrap(errors.ErrPinClaim, err)
		}
		p.pins[pin] = io
		p.outputs[pin] = true
	}

	for _, pin := range inputs {
		io := gpioreg.ByName(pinName(pin))
		if io == nil {
			return nil, errFactory.WithData(errors.ErrPinClaim, pinName(pin))
		}
		if err := io.In(periphgpio.PullNoChange, periphgpio.NoEdge); err != nil {
			return nil, errFactory.Wrap(errors.ErrPinClaim, err)
		}
		p.pins[pin] = io
	}

	logger.Debug().Int("outputs", len(outputs)).Int("inputs", len(inputs)).Msg("Claimed GPIO pins")

	return p, nil
}

func (p *PeriphPort) Write(pin Pin, level Level) error {
	errFactory := errors.New()

	io, ok := p.pins[pin]
	if !ok || !p.outputs[pin] {
		return errFactory.WithData(errors.ErrPinWrite, pinName(pin))
	}

	if err := io.Out(periphgpio.Level(level)); err != nil {
		return errFactory.Wrap(errors.ErrPinWrite, err)
	}

	return nil
}

func (p *PeriphPort) Read(pin Pin) (Level, error) {
	errFactory := errors.New()

	io, ok := p.pins[pin]
	if !ok {
		return Low, errFactory.WithData(errors.ErrPinRead, pinName(pin))
	}

	return Level(io.Read()), nil
}

// Release drives all outputs low and halts every claimed pin. Subsequent
// calls return the first result.
func (p *PeriphPort) Release() error {
	p.releaseOnce.Do(func() {
		errFactory := errors.New()

		for pin, io := range p.pins {
			if p.outputs[pin] {
				if err := io.Out(periphgpio.Low); err != nil && p.releaseErr == nil {
					p.releaseErr = errFactory.Wrap(errors.ErrPinRelease, err)
				}
			}
			if err := io.Halt(); err != nil && p.releaseErr == nil {
				p.releaseErr = errFactory.Wrap(errors.ErrPinRelease, err)
			}
		}

		logger.Debug().Msg("Released GPIO pins")
	})

	return p.releaseErr
}

func pinName(pin Pin) string {
	return fmt.Sprintf("GPIO%d", int(pin))
}
