package sensor

import (
	"codeberg.org/mutker/sensord/internal/errors"
	"github.com/d2r2/go-dht"
)

// DHT11 reads a DHT11 temperature/humidity sensor on a BCM pin through
// the go-dht bit-banging driver. Humidity is read on the wire but not
// part of the data model.
type DHT11 struct {
	pin int
}

func NewDHT11(pin int) *DHT11 {
	return &DHT11{pin: pin}
}

func (d *DHT11) ReadTemperature() (float64, error) {
	errFactory := errors.New()

	temperature, _, err := dht.ReadDHTxx(dht.DHT11, d.pin, false)
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrOperationFailed, err)
	}

	return float64(temperature), nil
}
