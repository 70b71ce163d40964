package telemetry

import "codeberg.org/mutker/sensord/internal/errors"

const (
	defaultDirPerm = 0o755
	defaultDBPath  = "/var/lib/sensord/telemetry.db"
)

type Config struct {
	Enabled bool
	DBPath  string
}

func DefaultConfig() Config {
	return Config{
		DBPath: defaultDBPath,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Enabled && c.DBPath == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "telemetry database path must be set")
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}

	return 0
}
