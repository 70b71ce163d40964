package config

import (
	"os"
	"time"

	"codeberg.org/mutker/sensord/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"

	defaultInterval     = 500 * time.Millisecond
	defaultLogPath      = "essentials_log.csv"
	defaultHistorySize  = 100
	defaultTempLimit    = 50.0
	defaultGasLimit     = 1
	defaultTelemetryDB  = "/var/lib/sensord/telemetry.db"
	defaultDHTPin       = 17
	defaultGasPin       = 27
	defaultTriggerPin   = 23
	defaultEchoPin      = 24
	configEnvVar        = "SENSORD_CONFIG"
	configName          = "sensord"
	configType          = "toml"
	systemConfigDirPath = "/etc"
)

type Config struct {
	// Interval is the pause between acquisition rounds. Headless capture
	// profiles typically run at 100ms, interactive deployments at 500ms.
	Interval time.Duration `mapstructure:"interval"`

	// LogPath is the CSV log the acquisition loop appends to.
	LogPath string `mapstructure:"log_path"`

	// HistorySize bounds the in-memory window kept for live consumers.
	HistorySize int `mapstructure:"history_size"`

	// TemperatureThreshold and GasThreshold seed the live fault display.
	// They never affect the persisted anomaly flag.
	TemperatureThreshold float64 `mapstructure:"temperature_threshold"`
	GasThreshold         int     `mapstructure:"gas_threshold"`

	LogLevel    string `mapstructure:"log_level"`
	Telemetry   bool   `mapstructure:"telemetry"`
	TelemetryDB string `mapstructure:"database"`

	// BCM pin numbers for the attached sensors.
	DHTPin     int `mapstructure:"dht_pin"`
	GasPin     int `mapstructure:"gas_pin"`
	TriggerPin int `mapstructure:"trigger_pin"`
	EchoPin    int `mapstructure:"echo_pin"`
}

func Load() (*Config, error) {
	errFactory := errors.New()
	v := viper.New()

	v.SetDefault("interval", defaultInterval)
	v.SetDefault("log_path", defaultLogPath)
	v.SetDefault("history_size", defaultHistorySize)
	v.SetDefault("temperature_threshold", defaultTempLimit)
	v.SetDefault("gas_threshold", defaultGasLimit)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("telemetry", false)
	v.SetDefault("database", defaultTelemetryDB)
	v.SetDefault("dht_pin", defaultDHTPin)
	v.SetDefault("gas_pin", defaultGasPin)
	v.SetDefault("trigger_pin", defaultTriggerPin)
	v.SetDefault("echo_pin", defaultEchoPin)

	fs := pflag.NewFlagSet(configName, pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Duration("interval", defaultInterval, "Pause between acquisition rounds")
	fs.String("log-path", defaultLogPath, "Path to the CSV log")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Bool("telemetry", false, "Enable the SQLite telemetry recorder")
	fs.String("database", defaultTelemetryDB, "Path to the telemetry database")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	bindings := map[string]string{
		"interval":  "interval",
		"log-path":  "log_path",
		"log-level": "log_level",
		"telemetry": "telemetry",
		"database":  "database",
	}
	for flagName, key := range bindings {
		if f := fs.Lookup(flagName); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
			}
		}
	}

	if path := os.Getenv(configEnvVar); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(systemConfigDirPath)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.WithMessage(errors.ErrReadConfig,
				"Failed to read config file").WithData(err.Error())
		}
	}

	v.SetEnvPrefix(configName)
	v.AutomaticEnv()

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval.String())
	}
	if c.HistorySize <= 0 {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "history_size must be positive")
	}
	if c.LogPath == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "log_path must not be empty")
	}
	if c.Telemetry && c.TelemetryDB == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "database must be set when telemetry is enabled")
	}
	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}

// IsDebug returns whether debug logging is requested
func (c *Config) IsDebug() bool {
	return LogLevel(c.LogLevel) == LogLevelDebug
}

// IsVerbose returns whether info-level logging is requested
func (c *Config) IsVerbose() bool {
	return LogLevel(c.LogLevel) == LogLevelInfo || c.IsDebug()
}
