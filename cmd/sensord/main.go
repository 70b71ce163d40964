package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/sensord/internal/acquire"
	"codeberg.org/mutker/sensord/internal/classify"
	"codeberg.org/mutker/sensord/internal/config"
	"codeberg.org/mutker/sensord/internal/gpio"
	"codeberg.org/mutker/sensord/internal/history"
	"codeberg.org/mutker/sensord/internal/logger"
	"codeberg.org/mutker/sensord/internal/pid"
	"codeberg.org/mutker/sensord/internal/probe"
	"codeberg.org/mutker/sensord/internal/sensor"
	"codeberg.org/mutker/sensord/internal/store"
	"codeberg.org/mutker/sensord/internal/telemetry"
)

var (
	cfg  *config.Config
	port *gpio.PeriphPort
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.IsDebug(), cfg.IsVerbose(), logger.IsService())
	logger.Debug().Msg("Config loaded")

	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}

	port, err = gpio.NewPeriphPort(
		[]gpio.Pin{gpio.Pin(cfg.TriggerPin)},
		[]gpio.Pin{gpio.Pin(cfg.GasPin), gpio.Pin(cfg.EchoPin)},
	)
	if err != nil {
		_ = pid.Remove()
		logger.Fatal().Err(err).Msg("failed to claim GPIO pins")
	}
}

func main() {
	defer cleanup()

	clock := gpio.SystemClock{}
	reader := sensor.NewRoundReader(
		sensor.NewDHT11(cfg.DHTPin),
		port,
		gpio.Pin(cfg.GasPin),
		probe.New(port, gpio.Pin(cfg.TriggerPin), gpio.Pin(cfg.EchoPin), clock),
		clock,
	)

	log := store.NewCSVLog(cfg.LogPath)
	if err := log.EnsureInitialized(); err != nil {
		// Fatal skips deferred calls, so release hardware first.
		cleanup()
		logger.Fatal().Err(err).Msg("failed to initialize log store")
	}

	collector, err := telemetry.NewService(telemetry.Config{
		Enabled: cfg.Telemetry,
		DBPath:  cfg.TelemetryDB,
	})
	if err != nil {
		cleanup()
		logger.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		if err := collector.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close telemetry")
		}
	}()

	thresholds := classify.NewStore(classify.Thresholds{
		Temperature: cfg.TemperatureThreshold,
		Gas:         cfg.GasThreshold,
	})

	loop := acquire.NewLoop(
		reader,
		log,
		history.NewBuffer(cfg.HistorySize),
		collector,
		thresholds,
		cfg.Interval,
		logger.Default(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := loop.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in acquisition loop")
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup() {
	if err := port.Release(); err != nil {
		logger.Error().Err(err).Msg("failed to release GPIO pins")
	}

	if err := pid.Remove(); err != nil {
		logger.Error().Err(err).Msg("failed to remove PID file")
	}

	logger.Info().Msg("Shutdown completed")
}
