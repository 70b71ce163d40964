// Package acquire runs the fixed-interval acquisition loop: read every
// sensor once, classify the round, persist it, then publish it to live
// consumers.
package acquire

import (
	"context"
	"time"

	"codeberg.org/mutker/sensord/internal/classify"
	"codeberg.org/mutker/sensord/internal/history"
	"codeberg.org/mutker/sensord/internal/logger"
	"codeberg.org/mutker/sensord/internal/sensor"
	"codeberg.org/mutker/sensord/internal/store"
	"codeberg.org/mutker/sensord/internal/telemetry"
)

// Loop drives the acquisition cycle. One goroutine runs the cycle; any
// number of goroutines may read the presentation surface concurrently.
type Loop struct {
	reader     Reader
	log        Appender
	history    *history.Buffer
	telemetry  telemetry.Collector
	thresholds *classify.Store
	interval   time.Duration
	logger     logger.Logger
}

func NewLoop(
	reader Reader,
	log Appender,
	hist *history.Buffer,
	collector telemetry.Collector,
	thresholds *classify.Store,
	interval time.Duration,
	lgr logger.Logger,
) *Loop {
	if lgr == nil {
		lgr = logger.Default()
	}

	return &Loop{
		reader:     reader,
		log:        log,
		history:    hist,
		telemetry:  collector,
		thresholds: thresholds,
		interval:   interval,
		logger:     lgr,
	}
}

// Run executes rounds until the context is cancelled. The first round
// starts immediately; subsequent rounds follow at the configured
// interval. Cancellation is honored between rounds: an in-flight round
// finishes, then Run returns.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info().
		Dur("interval", l.interval).
		Msg("Starting acquisition loop")

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		l.runRound(ctx)

		select {
		case <-ctx.Done():
			l.logger.Info().Msg("Acquisition loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// runRound performs one full cycle. Persistence precedes publication,
// so a sample visible to live consumers is already in the log (or its
// append failure already reported).
func (l *Loop) runRound(ctx context.Context) {
	sample := l.reader.ReadRound()
	verdict := classify.Classify(sample)
	record := store.Record{Sample: sample, Verdict: verdict}

	if err := l.log.Append(record); err != nil {
		// One lost row, not a dead loop.
		l.logger.Error().Err(err).Msg("Failed to append record")
	}

	l.history.Publish(sample)

	// Thresholds are re-read every round, so a change takes effect no
	// later than the next iteration.
	if summary := classify.FaultSummary(sample, l.thresholds.Snapshot()); summary != "" {
		l.logger.Warn().Str("fault", summary).Msg("Fault condition active")
	}

	if l.telemetry != nil {
		if err := l.telemetry.Record(ctx, &record); err != nil {
			l.logger.Debug().Err(err).Msg("Failed to record telemetry")
		}
	}

	l.logger.Debug().
		Time("timestamp", sample.Timestamp).
		Bool("anomalous", verdict.Anomalous).
		Msg("Acquisition round complete")
}

// Snapshot returns the recent-sample window, oldest first.
func (l *Loop) Snapshot() []sensor.Sample {
	return l.history.Snapshot()
}

// CurrentFaultSummary evaluates the most recent sample against the
// thresholds as they are right now. Empty string means no fault.
func (l *Loop) CurrentFaultSummary() string {
	latest, ok := l.history.Latest()
	if !ok {
		return ""
	}

	return classify.FaultSummary(latest, l.thresholds.Snapshot())
}
