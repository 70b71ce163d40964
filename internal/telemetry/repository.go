package telemetry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/logger"
	"codeberg.org/mutker/sensord/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRepository(cfg Config) (Repository, error) {
	errFactory := errors.New()

	if cfg.DBPath == "" {
		return nil, errFactory.WithMessage(errors.ErrInitTelemetry, "telemetry database path must be set")
	}

	logger.Debug().Msgf("Initializing telemetry repository at: %s", cfg.DBPath)

	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(errors.ErrInitTelemetry, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal=WAL")
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInitTelemetry, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteRepository{
		db: db,
	}, nil
}

func (r *sqliteRepository) Store(ctx context.Context, record *store.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO rounds (
            timestamp,
            temperature, temperature_valid,
            gas,
            distance, distance_valid,
            anomaly
        ) VALUES (?, ?, ?, ?, ?, ?, ?)
    `,
		record.Sample.Timestamp.Unix(),
		record.Sample.Temperature.Value,
		boolToInt(record.Sample.Temperature.Valid),
		boolToInt(record.Sample.GasPresent),
		record.Sample.Distance.Value,
		boolToInt(record.Sample.Distance.Valid),
		boolToInt(record.Verdict.Anomalous),
	)
	if err != nil {
		return errFactory.Wrap(errors.ErrRecordTelemetry, err)
	}

	return nil
}

func (r *sqliteRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(errors.ErrCloseTelemetry, err)
	}

	return nil
}
