package telemetry

import (
	"database/sql"

	"codeberg.org/mutker/sensord/internal/errors"
)

// Timestamps are second-resolution while rounds can run sub-second, so
// the timestamp cannot be the key; every round gets its own row.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS rounds (
        id                INTEGER PRIMARY KEY AUTOINCREMENT,
        timestamp         INTEGER NOT NULL,
        temperature       REAL,
        temperature_valid INTEGER NOT NULL CHECK (temperature_valid IN (0, 1)),
        gas               INTEGER NOT NULL CHECK (gas IN (0, 1)),
        distance          REAL,
        distance_valid    INTEGER NOT NULL CHECK (distance_valid IN (0, 1)),
        anomaly           INTEGER NOT NULL CHECK (anomaly IN (0, 1))
    )`,
	`CREATE INDEX IF NOT EXISTS idx_rounds_timestamp ON rounds (timestamp)`,
}

// initSchema creates the rounds table and its index if they do not exist yet.
func initSchema(db *sql.DB) error {
	errFactory := errors.New()

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return errFactory.Wrap(errors.ErrInitTelemetry, err)
		}
	}

	return nil
}
