package telemetry

import (
	"context"

	"codeberg.org/mutker/sensord/internal/store"
)

// Collector records acquisition rounds for later analysis. Recording is
// best effort: the loop logs failures and keeps going.
type Collector interface {
	Record(ctx context.Context, record *store.Record) error
	Close() error
}

// Repository is the storage backend behind a Collector.
type Repository interface {
	Store(ctx context.Context, record *store.Record) error
	Close() error
}
