package telemetry

import (
	"context"

	"codeberg.org/mutker/sensord/internal/errors"
	"codeberg.org/mutker/sensord/internal/logger"
	"codeberg.org/mutker/sensord/internal/store"
)

type service struct {
	repo Repository
	cfg  Config
}

// No-op implementation used when telemetry is disabled
type noopCollector struct{}

func NewService(cfg Config) (Collector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !cfg.Enabled {
		logger.Debug().Msg("Telemetry disabled, using no-op collector")
		return &noopCollector{}, nil
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("db_path", cfg.DBPath).
		Msg("Telemetry service initialized")

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) Record(ctx context.Context, record *store.Record) error {
	errFactory := errors.New()

	if record == nil {
		return errFactory.New(errors.ErrInvalidTelemetry)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(errors.ErrOperationTimeout, ctx.Err())
	default:
		return s.repo.Store(ctx, record)
	}
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(errors.ErrShutdownFailed, err)
	}

	return nil
}

func (*noopCollector) Record(_ context.Context, _ *store.Record) error {
	return nil
}

func (*noopCollector) Close() error {
	return nil
}
