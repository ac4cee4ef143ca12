package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"mercator-hq/ruleengine/pkg/config"
	"mercator-hq/ruleengine/pkg/telemetry/logging"
	"mercator-hq/ruleengine/pkg/telemetry/metrics"
	"mercator-hq/ruleengine/pkg/telemetry/tracing"
)

// Telemetry bundles the process-wide logger, metrics collector and tracer.
type Telemetry struct {
	Logger  *slog.Logger
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
}

// Setup builds every telemetry component from cfg. Logs go to w. The
// returned logger is also installed as slog's default.
func Setup(ctx context.Context, cfg config.TelemetryConfig, version string, w io.Writer) (*Telemetry, error) {
	logger, err := logging.New(logging.FromConfig(cfg.Logging, w))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	slog.SetDefault(logger)

	tracer, err := tracing.New(ctx, cfg.Tracing, version)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	return &Telemetry{
		Logger:  logger,
		Metrics: metrics.NewCollector(cfg.Metrics, nil),
		Tracer:  tracer,
	}, nil
}

// Shutdown flushes the tracer.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if err := t.Tracer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
	}
	return errors.Join(errs...)
}
