package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mercator-hq/ruleengine/pkg/config"
	"mercator-hq/ruleengine/pkg/service"
	"mercator-hq/ruleengine/pkg/storage"
	"mercator-hq/ruleengine/pkg/telemetry"
)

// app holds the components shared by commands that touch the rule store.
type app struct {
	cfg       *config.Config
	telemetry *telemetry.Telemetry
	store     storage.Store
	service   *service.RuleService
}

// newApp opens the configured store and builds the rule service on top of
// already initialized telemetry.
func newApp(cfg *config.Config, tel *telemetry.Telemetry) (*app, error) {
	store, err := storage.Open(cfg.Storage, tel.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule store: %w", err)
	}

	svc := service.New(service.Options{
		Store:        store,
		Metrics:      tel.Metrics,
		Tracer:       tel.Tracer,
		Logger:       tel.Logger,
		CombinedName: cfg.Rules.CombinedName,
	})

	return &app{cfg: cfg, telemetry: tel, store: store, service: svc}, nil
}

// close releases the store and flushes telemetry.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close rule store: %w", err))
	}
	if err := a.telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		slog.Error("shutdown incomplete", "error", err)
		return err
	}
	return nil
}
