package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Maintenance runs a Maintainer on a cron schedule.
type Maintenance struct {
	target   Maintainer
	schedule string
	logger   *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewMaintenance creates a scheduler for target. schedule is a standard
// five-field cron expression; an empty schedule makes Start a no-op.
func NewMaintenance(target Maintainer, schedule string, logger *slog.Logger) *Maintenance {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "storage.maintenance")

	cl := cronLogger{logger}
	return &Maintenance{
		target:   target,
		schedule: schedule,
		logger:   logger,
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

// Start schedules maintenance and returns immediately. The scheduler stops
// when ctx is cancelled or Stop is called.
func (m *Maintenance) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.schedule == "" {
		m.logger.Info("maintenance schedule not configured, skipping scheduler")
		return nil
	}
	if m.running {
		return nil
	}

	if _, err := m.cron.AddFunc(m.schedule, func() { m.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid maintenance schedule %q: %w", m.schedule, err)
	}

	m.cron.Start()
	m.running = true
	m.logger.Info("maintenance scheduler started", "schedule", m.schedule)

	go func() {
		<-ctx.Done()
		m.Stop()
	}()
	return nil
}

// RunOnce performs one maintenance pass immediately.
func (m *Maintenance) RunOnce(ctx context.Context) {
	if err := m.target.Maintain(ctx); err != nil {
		m.logger.Error("store maintenance failed", "error", err)
		return
	}
	m.logger.Debug("store maintenance completed")
}

// Stop halts the scheduler and waits for a running pass to finish.
func (m *Maintenance) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}
	<-m.cron.Stop().Done()
	m.running = false
	m.logger.Info("maintenance scheduler stopped")
}

// Running reports whether the scheduler is active.
func (m *Maintenance) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
