package telemetry

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"mercator-hq/ruleengine/pkg/config"
)

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	cfg := config.Default().Telemetry
	cfg.Logging.Format = "text"

	tel, err := Setup(context.Background(), cfg, "test", &buf)
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	defer tel.Shutdown(context.Background())

	if !tel.Metrics.Enabled() {
		t.Error("expected metrics enabled by default")
	}
	if tel.Tracer.Enabled() {
		t.Error("expected tracing disabled by default")
	}

	slog.Info("via default")
	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("expected default logger to write to buffer, got %q", buf.String())
	}
}

func TestSetup_InvalidLogging(t *testing.T) {
	cfg := config.Default().Telemetry
	cfg.Logging.Level = "loud"
	if _, err := Setup(context.Background(), cfg, "test", nil); err == nil {
		t.Error("expected error for invalid level")
	}
}
