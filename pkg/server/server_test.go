package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/ruleengine/pkg/config"
	"mercator-hq/ruleengine/pkg/service"
	"mercator-hq/ruleengine/pkg/storage"
	"mercator-hq/ruleengine/pkg/telemetry"
	"mercator-hq/ruleengine/pkg/telemetry/health"
	"mercator-hq/ruleengine/pkg/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

func newTestServer(t *testing.T, listen string) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	collector := metrics.NewCollector(config.MetricsConfig{Enabled: true, Namespace: "test"}, prometheus.NewRegistry())
	svc := service.New(service.Options{Store: storage.NewMemoryStore(), Metrics: collector, Logger: logger})

	cfg := config.Default().Server
	cfg.ListenAddress = listen
	cfg.ShutdownTimeout = 2 * time.Second

	return New(Options{
		Config:    cfg,
		Service:   svc,
		Telemetry: &telemetry.Telemetry{Logger: logger, Metrics: collector},
		Version:   health.NewVersionInfo("1.0.0", "abc123", "now"),
	})
}

func TestHandler_Routes(t *testing.T) {
	h := newTestServer(t, "127.0.0.1:0").Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/rules/create",
		strings.NewReader(`{"ruleName":"adults","ruleString":"age >= 18"}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "1" {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/rules/evaluate/1", strings.NewReader(`{"age": 18}`))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if strings.TrimSpace(w.Body.String()) != "true" {
		t.Errorf("evaluate: status %d body %s", w.Code, w.Body.String())
	}

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/health", http.StatusOK, `"status"`},
		{"/ready", http.StatusOK, `"store"`},
		{"/version", http.StatusOK, `"abc123"`},
		{"/metrics", http.StatusOK, "test_rules_created_total 1"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if !strings.Contains(w.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", w.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestHandler_ReadinessFailsWithFailingCheck(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")
	s.Checker().Register("seed", func(ctx context.Context) error { return errors.New("seed file unreadable") })

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
	var report health.Report
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Ready() {
		t.Error("report should not be ready")
	}
}

func TestStart_ShutdownOnContextCancel(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	addr := waitForAddr(t, s)
	resp, err := http.Get("http://" + addr + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	if s.IsRunning() {
		t.Error("server still marked running")
	}
}

func TestStart_ShutdownRequest(t *testing.T) {
	s := newTestServer(t, "127.0.0.1:0")

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()
	waitForAddr(t, s)

	s.Shutdown()
	s.Shutdown()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStart_ListenError(t *testing.T) {
	s := newTestServer(t, "256.0.0.1:99999")
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("expected listen error")
	}
	if s.IsRunning() {
		t.Error("server should not be running")
	}
}

func waitForAddr(t *testing.T, s *Server) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if s.IsRunning() {
			if addr := s.Addr(); addr != "" {
				return addr
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("server did not start")
	return ""
}
