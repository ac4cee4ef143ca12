// Package server runs the rule engine's HTTP API.
//
// It mounts the rule routes, the health endpoints and the Prometheus
// exposition endpoint on one http.ServeMux, wraps the mux in the middleware
// chain and manages the listener lifecycle.
//
// # Basic Usage
//
//	srv := server.New(server.Options{
//	    Config:      cfg.Server,
//	    Service:     svc,
//	    Telemetry:   tel,
//	    MetricsPath: cfg.Telemetry.Metrics.Path,
//	})
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Start blocks until ctx is cancelled, SIGINT or SIGTERM arrives, Shutdown
// is called, or the listener fails. In the first three cases it drains
// in-flight requests for at most Config.ShutdownTimeout.
package server
