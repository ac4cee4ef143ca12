// Package metrics provides Prometheus metrics for the rule engine.
//
// A Collector owns a private registry holding rule lifecycle, evaluation and
// HTTP traffic metrics plus the Go runtime and process collectors. Handler
// exposes the registry for scraping:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//	collector.RecordEvaluation(true, time.Since(start))
//
// Every recording method is safe to call on a nil or disabled Collector.
package metrics
