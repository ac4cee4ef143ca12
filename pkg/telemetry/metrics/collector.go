package metrics

import (
	"time"

	"mercator-hq/ruleengine/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector owns the Prometheus registry for the rule engine and exposes
// typed recording methods for each component. A nil *Collector, or one built
// from a disabled configuration, records nothing.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	rules *RuleMetrics
	http  *HTTPMetrics
}

// NewCollector creates a collector registered on registry. If registry is
// nil a fresh one is created, so tests never collide on the global default.
// Go runtime and process collectors are registered alongside the rule
// engine's own metrics.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}

	c := &Collector{
		enabled:  cfg.Enabled,
		registry: registry,
	}
	if !cfg.Enabled {
		return c
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}),
	)
	c.rules = NewRuleMetrics(cfg, registry)
	c.http = NewHTTPMetrics(cfg, registry)
	return c
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.enabled
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordRuleCreated counts a newly stored rule.
func (c *Collector) RecordRuleCreated() {
	if !c.Enabled() {
		return
	}
	c.rules.created.Inc()
}

// RecordRulesCombined counts a combine operation over n source rules.
func (c *Collector) RecordRulesCombined(n int) {
	if !c.Enabled() {
		return
	}
	c.rules.combined.Inc()
	c.rules.combinedSources.Observe(float64(n))
}

// RecordEvaluation records one evaluation outcome and its duration.
func (c *Collector) RecordEvaluation(result bool, duration time.Duration) {
	if !c.Enabled() {
		return
	}
	label := "false"
	if result {
		label = "true"
	}
	c.rules.evaluations.WithLabelValues(label).Inc()
	c.rules.evaluationDuration.Observe(duration.Seconds())
}

// RecordError counts a failed operation, labelled by error kind
// (e.g. "parse", "not_found", "invalid_operator").
func (c *Collector) RecordError(operation, kind string) {
	if !c.Enabled() {
		return
	}
	c.rules.errors.WithLabelValues(operation, kind).Inc()
}

// SetStoredRules reports the current number of stored rules.
func (c *Collector) SetStoredRules(n int) {
	if !c.Enabled() {
		return
	}
	c.rules.stored.Set(float64(n))
}

// RecordHTTPRequest records a served HTTP request. route is the matched
// route pattern, not the raw path, to keep label cardinality bounded.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if !c.Enabled() {
		return
	}
	c.http.record(method, route, status, duration)
}
