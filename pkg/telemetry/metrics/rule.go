package metrics

import (
	"mercator-hq/ruleengine/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RuleMetrics tracks rule lifecycle and evaluation.
//
// Metrics:
//   - ruleengine_rules_created_total: rules stored via create or import
//   - ruleengine_rules_combined_total: combine operations
//   - ruleengine_rules_combined_sources: number of rules per combine
//   - ruleengine_rule_evaluations_total: evaluations by result
//   - ruleengine_rule_evaluation_duration_seconds: evaluation latency
//   - ruleengine_rule_errors_total: failures by operation and error kind
//   - ruleengine_rules_stored: rules currently in the store
type RuleMetrics struct {
	created            prometheus.Counter
	combined           prometheus.Counter
	combinedSources    prometheus.Histogram
	evaluations        *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	errors             *prometheus.CounterVec
	stored             prometheus.Gauge
}

// NewRuleMetrics creates and registers rule metrics with the provided registry.
func NewRuleMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *RuleMetrics {
	rm := &RuleMetrics{
		created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rules_created_total",
			Help:      "Total number of rules created",
		}),
		combined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rules_combined_total",
			Help:      "Total number of combine operations",
		}),
		combinedSources: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rules_combined_sources",
			Help:      "Number of source rules per combine operation",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rule_evaluations_total",
			Help:      "Total number of rule evaluations by result",
		}, []string{"result"}),
		evaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rule_evaluation_duration_seconds",
			Help:      "Duration of rule evaluation in seconds",
			// Evaluation is in-memory tree walking: 1µs to 16ms.
			Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15),
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rule_errors_total",
			Help:      "Total number of failed rule operations",
		}, []string{"operation", "kind"}),
		stored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "rules_stored",
			Help:      "Number of rules currently stored",
		}),
	}

	registry.MustRegister(
		rm.created,
		rm.combined,
		rm.combinedSources,
		rm.evaluations,
		rm.evaluationDuration,
		rm.errors,
		rm.stored,
	)
	return rm
}
