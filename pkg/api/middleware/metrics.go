package middleware

import (
	"net/http"
	"time"

	"mercator-hq/ruleengine/pkg/telemetry/metrics"
)

// Metrics records request count and latency per method, route pattern and
// status. It must sit directly outside the mux. A nil or disabled collector
// turns it into a pass-through.
func Metrics(collector *metrics.Collector) Middleware {
	return func(next http.Handler) http.Handler {
		if !collector.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)
			next.ServeHTTP(rw, r)
			collector.RecordHTTPRequest(r.Method, r.Pattern, rw.statusCode, time.Since(start))
		})
	}
}
