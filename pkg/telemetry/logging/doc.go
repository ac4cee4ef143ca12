// Package logging builds the structured loggers used across the rule engine.
//
// Loggers are plain *slog.Logger values. New selects a JSON, text or console
// handler from configuration and wraps it so that records logged with a
// request-scoped context carry a request_id attribute:
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	ctx := logging.WithRequestID(ctx, "req-123")
//	logger.InfoContext(ctx, "rule created", "rule_id", 7)
//	// {"level":"INFO","msg":"rule created","rule_id":7,"request_id":"req-123"}
package logging
