// Package middleware provides HTTP middleware for the rule API.
//
// The server composes them with Chain, outermost first:
//
//	Recovery -> Logging -> RequestID -> Timeout -> Tracing -> CORS -> BodyLimit -> Metrics -> mux
//
// http.ServeMux records the matched pattern in r.Pattern on the request it
// is handed. Tracing and Metrics read it after the inner handler returns,
// so every middleware between them and the mux must pass r through
// unchanged rather than calling r.WithContext.
//
// # Request ID
//
// RequestID honours a client supplied X-Request-ID header and otherwise
// generates a UUIDv4. The ID is echoed in the response header and stored in
// the context with logging.WithRequestID, so every slog call made with that
// context carries a request_id attribute.
package middleware
