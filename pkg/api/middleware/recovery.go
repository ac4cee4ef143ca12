package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/ruleengine/pkg/api/types"
)

// Recovery recovers from panics in later handlers and answers 500 with a
// JSON error body. The panic value and stack are logged, never returned.
func Recovery(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := wrap(w)
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log := logger
				if log == nil {
					log = slog.Default()
				}
				log.ErrorContext(r.Context(), "panic in handler",
					"error", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				if rw.written {
					return
				}
				types.WriteJSON(rw, http.StatusInternalServerError,
					types.NewServerError("An internal error occurred. Please try again later."))
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
