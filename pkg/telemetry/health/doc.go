// Package health implements the liveness, readiness and version endpoints.
//
// Liveness never touches dependencies. Readiness runs every registered
// CheckFunc concurrently with a per-check timeout; the rule store registers
// a ping check so /ready fails while the database is unreachable.
package health
