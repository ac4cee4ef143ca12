// Package service implements rule use cases on top of the rule engine and a
// storage.Store: create, combine, evaluate, read and delete.
//
// Every operation is traced, counted in Prometheus and logged with the
// request ID carried by its context. Errors are returned unchanged from the
// rule packages so callers can classify them with errors.As.
package service
