package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span attribute keys for rule operations.
const (
	AttrRuleID     = attribute.Key("rule.id")
	AttrRuleName   = attribute.Key("rule.name")
	AttrRuleCount  = attribute.Key("rule.count")
	AttrRuleResult = attribute.Key("rule.result")
	AttrErrorKind  = attribute.Key("rule.error.kind")
)

// SetStatus records err on span and marks it failed, or marks it OK when
// err is nil.
func SetStatus(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
