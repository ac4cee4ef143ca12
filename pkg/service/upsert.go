package service

import (
	"context"
	"fmt"
	"strings"

	"mercator-hq/ruleengine/pkg/rule"
	"mercator-hq/ruleengine/pkg/storage"
	"mercator-hq/ruleengine/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/trace"
)

// Outcome reports what UpsertRule did.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
)

// UpsertRule makes the rule called name have text. A new rule is created if
// none exists; otherwise the oldest rule with that name is updated in place,
// keeping its ID. Text identical to what is stored is left alone.
func (s *RuleService) UpsertRule(ctx context.Context, name, text string) (_ *storage.Rule, _ Outcome, err error) {
	ctx, span := s.tracer.Start(ctx, "rules.upsert", trace.WithAttributes(tracing.AttrRuleName.String(name)))
	defer func() { s.finish(ctx, span, "upsert", err) }()

	if strings.TrimSpace(name) == "" {
		return nil, "", fmt.Errorf("%w: rule name is required", ErrInvalidArgument)
	}

	existing, err := s.store.FindByName(ctx, name)
	if err != nil {
		return nil, "", err
	}
	if existing != nil && existing.Text == text {
		return existing, OutcomeUnchanged, nil
	}

	compiled, err := rule.Compile(text)
	if err != nil {
		return nil, "", err
	}

	if existing == nil {
		r, err := s.save(ctx, name, compiled)
		if err != nil {
			return nil, "", err
		}
		s.metrics.RecordRuleCreated()
		s.refreshCount(ctx)
		s.logger.InfoContext(ctx, "rule created", "rule_id", r.ID, "name", name)
		return r, OutcomeCreated, nil
	}

	astJSON, err := compiled.MarshalAST()
	if err != nil {
		return nil, "", err
	}
	if err := s.store.Update(ctx, existing.ID, text, astJSON); err != nil {
		return nil, "", err
	}
	r, err := s.find(ctx, existing.ID)
	if err != nil {
		return nil, "", err
	}
	s.logger.InfoContext(ctx, "rule updated", "rule_id", r.ID, "name", name)
	return r, OutcomeUpdated, nil
}
