package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mercator-hq/ruleengine/pkg/config"
	"mercator-hq/ruleengine/pkg/rule"
	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
	"mercator-hq/ruleengine/pkg/rule/evaluator"
	"mercator-hq/ruleengine/pkg/storage"
	"mercator-hq/ruleengine/pkg/telemetry/metrics"
	"mercator-hq/ruleengine/pkg/telemetry/tracing"

	"go.opentelemetry.io/otel/trace"
)

// ErrInvalidArgument marks caller input rejected before any rule parsing,
// such as a blank rule name.
var ErrInvalidArgument = errors.New("invalid argument")

// KindInvalidArgument is the error kind reported for ErrInvalidArgument.
const KindInvalidArgument = "invalid_argument"

// Options configures a RuleService. Only Store is required.
type Options struct {
	Store   storage.Store
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Logger  *slog.Logger

	// CombinedName names combined rules when the caller gives no name.
	CombinedName string
}

// RuleService coordinates parsing, combination, evaluation and storage.
type RuleService struct {
	store        storage.Store
	metrics      *metrics.Collector
	tracer       *tracing.Tracer
	logger       *slog.Logger
	evaluator    *evaluator.Evaluator
	combinedName string
}

// New creates a RuleService.
func New(opts Options) *RuleService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = tracing.Noop()
	}
	name := opts.CombinedName
	if strings.TrimSpace(name) == "" {
		name = config.DefaultCombinedName
	}

	return &RuleService{
		store:        opts.Store,
		metrics:      opts.Metrics,
		tracer:       tracer,
		logger:       logger.With("component", "service.rules"),
		evaluator:    evaluator.New(logger),
		combinedName: name,
	}
}

// CreateRule parses text and stores it under name.
func (s *RuleService) CreateRule(ctx context.Context, name, text string) (_ *storage.Rule, err error) {
	ctx, span := s.tracer.Start(ctx, "rules.create", trace.WithAttributes(tracing.AttrRuleName.String(name)))
	defer func() { s.finish(ctx, span, "create", err) }()

	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: rule name is required", ErrInvalidArgument)
	}

	compiled, err := rule.Compile(text)
	if err != nil {
		return nil, err
	}

	r, err := s.save(ctx, name, compiled)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(tracing.AttrRuleID.Int64(r.ID))
	s.metrics.RecordRuleCreated()
	s.refreshCount(ctx)
	s.logger.InfoContext(ctx, "rule created", "rule_id", r.ID, "name", name)
	return r, nil
}

// CombineRules joins the rules with ids, in the given order, with AND and
// stores the result as a new rule. Duplicate IDs are allowed. If any ID is
// missing the error is a *errors.NotFoundError listing every missing ID.
// An empty name uses the configured default.
func (s *RuleService) CombineRules(ctx context.Context, ids []int64, name string) (_ *storage.Rule, err error) {
	ctx, span := s.tracer.Start(ctx, "rules.combine", trace.WithAttributes(tracing.AttrRuleCount.Int(len(ids))))
	defer func() { s.finish(ctx, span, "combine", err) }()

	if len(ids) == 0 {
		return nil, fmt.Errorf("combine rules: %w", ruleerrors.ErrEmptyInput)
	}
	if strings.TrimSpace(name) == "" {
		name = s.combinedName
	}

	found, err := s.store.FindAllByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*storage.Rule, len(found))
	for _, r := range found {
		byID[r.ID] = r
	}

	var missing []int64
	reported := make(map[int64]bool)
	sources := make([]*rule.Compiled, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			if !reported[id] {
				reported[id] = true
				missing = append(missing, id)
			}
			continue
		}
		compiled, err := rule.Load(r.Text, r.AST)
		if err != nil {
			return nil, fmt.Errorf("load rule %d: %w", id, err)
		}
		sources = append(sources, compiled)
	}
	if len(missing) > 0 {
		return nil, &ruleerrors.NotFoundError{IDs: missing}
	}

	combined, err := rule.Combine(sources...)
	if err != nil {
		return nil, err
	}

	r, err := s.save(ctx, name, combined)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(tracing.AttrRuleID.Int64(r.ID))
	s.metrics.RecordRulesCombined(len(ids))
	s.metrics.RecordRuleCreated()
	s.refreshCount(ctx)
	s.logger.InfoContext(ctx, "rules combined", "rule_id", r.ID, "sources", ids, "name", name)
	return r, nil
}

// EvaluateRule applies the stored rule id to record.
func (s *RuleService) EvaluateRule(ctx context.Context, id int64, record evaluator.Record) (_ bool, err error) {
	ctx, span := s.tracer.Start(ctx, "rules.evaluate", trace.WithAttributes(tracing.AttrRuleID.Int64(id)))
	defer func() { s.finish(ctx, span, "evaluate", err) }()

	r, err := s.find(ctx, id)
	if err != nil {
		return false, err
	}
	compiled, err := rule.Load(r.Text, r.AST)
	if err != nil {
		return false, fmt.Errorf("load rule %d: %w", id, err)
	}

	start := time.Now()
	result, err := s.evaluator.Evaluate(ctx, compiled.AST, record)
	if err != nil {
		return false, err
	}

	s.metrics.RecordEvaluation(result, time.Since(start))
	span.SetAttributes(tracing.AttrRuleResult.Bool(result))
	s.logger.DebugContext(ctx, "rule evaluated", "rule_id", id, "result", result)
	return result, nil
}

// GetRule returns the stored rule id.
func (s *RuleService) GetRule(ctx context.Context, id int64) (_ *storage.Rule, err error) {
	ctx, span := s.tracer.Start(ctx, "rules.get", trace.WithAttributes(tracing.AttrRuleID.Int64(id)))
	defer func() { s.finish(ctx, span, "get", err) }()

	return s.find(ctx, id)
}

// ListRules returns every stored rule ordered by ID.
func (s *RuleService) ListRules(ctx context.Context) (_ []*storage.Rule, err error) {
	ctx, span := s.tracer.Start(ctx, "rules.list")
	defer func() { s.finish(ctx, span, "list", err) }()

	rules, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(tracing.AttrRuleCount.Int(len(rules)))
	return rules, nil
}

// DeleteRule removes the stored rule id.
func (s *RuleService) DeleteRule(ctx context.Context, id int64) (err error) {
	ctx, span := s.tracer.Start(ctx, "rules.delete", trace.WithAttributes(tracing.AttrRuleID.Int64(id)))
	defer func() { s.finish(ctx, span, "delete", err) }()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshCount(ctx)
	s.logger.InfoContext(ctx, "rule deleted", "rule_id", id)
	return nil
}

// Ping checks that the store is reachable.
func (s *RuleService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *RuleService) find(ctx context.Context, id int64) (*storage.Rule, error) {
	r, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, &ruleerrors.NotFoundError{IDs: []int64{id}}
	}
	return r, nil
}

func (s *RuleService) save(ctx context.Context, name string, c *rule.Compiled) (*storage.Rule, error) {
	astJSON, err := c.MarshalAST()
	if err != nil {
		return nil, err
	}
	id, err := s.store.Save(ctx, name, c.Text, astJSON)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *RuleService) refreshCount(ctx context.Context) {
	if !s.metrics.Enabled() {
		return
	}
	n, err := s.store.Count(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count rules", "error", err)
		return
	}
	s.metrics.SetStoredRules(n)
}

// finish closes span and records failures under operation.
func (s *RuleService) finish(ctx context.Context, span trace.Span, operation string, err error) {
	if err != nil {
		kind := ErrorKind(err)
		s.metrics.RecordError(operation, kind)
		span.SetAttributes(tracing.AttrErrorKind.String(kind))
		s.logger.DebugContext(ctx, "rule operation failed", "operation", operation, "kind", kind, "error", err)
	}
	tracing.SetStatus(span, err)
	span.End()
}

// ErrorKind classifies err for metrics, logs and API responses.
func ErrorKind(err error) string {
	if errors.Is(err, ErrInvalidArgument) {
		return KindInvalidArgument
	}
	return string(ruleerrors.KindOf(err))
}
