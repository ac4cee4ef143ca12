package evaluator

import (
	"context"
	"fmt"
	"log/slog"

	"mercator-hq/ruleengine/pkg/rule/ast"
	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
)

// Record is the flat input a rule is evaluated against.
type Record map[string]any

// Evaluate applies node to record.
//
// Errors: InvalidNodeError for nil or unknown nodes, MalformedConditionError
// for leaves that are not "attribute operator value", InvalidOperatorError
// for unsupported operators. AND and OR short-circuit, so a malformed leaf
// on the unevaluated side is not reported.
func Evaluate(node ast.Node, record Record) (bool, error) {
	return evaluate(context.Background(), node, record, nil)
}

// Evaluator evaluates rules with debug logging and context cancellation.
type Evaluator struct {
	logger *slog.Logger
}

// New creates an Evaluator. A nil logger uses slog.Default.
func New(logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{logger: logger.With("component", "rule.evaluator")}
}

// Evaluate applies node to record with the same semantics as the package
// level Evaluate. It returns ctx.Err() if the context is cancelled while
// walking the tree.
func (e *Evaluator) Evaluate(ctx context.Context, node ast.Node, record Record) (bool, error) {
	return evaluate(ctx, node, record, e.logger)
}

func evaluate(ctx context.Context, node ast.Node, record Record, logger *slog.Logger) (bool, error) {
	switch n := node.(type) {
	case *ast.Conjunction:
		if n == nil {
			return false, &ruleerrors.InvalidNodeError{Type: string(ast.NodeTypeAnd), Reason: "nil node"}
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		left, err := evaluate(ctx, n.Left, record, logger)
		if err != nil || !left {
			return false, err
		}
		return evaluate(ctx, n.Right, record, logger)

	case *ast.Disjunction:
		if n == nil {
			return false, &ruleerrors.InvalidNodeError{Type: string(ast.NodeTypeOr), Reason: "nil node"}
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		left, err := evaluate(ctx, n.Left, record, logger)
		if err != nil || left {
			return left, err
		}
		return evaluate(ctx, n.Right, record, logger)

	case *ast.Condition:
		if n == nil {
			return false, &ruleerrors.InvalidNodeError{Type: string(ast.NodeTypeCondition), Reason: "nil node"}
		}
		matched, err := EvaluateCondition(n.Text, record)
		if logger != nil {
			logger.DebugContext(ctx, "condition evaluated",
				"condition", n.Text,
				"matched", matched,
				"error", err,
			)
		}
		return matched, err

	case nil:
		return false, &ruleerrors.InvalidNodeError{Reason: "nil node"}

	default:
		return false, &ruleerrors.InvalidNodeError{
			Type:   string(node.Type()),
			Reason: fmt.Sprintf("unsupported node %T", node),
		}
	}
}

// EvaluateCondition evaluates a single condition clause against record.
func EvaluateCondition(text string, record Record) (bool, error) {
	clause, err := ParseCondition(text)
	if err != nil {
		return false, err
	}

	actual, ok := record[clause.Attribute]
	if !ok || actual == nil {
		return false, nil
	}

	switch clause.Operator {
	case OpEqual:
		return textOf(actual) == clause.Value, nil
	case OpGreaterThan:
		return compareValues(actual, clause.Value) > 0, nil
	case OpLessThan:
		return compareValues(actual, clause.Value) < 0, nil
	case OpGreaterEqual:
		return compareValues(actual, clause.Value) >= 0, nil
	case OpLessEqual:
		return compareValues(actual, clause.Value) <= 0, nil
	default:
		return false, &ruleerrors.InvalidOperatorError{Operator: clause.Operator, Condition: text}
	}
}
