package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyInput indicates there was nothing to parse or combine.
var ErrEmptyInput = errors.New("empty input")

// Kind names an error category. It is stable and safe to expose in API
// responses and metric labels.
type Kind string

const (
	KindEmptyInput         Kind = "empty_input"
	KindParse              Kind = "parse_error"
	KindNotFound           Kind = "not_found"
	KindMalformedCondition Kind = "malformed_condition"
	KindInvalidOperator    Kind = "invalid_operator"
	KindInvalidNode        Kind = "invalid_node"
	KindUnknown            Kind = "unknown"
)

// ParseError indicates a token sequence that cannot form a rule.
type ParseError struct {
	// Tokens is the token sub-range that failed to parse, joined by spaces.
	Tokens string
	Reason string
	Cause  error
}

// Error returns the error message.
func (e *ParseError) Error() string {
	msg := "parse error: " + e.Reason
	if e.Tokens != "" {
		msg += fmt.Sprintf(" near %q", e.Tokens)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NotFoundError indicates that referenced rules do not exist.
type NotFoundError struct {
	IDs []int64
}

// Error returns the error message.
func (e *NotFoundError) Error() string {
	if len(e.IDs) == 1 {
		return fmt.Sprintf("rule not found: %d", e.IDs[0])
	}
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = strconv.FormatInt(id, 10)
	}
	return fmt.Sprintf("rules not found: %s", strings.Join(ids, ", "))
}

// MalformedConditionError indicates a condition that does not split into
// exactly attribute, operator and value.
type MalformedConditionError struct {
	Condition string
	Parts     int
}

// Error returns the error message.
func (e *MalformedConditionError) Error() string {
	return fmt.Sprintf("malformed condition %q: expected 3 parts, got %d", e.Condition, e.Parts)
}

// InvalidOperatorError indicates a condition with an unsupported operator.
type InvalidOperatorError struct {
	Operator  string
	Condition string
}

// Error returns the error message.
func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("invalid operator %q in condition %q", e.Operator, e.Condition)
}

// InvalidNodeError indicates an AST node that is nil, of an unknown type, or
// structurally incomplete.
type InvalidNodeError struct {
	Type   string
	Reason string
}

// Error returns the error message.
func (e *InvalidNodeError) Error() string {
	if e.Type == "" {
		return "invalid AST node: " + e.Reason
	}
	return fmt.Sprintf("invalid AST node type %q: %s", e.Type, e.Reason)
}

// KindOf classifies err. Wrapped errors are unwrapped; nil returns "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var (
		parseErr     *ParseError
		notFoundErr  *NotFoundError
		malformedErr *MalformedConditionError
		operatorErr  *InvalidOperatorError
		nodeErr      *InvalidNodeError
	)

	switch {
	case errors.As(err, &parseErr):
		return KindParse
	case errors.Is(err, ErrEmptyInput):
		return KindEmptyInput
	case errors.As(err, &notFoundErr):
		return KindNotFound
	case errors.As(err, &malformedErr):
		return KindMalformedCondition
	case errors.As(err, &operatorErr):
		return KindInvalidOperator
	case errors.As(err, &nodeErr):
		return KindInvalidNode
	default:
		return KindUnknown
	}
}
