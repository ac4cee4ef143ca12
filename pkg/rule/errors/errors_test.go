package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"empty", ErrEmptyInput, KindEmptyInput},
		{"wrapped empty", fmt.Errorf("combine: %w", ErrEmptyInput), KindEmptyInput},
		{"parse wins over wrapped empty", &ParseError{Reason: "x", Cause: ErrEmptyInput}, KindParse},
		{"not found", &NotFoundError{IDs: []int64{1}}, KindNotFound},
		{"malformed", &MalformedConditionError{Condition: "a", Parts: 1}, KindMalformedCondition},
		{"operator", &InvalidOperatorError{Operator: "~"}, KindInvalidOperator},
		{"node", fmt.Errorf("load: %w", &InvalidNodeError{Reason: "nil"}), KindInvalidNode},
		{"other", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&ParseError{Tokens: "AND x", Reason: "missing left operand of AND", Cause: ErrEmptyInput},
			`parse error: missing left operand of AND near "AND x": empty input`},
		{&NotFoundError{IDs: []int64{7}}, "rule not found: 7"},
		{&NotFoundError{IDs: []int64{7, 9}}, "rules not found: 7, 9"},
		{&MalformedConditionError{Condition: "age", Parts: 1}, `malformed condition "age": expected 3 parts, got 1`},
		{&InvalidOperatorError{Operator: "~", Condition: "a ~ 1"}, `invalid operator "~" in condition "a ~ 1"`},
		{&InvalidNodeError{Type: "XOR", Reason: "unknown node type"}, `invalid AST node type "XOR": unknown node type`},
		{&InvalidNodeError{Reason: "nil node"}, "invalid AST node: nil node"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestParseError_Unwrap(t *testing.T) {
	err := &ParseError{Reason: "x", Cause: ErrEmptyInput}
	if !errors.Is(err, ErrEmptyInput) {
		t.Error("ParseError should unwrap to its cause")
	}
	if !strings.HasPrefix(err.Error(), "parse error") {
		t.Errorf("Error() = %q", err.Error())
	}
}
