package evaluator

import (
	"strings"

	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
)

// Supported comparison operators.
const (
	OpEqual        = "="
	OpGreaterThan  = ">"
	OpLessThan     = "<"
	OpGreaterEqual = ">="
	OpLessEqual    = "<="
)

// Clause is a condition split into its parts.
type Clause struct {
	Attribute string
	Operator  string
	Value     string
}

// ParseCondition splits condition text on single spaces into attribute,
// operator and value, and strips one leading and one trailing single quote
// from the value. Anything other than exactly three parts fails with a
// MalformedConditionError. The operator is not checked here.
func ParseCondition(text string) (Clause, error) {
	parts := strings.Split(text, " ")
	if len(parts) != 3 {
		return Clause{}, &ruleerrors.MalformedConditionError{Condition: text, Parts: len(parts)}
	}

	value := parts[2]
	value = strings.TrimPrefix(value, "'")
	value = strings.TrimSuffix(value, "'")

	return Clause{
		Attribute: parts[0],
		Operator:  parts[1],
		Value:     value,
	}, nil
}

// IsOperator reports whether op is a supported comparison operator.
func IsOperator(op string) bool {
	switch op {
	case OpEqual, OpGreaterThan, OpLessThan, OpGreaterEqual, OpLessEqual:
		return true
	default:
		return false
	}
}
