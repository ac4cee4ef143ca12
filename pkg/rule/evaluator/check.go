package evaluator

import (
	"mercator-hq/ruleengine/pkg/rule/ast"
	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
)

// Check reports every leaf of node that Evaluate would reject once its
// attribute is present in a record: MalformedConditionError for leaves that
// do not split into three parts, InvalidOperatorError for unsupported
// operators. Leaves are checked left to right. A nil result means every
// leaf is well formed.
func Check(node ast.Node) []error {
	var errs []error
	for _, text := range ast.Conditions(node) {
		clause, err := ParseCondition(text)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !IsOperator(clause.Operator) {
			errs = append(errs, &ruleerrors.InvalidOperatorError{Operator: clause.Operator, Condition: text})
		}
	}
	return errs
}
