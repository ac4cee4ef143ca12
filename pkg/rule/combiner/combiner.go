// Package combiner folds several rules into one conjunctive rule.
package combiner

import (
	"fmt"

	"mercator-hq/ruleengine/pkg/rule/ast"
	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
)

// Source is one rule to combine: its source text and parsed tree.
type Source struct {
	Text string
	AST  ast.Node
}

// Result is the combined rule.
type Result struct {
	Text string
	AST  ast.Node
}

// Combine joins rules with AND, in the order given.
//
// With two or more rules the trees fold left to right:
//
//	AND(AND(r0, r1), r2) ...
//
// and the texts fold as "(" + acc + ") AND (" + next + ")". A single rule is
// returned unchanged. An empty slice fails with ErrEmptyInput.
//
// The combined tree holds copies of the inputs, never the inputs themselves.
func Combine(rules []Source) (Result, error) {
	if len(rules) == 0 {
		return Result{}, fmt.Errorf("combine rules: %w", ruleerrors.ErrEmptyInput)
	}

	for i, r := range rules {
		if ast.IsNil(r.AST) {
			return Result{}, &ruleerrors.InvalidNodeError{
				Reason: fmt.Sprintf("rule %d has no AST", i),
			}
		}
	}

	if len(rules) == 1 {
		return Result{Text: rules[0].Text, AST: rules[0].AST}, nil
	}

	var tree ast.Node = ast.NewConjunction(ast.Clone(rules[0].AST), ast.Clone(rules[1].AST))
	for _, r := range rules[2:] {
		tree = ast.NewConjunction(tree, ast.Clone(r.AST))
	}

	return Result{Text: CombineText(texts(rules)), AST: tree}, nil
}

// CombineText folds rule texts with the combined-rule pattern. It returns
// "" for no texts and the text itself for one.
func CombineText(texts []string) string {
	if len(texts) == 0 {
		return ""
	}
	acc := texts[0]
	for _, next := range texts[1:] {
		acc = "(" + acc + ") AND (" + next + ")"
	}
	return acc
}

func texts(rules []Source) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Text
	}
	return out
}
