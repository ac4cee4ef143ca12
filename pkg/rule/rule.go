package rule

import (
	"mercator-hq/ruleengine/pkg/rule/ast"
	"mercator-hq/ruleengine/pkg/rule/combiner"
	"mercator-hq/ruleengine/pkg/rule/evaluator"
	"mercator-hq/ruleengine/pkg/rule/parser"
)

// Compiled is a rule's source text together with its parsed tree.
type Compiled struct {
	Text string
	AST  ast.Node
}

// Compile tokenizes and parses text.
func Compile(text string) (*Compiled, error) {
	node, err := parser.ParseString(text)
	if err != nil {
		return nil, err
	}
	return &Compiled{Text: text, AST: node}, nil
}

// Load rebuilds a compiled rule from stored text and interchange JSON.
// The text is not re-parsed: the stored tree is authoritative.
func Load(text string, astJSON []byte) (*Compiled, error) {
	node, err := ast.Unmarshal(astJSON)
	if err != nil {
		return nil, err
	}
	return &Compiled{Text: text, AST: node}, nil
}

// Evaluate applies the rule to record.
func (c *Compiled) Evaluate(record evaluator.Record) (bool, error) {
	return evaluator.Evaluate(c.AST, record)
}

// Check lists the conditions that would fail at evaluation time.
func (c *Compiled) Check() []error {
	return evaluator.Check(c.AST)
}

// MarshalAST encodes the tree in interchange form.
func (c *Compiled) MarshalAST() ([]byte, error) {
	return ast.Marshal(c.AST)
}

// Combine joins rules with AND in the given order.
func Combine(rules ...*Compiled) (*Compiled, error) {
	sources := make([]combiner.Source, len(rules))
	for i, r := range rules {
		sources[i] = combiner.Source{Text: r.Text, AST: r.AST}
	}

	res, err := combiner.Combine(sources)
	if err != nil {
		return nil, err
	}
	return &Compiled{Text: res.Text, AST: res.AST}, nil
}

// Evaluate compiles text and applies it to record in one step.
func Evaluate(text string, record evaluator.Record) (bool, error) {
	c, err := Compile(text)
	if err != nil {
		return false, err
	}
	return c.Evaluate(record)
}
