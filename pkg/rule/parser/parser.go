package parser

import (
	"mercator-hq/ruleengine/pkg/rule/ast"
	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
	"mercator-hq/ruleengine/pkg/rule/lexer"
)

// Parse builds an AST from tokens. An empty sequence, or a connective with
// nothing on one side, fails with a ParseError wrapping ErrEmptyInput.
func Parse(tokens []lexer.Token) (ast.Node, error) {
	return parseRange(tokens)
}

// ParseString tokenizes source and parses the result.
func ParseString(source string) (ast.Node, error) {
	return Parse(lexer.Tokenize(source))
}

func parseRange(tokens []lexer.Token) (ast.Node, error) {
	if len(tokens) == 0 {
		return nil, &ruleerrors.ParseError{
			Reason: "expected a condition",
			Cause:  ruleerrors.ErrEmptyInput,
		}
	}

	if len(tokens) == 1 {
		return ast.NewCondition(string(tokens[0])), nil
	}

	for i, tok := range tokens {
		if !tok.IsConnective() {
			continue
		}

		left, err := parseOperand(tokens, tokens[:i], tok, "left")
		if err != nil {
			return nil, err
		}
		right, err := parseOperand(tokens, tokens[i+1:], tok, "right")
		if err != nil {
			return nil, err
		}

		if tok == lexer.And {
			return ast.NewConjunction(left, right), nil
		}
		return ast.NewDisjunction(left, right), nil
	}

	// Parentheses never reach the parser, so this only fires for callers
	// that build token slices by hand.
	if tokens[0] == "(" && tokens[len(tokens)-1] == ")" {
		return parseRange(tokens[1 : len(tokens)-1])
	}

	return ast.NewCondition(lexer.Join(tokens)), nil
}

func parseOperand(all, operand []lexer.Token, connective lexer.Token, side string) (ast.Node, error) {
	if len(operand) == 0 {
		return nil, &ruleerrors.ParseError{
			Tokens: lexer.Join(all),
			Reason: "missing " + side + " operand of " + string(connective),
			Cause:  ruleerrors.ErrEmptyInput,
		}
	}
	return parseRange(operand)
}
