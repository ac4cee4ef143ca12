package lexer

import (
	"regexp"
	"strings"
)

// Token is one lexical unit of a rule.
type Token string

// Kind classifies a token.
type Kind int

const (
	KindWord Kind = iota
	KindOperator
	KindLiteral
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindWord:
		return "word"
	case KindOperator:
		return "operator"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Connectives recognized by the parser. They are ordinary word tokens.
const (
	And Token = "AND"
	Or  Token = "OR"
)

// tokenPattern lists the token shapes in priority order so the two-character
// operators win over their one-character prefixes.
var tokenPattern = regexp.MustCompile(`\w+|>=|<=|>|<|=|'[^']+'`)

// Tokenize returns the tokens of source in order. Empty input yields an
// empty slice.
func Tokenize(source string) []Token {
	matches := tokenPattern.FindAllString(source, -1)
	tokens := make([]Token, len(matches))
	for i, m := range matches {
		tokens[i] = Token(m)
	}
	return tokens
}

// Kind returns the shape of the token.
func (t Token) Kind() Kind {
	switch {
	case strings.HasPrefix(string(t), "'"):
		return KindLiteral
	case t == ">=" || t == "<=" || t == ">" || t == "<" || t == "=":
		return KindOperator
	default:
		return KindWord
	}
}

// IsConnective reports whether the token is AND or OR.
func (t Token) IsConnective() bool {
	return t == And || t == Or
}

// Join renders tokens separated by single spaces.
func Join(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = string(t)
	}
	return strings.Join(parts, " ")
}
