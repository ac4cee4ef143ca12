// Package errors defines the failure taxonomy of the rule language.
//
// Every failure raised by the tokenizer, parser, combiner and evaluator is one
// of the types in this package, so callers can branch on them with the
// standard library's errors.Is and errors.As:
//
//	node, err := parser.ParseString(text)
//	var perr *ruleerrors.ParseError
//	if errors.As(err, &perr) {
//	    fmt.Println("bad rule:", perr.Reason)
//	}
//
// The package is conventionally imported as ruleerrors to avoid clashing with
// the standard library.
//
// # Error Kinds
//
// ErrEmptyInput: nothing to parse or combine
//
// ParseError: structurally invalid token sequence
//
// NotFoundError: one or more referenced rule ids are missing
//
// MalformedConditionError: a condition is not "attribute operator value"
//
// InvalidOperatorError: a condition uses an unsupported operator
//
// InvalidNodeError: an AST node is nil, unknown, or corrupted
//
// None of these are retryable: the rule functions are deterministic, so the
// same input always fails the same way.
package errors
