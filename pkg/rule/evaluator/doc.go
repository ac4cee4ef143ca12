// Package evaluator applies rule ASTs to flat records.
//
// A Record maps attribute names to scalar values (strings, numbers, bools).
// Evaluation walks the tree: AND and OR combine their children, and each
// Condition leaf is split into attribute, operator and value and compared
// against the record.
//
// # Comparison Semantics
//
//	=                 string forms are equal
//	>  <  >=  <=      numeric when the record value is a number and the rule
//	                  value looks like a decimal (-?\d+(\.\d+)?), otherwise
//	                  lexicographic on the string forms
//
// An attribute missing from the record makes its condition false. It is not
// an error.
//
// # Basic Usage
//
//	node, _ := parser.ParseString("age > 18 AND country = 'US'")
//	ok, err := evaluator.Evaluate(node, evaluator.Record{"age": 20, "country": "US"})
//	// ok == true
//
// Evaluate is pure and safe for concurrent use with a shared tree. Evaluator
// adds debug logging and context cancellation on top of the same semantics.
package evaluator
