// Package rule is the entry point to the rule language.
//
// A rule is a boolean expression over the attributes of a flat record:
//
//	age > 18 AND country = 'US'
//
// The language has comparisons (=, >, <, >=, <=) joined by AND and OR. The
// leftmost connective binds loosest and parentheses are ignored; see package
// parser for details.
//
// # Packages
//
//	lexer      rule text -> tokens
//	parser     tokens -> AST
//	ast        node types and the interchange (JSON mapping) codec
//	combiner   fold several rules into one with AND
//	evaluator  apply an AST to a record
//	errors     failure taxonomy
//
// # Basic Usage
//
//	compiled, err := rule.Compile("age > 18 AND country = 'US'")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ok, err := compiled.Evaluate(evaluator.Record{"age": 30, "country": "US"})
//	fmt.Println(ok) // true
//
//	data, _ := compiled.MarshalAST() // store this
//
// Compiled rules are immutable and may be evaluated from many goroutines.
package rule
