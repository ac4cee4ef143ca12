// Package parser builds rule ASTs from token sequences.
//
// The parser looks for the first AND or OR token scanning left to right and
// splits the sequence there. That connective becomes the root, and both
// sides are parsed the same way. There is no operator precedence:
//
//	a = 1 AND b = 2 OR c = 3
//
// parses as
//
//	AND
//	├── a = 1
//	└── OR
//	    ├── b = 2
//	    └── c = 3
//
// A run of tokens with no connective becomes a single Condition leaf whose
// text is the tokens joined by single spaces.
//
// # Basic Usage
//
//	node, err := parser.ParseString("age > 18 AND country = 'US'")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(node.Type()) // AND
package parser
