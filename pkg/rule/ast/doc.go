// Package ast provides the Abstract Syntax Tree (AST) of the rule language.
//
// A parsed rule is a binary tree of three node kinds:
//
//	Conjunction  (AND of Left and Right)
//	Disjunction  (OR of Left and Right)
//	Condition    (leaf holding one raw comparison clause, e.g. "age > 18")
//
// Node is a sealed interface: only the types in this package implement it.
// Leaves are always Condition nodes, and a Condition keeps its clause as
// unparsed text. Splitting it into attribute, operator and value happens at
// evaluation time (see package evaluator).
//
// # Interchange Form
//
// Trees are stored and exchanged as a nested mapping:
//
//	{
//	  "type": "AND",
//	  "left":  {"type": "CONDITION", "condition": "age > 18"},
//	  "right": {"type": "CONDITION", "condition": "country = 'US'"}
//	}
//
// Marshal, Unmarshal, ToMap and FromMap convert between the two forms and
// round-trip losslessly.
//
// # Immutability
//
// Nodes are never mutated after construction. Code that builds a new tree out
// of existing ones (the combiner) uses Clone so each tree owns its children.
package ast
