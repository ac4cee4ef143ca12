// Package handlers implements the HTTP endpoints of the rule API.
//
// Routes:
//
//	POST   /api/rules/create               {"ruleName","ruleString"} -> id
//	POST   /api/rules/combine              [ids] or {"ruleIds","ruleName"} -> id
//	POST   /api/rules/evaluate/{ruleId}    record object -> true|false
//	GET    /api/rules                      -> [rule]
//	GET    /api/rules/{ruleId}             -> rule with its AST
//	DELETE /api/rules/{ruleId}             -> 204
//
// Failures use the types.ErrorResponse body. The error type is the rule
// error kind, so clients can branch on "parse_error" or "not_found"
// without parsing messages.
package handlers
