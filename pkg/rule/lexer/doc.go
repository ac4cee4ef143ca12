// Package lexer splits rule source text into tokens.
//
// Recognized token shapes, tried in this order at each position:
//
//	word      letters, digits and underscores   age, 18, AND, country_code
//	operator  >=  <=  >  <  =
//	literal   single-quoted text                'US', 'New York'
//
// Anything else, including whitespace and parentheses, is skipped. Grouping
// with parentheses is therefore not visible to the parser.
package lexer
