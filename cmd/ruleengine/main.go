// Ruleengine parses, stores, combines and evaluates boolean rules such as
// "age > 18 AND country = 'US'" over attribute records.
//
// Usage:
//
//	# Start the HTTP API with default configuration
//	ruleengine run
//
//	# Start with a configuration file
//	ruleengine run --config /etc/ruleengine/config.yaml
//
//	# Show the syntax tree of a rule
//	ruleengine parse "age > 18 AND department = 'Sales'"
//
//	# Evaluate a rule against a record
//	ruleengine eval "age > 18" --data '{"age": 21}'
//
//	# Combine rules
//	ruleengine combine "age > 18" "country = 'US'"
//
//	# Load a YAML seed file into the configured store
//	ruleengine import rules.yaml
package main

func main() {
	Execute()
}
