// Package seed loads named rules from a YAML file into the rule store and
// optionally keeps the store in step with the file.
//
// File format:
//
//	rules:
//	  - name: adults
//	    rule: "age > 18"
//	  - name: us_sales
//	    rule: "country = 'US' AND department = 'Sales'"
//
// Loading is all or nothing at the parse stage: every entry is validated
// and compiled before the first write, so one bad rule leaves the store
// untouched. Writes are upserts keyed by name.
package seed
