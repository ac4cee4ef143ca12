package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"mercator-hq/ruleengine/pkg/cli"
	"mercator-hq/ruleengine/pkg/rule"
	"mercator-hq/ruleengine/pkg/rule/ast"
	"mercator-hq/ruleengine/pkg/rule/lexer"

	"github.com/spf13/cobra"
)

var parseFlags struct {
	format string
}

// parseResult is the JSON output of the parse command.
type parseResult struct {
	Rule     string          `json:"rule"`
	Tokens   []lexer.Token   `json:"tokens"`
	Kinds    []lexer.Kind    `json:"kinds"`
	AST      json.RawMessage `json:"ast"`
	Stats    ast.Stats       `json:"stats"`
	Warnings []string        `json:"warnings,omitempty"`
}

var parseCmd = &cobra.Command{
	Use:   "parse <rule>",
	Short: "Show the tokens and syntax tree of a rule",
	Long: `Tokenize and parse a rule without storing it.

Arguments are joined with spaces, so quoting the rule is optional.
Conditions that would fail at evaluation time (wrong number of parts or an
unsupported operator) are reported as warnings; the rule still parses.

Examples:
  ruleengine parse "age > 18 AND department = 'Sales'"
  ruleengine parse --format json "a = 1 OR b = 2"`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseFlags.format, "format", "f", "text", "output format (text, json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(parseFlags.format)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	tokens := lexer.Tokenize(text)
	compiled, err := rule.Compile(text)
	if err != nil {
		return cli.NewCommandError("parse", err)
	}

	kinds := make([]lexer.Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind()
	}
	var warnings []string
	for _, err := range compiled.Check() {
		warnings = append(warnings, err.Error())
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		astJSON, err := compiled.MarshalAST()
		if err != nil {
			return cli.NewCommandError("parse", err)
		}
		return cli.NewFormatter(format).FormatTo(out, parseResult{
			Rule:     text,
			Tokens:   tokens,
			Kinds:    kinds,
			AST:      astJSON,
			Stats:    ast.Inspect(compiled.AST),
			Warnings: warnings,
		})
	}

	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = fmt.Sprintf("%q", string(tok))
	}
	fmt.Fprintf(out, "Tokens: [%s]\n", strings.Join(quoted, " "))
	if verbose {
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = k.String()
		}
		fmt.Fprintf(out, "Kinds:  [%s]\n", strings.Join(names, " "))
		stats := ast.Inspect(compiled.AST)
		fmt.Fprintf(out, "Nodes: %d (depth %d, %d conditions)\n", stats.Nodes(), stats.Depth, stats.Conditions)
	}
	fmt.Fprint(out, cli.RenderTree(compiled.AST))
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
	}
	return nil
}
