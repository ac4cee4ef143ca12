package main

import (
	"encoding/json"
	"fmt"

	"mercator-hq/ruleengine/pkg/cli"
	"mercator-hq/ruleengine/pkg/rule"

	"github.com/spf13/cobra"
)

var combineFlags struct {
	format string
}

// combineResult is the JSON output of the combine command.
type combineResult struct {
	Rule string          `json:"rule"`
	AST  json.RawMessage `json:"ast"`
}

var combineCmd = &cobra.Command{
	Use:   "combine <rule> [rule...]",
	Short: "AND together rules and show the result",
	Long: `Combine rules left to right with AND, the same way the API's combine
endpoint does, without storing anything. Each argument is one rule.

Examples:
  ruleengine combine "age > 18" "country = 'US'" "active = 'yes'"`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: runCombine,
}

func init() {
	rootCmd.AddCommand(combineCmd)
	combineCmd.Flags().StringVarP(&combineFlags.format, "format", "f", "text", "output format (text, json)")
}

func runCombine(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(combineFlags.format)
	if err != nil {
		return err
	}

	sources := make([]*rule.Compiled, 0, len(args))
	for _, text := range args {
		compiled, err := rule.Compile(text)
		if err != nil {
			return cli.NewCommandError("combine", fmt.Errorf("rule %q: %w", text, err))
		}
		sources = append(sources, compiled)
	}

	combined, err := rule.Combine(sources...)
	if err != nil {
		return cli.NewCommandError("combine", err)
	}

	out := cmd.OutOrStdout()
	if format == cli.FormatJSON {
		astJSON, err := combined.MarshalAST()
		if err != nil {
			return cli.NewCommandError("combine", err)
		}
		return cli.NewFormatter(format).FormatTo(out, combineResult{Rule: combined.Text, AST: astJSON})
	}

	fmt.Fprintln(out, combined.Text)
	fmt.Fprint(out, cli.RenderTree(combined.AST))
	return nil
}
