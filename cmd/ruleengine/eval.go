package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"mercator-hq/ruleengine/pkg/cli"
	"mercator-hq/ruleengine/pkg/rule"
	"mercator-hq/ruleengine/pkg/rule/evaluator"

	"github.com/spf13/cobra"
)

var evalFlags struct {
	data     string
	dataFile string
	format   string
}

// evalResult is the JSON output of the eval command.
type evalResult struct {
	Rule   string `json:"rule"`
	Result bool   `json:"result"`
}

var evalCmd = &cobra.Command{
	Use:   "eval <rule>",
	Short: "Evaluate a rule against a JSON record",
	Long: `Evaluate an ad-hoc rule against one JSON object.

The record comes from --data or from --data-file ("-" reads stdin).
Attributes missing from the record make their condition false.

Examples:
  ruleengine eval "age > 18" --data '{"age": 21}'
  ruleengine eval "department = 'Sales'" --data-file record.json
  echo '{"age": 3}' | ruleengine eval "age < 5" --data-file -`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringVarP(&evalFlags.data, "data", "d", "", "record as a JSON object")
	evalCmd.Flags().StringVar(&evalFlags.dataFile, "data-file", "", `file holding the JSON record ("-" for stdin)`)
	evalCmd.Flags().StringVarP(&evalFlags.format, "format", "f", "text", "output format (text, json)")
	evalCmd.MarkFlagsMutuallyExclusive("data", "data-file")
}

func runEval(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(evalFlags.format)
	if err != nil {
		return err
	}

	raw, err := readRecord(cmd.InOrStdin())
	if err != nil {
		return err
	}
	record, err := decodeRecord(raw)
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	compiled, err := rule.Compile(text)
	if err != nil {
		return cli.NewCommandError("eval", err)
	}
	result, err := compiled.Evaluate(record)
	if err != nil {
		return cli.NewCommandError("eval", err)
	}

	if format == cli.FormatJSON {
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), evalResult{Rule: text, Result: result})
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result)
	return err
}

func readRecord(stdin io.Reader) ([]byte, error) {
	switch {
	case evalFlags.data != "":
		return []byte(evalFlags.data), nil
	case evalFlags.dataFile == "-":
		return io.ReadAll(stdin)
	case evalFlags.dataFile != "":
		data, err := os.ReadFile(evalFlags.dataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		return data, nil
	default:
		return nil, cli.NewUsageError("a record is required: use --data or --data-file")
	}
}

// decodeRecord keeps numbers as json.Number so large integers compare
// exactly. The input must hold exactly one JSON value.
func decodeRecord(raw []byte) (evaluator.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var record evaluator.Record
	if err := dec.Decode(&record); err != nil {
		return nil, cli.NewUsageError("record must be a JSON object: %v", err)
	}
	if dec.More() {
		return nil, cli.NewUsageError("record must be a single JSON object: unexpected data after JSON value")
	}
	return record, nil
}
