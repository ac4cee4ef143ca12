package main

import (
	"fmt"
	"os"

	"mercator-hq/ruleengine/pkg/cli"
	"mercator-hq/ruleengine/pkg/config"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ruleengine",
	Short: "Ruleengine - parse, combine and evaluate boolean rules",
	Long: `Ruleengine turns textual rules such as "age > 18 AND country = 'US'" into
syntax trees, stores them, combines them and evaluates them against JSON
records.

It runs as an HTTP API (ruleengine run) or as a local tool for checking
rules (parse, eval, combine).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with a code chosen by
// cli.ExitCode.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults plus RULEENGINE_* environment overrides when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return cli.NewUsageError("%v", err)
	})
}

// loadConfig installs the process-wide configuration from --config.
func loadConfig() (*config.Config, error) {
	if err := config.Initialize(cfgFile); err != nil {
		return nil, err
	}
	return config.GetConfig(), nil
}

// usageArgs wraps a cobra positional-args validator so violations exit
// with the usage code.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return cli.NewUsageError("%v", err)
		}
		return nil
	}
}
