/*
Package cli provides command-line helpers for the ruleengine binary.

Output Formatting:

Commands print results as text or JSON:

	format, err := cli.ParseFormat(flagValue)
	if err != nil {
		return err
	}
	return cli.NewFormatter(format).FormatTo(os.Stdout, result)

Rule trees print as an indented diagram with RenderTree.

Errors:

UsageError, ConfigError and CommandError carry enough type information for
ExitCode to pick the process exit status. Rule errors (parse failures,
malformed conditions, unknown IDs) exit with ExitRule.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
