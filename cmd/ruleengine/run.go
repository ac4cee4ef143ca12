package main

import (
	"context"
	"fmt"
	"log/slog"

	"mercator-hq/ruleengine/pkg/cli"
	"mercator-hq/ruleengine/pkg/config"
	"mercator-hq/ruleengine/pkg/seed"
	"mercator-hq/ruleengine/pkg/server"
	"mercator-hq/ruleengine/pkg/storage"
	"mercator-hq/ruleengine/pkg/telemetry"
	"mercator-hq/ruleengine/pkg/telemetry/health"

	"github.com/spf13/cobra"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the rule API server",
	Long: `Start the rule API server with the specified configuration.

The server stores rules in the configured backend, loads the seed file if
one is configured (watching it for changes when rules.watch is true) and
serves the rule, health and metrics endpoints until SIGINT or SIGTERM.

Examples:
  # Start with defaults and RULEENGINE_* environment overrides
  ruleengine run

  # Start with custom config
  ruleengine run --config /etc/ruleengine/config.yaml

  # Override listen address
  ruleengine run --listen 0.0.0.0:8080

  # Validate config without starting server
  ruleengine run --dry-run`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	} else if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := cli.SetupSignalHandler(parent)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, Version, out)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	a, err := newApp(cfg, tel)
	if err != nil {
		_ = tel.Shutdown(context.Background())
		return cli.NewCommandError("run", err)
	}
	defer a.close(context.Background())

	slog.Info("rule store opened", "driver", cfg.Storage.Driver)

	if m, ok := a.store.(storage.Maintainer); ok && cfg.Storage.MaintenanceSchedule != "" {
		maint := storage.NewMaintenance(m, cfg.Storage.MaintenanceSchedule, tel.Logger)
		if err := maint.Start(ctx); err != nil {
			return cli.NewCommandError("run", err)
		}
		defer maint.Stop()
	}

	srv := server.New(server.Options{
		Config:      cfg.Server,
		Service:     a.service,
		Telemetry:   tel,
		MetricsPath: cfg.Telemetry.Metrics.Path,
		Version:     health.NewVersionInfo(Version, GitCommit, BuildDate),
	})

	if cfg.Rules.SeedFile != "" {
		if err := startSeeding(ctx, cfg.Rules, a, srv); err != nil {
			return cli.NewCommandError("run", err)
		}
	}

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

// startSeeding applies the seed file once and, when configured, keeps
// watching it. The latest reload outcome feeds the readiness check.
func startSeeding(ctx context.Context, rules config.RulesConfig, a *app, srv *server.Server) error {
	loader := seed.NewLoader(a.service, a.telemetry.Logger)
	if _, err := loader.Load(ctx, rules.SeedFile); err != nil {
		return fmt.Errorf("initial seed load: %w", err)
	}
	if !rules.Watch {
		return nil
	}

	w, err := seed.NewWatcher(rules.SeedFile, loader, rules.DebounceInterval, a.telemetry.Logger)
	if err != nil {
		return err
	}
	status := newReloadStatus()
	w.OnReload = status.record
	srv.Checker().Register("seed", status.check)

	go func() {
		if err := w.Watch(ctx); err != nil {
			slog.Error("seed watcher stopped", "error", err)
		}
	}()
	return nil
}
