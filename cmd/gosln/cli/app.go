// Package cli holds the gosln root command and the process-wide state its
// subcommands share: console, logger and resolved configuration.
package cli

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/willibrandon/gosln/cmd/gosln/config"
	"github.com/willibrandon/gosln/cmd/gosln/output"
	"github.com/willibrandon/gosln/observability"
)

var rootCmd = &cobra.Command{
	Use:   "gosln",
	Short: "Inspect and edit .NET solution files",
	Long: `gosln reads and edits Visual Studio solution (.sln) files.

Sections are edited in place; everything gosln does not model is written
back exactly as it was read.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help when no command is provided
		_ = cmd.Help()
	},
}

// Console is the global console for CLI commands
var Console *output.Console

var (
	logger         observability.Logger = observability.NewNullLogger()
	currentConfig                       = config.Defaults()
	tracerProvider *sdktrace.TracerProvider
)

// Execute runs the root command. Traces are flushed and the metrics file is
// written whether or not the command succeeds.
func Execute() (err error) {
	defer func() {
		err = errors.Join(err, teardown(context.Background()))
	}()
	return rootCmd.Execute()
}

func init() {
	Console = output.DefaultConsole()

	flags := rootCmd.PersistentFlags()
	flags.String(config.ConfigFlag, "", "gosln configuration file (default: gosln.yaml in the working directory)")
	flags.String("log-level", "warn", "Log level (verbose, debug, info, warn, error)")
	flags.String("verbosity", "normal", "Display verbosity (quiet, normal, detailed, diagnostic)")
	flags.String("trace-exporter", "none", "Trace exporter (none, stdout, otlp)")
	flags.String("otlp-endpoint", "localhost:4317", "OTLP collector endpoint")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file on exit")
	flags.String("default-configuration", "Debug", "Solution configuration used when the solution selects none")
	flags.String("default-platform", "Any CPU", "Solution platform used when the solution selects none")
}

// setup resolves configuration and starts logging and tracing.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	currentConfig = cfg

	Console.SetVerbosity(cfg.ConsoleVerbosity())
	logger = observability.NewLogger(os.Stderr, cfg.LoggerLevel())
	if cfg.FileUsed != "" {
		logger.Debug("Using config file {ConfigFile}", cfg.FileUsed)
	}

	tp, err := observability.SetupTracing(cmd.Context(), cfg.TracerConfig(Version))
	if err != nil {
		return err
	}
	tracerProvider = tp
	return nil
}

// teardown flushes traces and writes the metrics file.
func teardown(ctx context.Context) error {
	var errs []error
	if tracerProvider != nil {
		errs = append(errs, observability.ShutdownTracing(ctx, tracerProvider))
		tracerProvider = nil
	}
	if currentConfig.MetricsFile != "" {
		errs = append(errs, observability.WriteMetricsFile(currentConfig.MetricsFile))
	}
	return errors.Join(errs...)
}

// Logger returns the logger configured for this invocation. Before the root
// command runs it discards output.
func Logger() observability.Logger {
	return logger
}

// Config returns the resolved configuration, or the defaults before the root
// command runs.
func Config() *config.Config {
	return currentConfig
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}
