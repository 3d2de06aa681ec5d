// Package cli defines the command-line interface for tectonic.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tectonic-cli/tectonic/internal/execx"
	"github.com/tectonic-cli/tectonic/internal/interact"
	"github.com/tectonic-cli/tectonic/internal/kube"
	"github.com/tectonic-cli/tectonic/internal/logging"
)

const binaryName = "tectonic"

// Options stores global CLI options shared between commands.
type Options struct {
	// Root is the deployment directory or a directory below a project checkout.
	Root           string
	LogLevel       logging.Level
	Yes            bool
	RolloutTimeout time.Duration
	Kubeconfig     string

	out       io.Writer
	newRunner func(logger *slog.Logger) execx.Runner
	connect   func(kubeconfig, kubeContext, namespace string) (*kube.Inventory, error)
	terminal  *interact.Terminal
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootOpts := &Options{
		LogLevel:  logging.LevelInfo,
		out:       os.Stdout,
		newRunner: func(l *slog.Logger) execx.Runner { return execx.NewExecRunner(l) },
		connect:   kube.NewInventoryForContext,
		terminal:  interact.NewTerminal(),
	}

	rootCmd := newRootCommand(rootOpts, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           binaryName,
		Short:         "tectonic bootstraps and operates GKE deployment environments",
		Long:          "tectonic provisions a deployment environment on Google Cloud with terraform and reconciles its data, ingress and service manifests on the GKE cluster.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applySettings(cmd, opts, ".env"); err != nil {
				return err
			}
			logger = logging.NewLogger(os.Stderr, opts.LogLevel)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", opts.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Root, "root", ".", "Project checkout or tectonic deployment directory")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVarP(&opts.Yes, "yes", "y", false, "Answer yes to confirmation prompts")
	cmd.PersistentFlags().DurationVar(&opts.RolloutTimeout, "rollout-timeout", defaultRolloutTimeout, "How long to wait for each deployment rollout")
	cmd.PersistentFlags().StringVar(&opts.Kubeconfig, "kubeconfig", "", "Kubeconfig file to read and write cluster credentials")

	cmd.AddCommand(
		newBootstrapCommand(opts),
		newStatusCommand(opts),
		newRolloutCommand(opts),
		newRemoveCommand(opts),
		newInfoCommand(opts),
		newAuthorizeCommand(opts),
		newLogsCommand(opts),
		newShellCommand(opts),
		newPortForwardCommand(opts),
		newKibanaCommand(opts),
		newAccountCommand(opts),
		newDoctorCommand(opts),
	)

	return cmd
}

// confirmer returns the prompt used before mutations.
func (o *Options) confirmer() interact.Confirmer {
	if o.Yes {
		return interact.Static(true)
	}
	return o.terminal
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
