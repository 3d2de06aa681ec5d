package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tectonic-cli/tectonic/internal/gcloud"
)

// requiredTools are the CLIs tectonic drives.
var requiredTools = []string{"gcloud", "kubectl", "terraform"}

// lookPath is exec.LookPath; tests replace it.
var lookPath = exec.LookPath

// newDoctorCommand creates the "doctor" subcommand that runs environment preflight checks.
func newDoctorCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that required tools are installed and gcloud is logged in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			if err := runDoctorChecks(ctx, logger, opts); err != nil {
				return err
			}

			logger.Info("doctor checks completed successfully")
			return nil
		},
	}
}

func runDoctorChecks(ctx context.Context, logger *slog.Logger, opts *Options) error {
	if err := requireTools(logger, requiredTools...); err != nil {
		return err
	}

	account, err := gcloud.NewClient(opts.newRunner(logger)).ActiveAccount(ctx)
	if err != nil {
		logger.Error("doctor check failed: no active gcloud account", "error", err, "hint", "run `gcloud auth login`")
		return fmt.Errorf("doctor found 1 fatal issue(s); see log for details")
	}
	logger.Info("doctor check ok", "account", account)
	return nil
}

// requireTools checks that every tool is on PATH and names all missing ones.
func requireTools(logger *slog.Logger, tools ...string) error {
	missing := make([]string, 0, len(tools))
	for _, tool := range tools {
		if _, err := lookPath(tool); err != nil {
			logger.Error("doctor check failed: missing required tool", "tool", tool, "error", err)
			missing = append(missing, tool)
			continue
		}
		logger.Debug("doctor check ok", "tool", tool)
	}

	if len(missing) > 0 {
		return fmt.Errorf("required tools missing from PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}
