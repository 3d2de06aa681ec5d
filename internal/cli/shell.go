package cli

import (
	"github.com/spf13/cobra"

	"github.com/tectonic-cli/tectonic/internal/manifest"
)

// shellService is the service whose pod a shell opens in by default.
var shellService = manifest.ServiceRef{Service: "cli"}

// newShellCommand creates the "shell" subcommand that opens a shell in a running service pod.
func newShellCommand(opts *Options) *cobra.Command {
	var command string

	cmd := &cobra.Command{
		Use:   "shell [environment] [service [subservice]]",
		Short: "Open an interactive shell in the first running pod of a service (default cli)",
		Args:  cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			envArgs, svcArgs := serviceArgs(args)
			s, err := openSession(cmd, opts, envArgs)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			ref, ok := manifest.ParseServiceRef(svcArgs)
			if !ok {
				ref = shellService
			}

			kubectl, inventory, err := s.ensureContext(ctx)
			if err != nil {
				return err
			}
			pods, err := inventory.RunningPods(ctx, ref.DeploymentName())
			if err != nil {
				return err
			}
			if len(pods) == 0 {
				s.logger.Info("no running pods", "deployment", ref.DeploymentName())
				return nil
			}

			s.logger.Info("starting shell", "pod", pods[0], "command", command)
			if err := kubectl.Exec(ctx, pods[0], command); err != nil {
				return err
			}
			s.logger.Info("shell finished", "pod", pods[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&command, "command", "bash", "Command to run in the pod")

	return cmd
}
