package cli

import (
	"github.com/spf13/cobra"

	"github.com/tectonic-cli/tectonic/internal/status"
)

// newStatusCommand creates the "status" subcommand that shows cluster resources of an environment.
func newStatusCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status [environment]",
		Short: "Show ingresses, services, nodes, autoscalers and pods of an environment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, args)
			if err != nil {
				return err
			}
			kubectl, _, err := s.ensureContext(cmd.Context())
			if err != nil {
				return err
			}
			_, err = status.NewReporter(kubectl, opts.out, s.layout.Environment(), binaryName, s.logger).Report(cmd.Context())
			return err
		},
	}
}
