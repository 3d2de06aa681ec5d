package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tectonic-cli/tectonic/internal/gcloud"
	"github.com/tectonic-cli/tectonic/internal/manifest"
)

// newLogsCommand creates the "logs" subcommand that prints the Logs Explorer URL of a service.
func newLogsCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "logs [environment] [service [subservice]]",
		Short: "Print the Cloud Logging URL for a service's containers",
		Args:  cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			envArgs, svcArgs := serviceArgs(args)
			s, err := openSession(cmd, opts, envArgs)
			if err != nil {
				return err
			}
			if err := s.cfg.Validate(); err != nil {
				return err
			}

			ref, ok := manifest.ParseServiceRef(svcArgs)
			if !ok {
				available, err := s.layout.Services()
				if err != nil {
					return err
				}
				ref, ok, err = opts.terminal.SelectService(cmd.Context(), available)
				if err != nil {
					return err
				}
				if !ok {
					s.logger.Info("no service selected")
					return nil
				}
			}

			query := gcloud.LogQuery{
				Cluster:   s.cluster(),
				Namespace: s.cfg.Namespace(),
				PodLabel:  s.cfg.PodLabel(),
				Workload:  ref.String(),
			}
			_, err = fmt.Fprintln(opts.out, query.ConsoleURL())
			return err
		},
	}
}
