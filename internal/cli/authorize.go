package cli

import "github.com/spf13/cobra"

// newAuthorizeCommand creates the "authorize" subcommand that fetches cluster credentials.
func newAuthorizeCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "authorize [environment]",
		Short: "Point gcloud and kubectl at an environment's project and cluster",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, args)
			if err != nil {
				return err
			}
			return s.authorize(cmd.Context())
		},
	}
}
