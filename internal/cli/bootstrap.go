package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/tectonic-cli/tectonic/internal/bootstrap"
	"github.com/tectonic-cli/tectonic/internal/interact"
	"github.com/tectonic-cli/tectonic/internal/kube"
	"github.com/tectonic-cli/tectonic/internal/terraform"
)

// newBootstrapCommand creates the "bootstrap" subcommand that provisions and reconciles an environment.
func newBootstrapCommand(opts *Options) *cobra.Command {
	var skipRefresh bool

	cmd := &cobra.Command{
		Use:   "bootstrap [environment] [project]",
		Short: "Provision an environment's infrastructure and deploy its data, ingress and service tiers",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireTools(LoggerFromContext(cmd.Context()), "gcloud", "terraform", "kubectl"); err != nil {
				return err
			}
			s, err := openSession(cmd, opts, args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			project, err := bootstrapProject(ctx, opts, s, args)
			if errors.Is(err, bootstrap.ErrDeclined) {
				s.logger.Info("bootstrap cancelled")
				return nil
			}
			if err != nil {
				return err
			}

			orch := bootstrap.New(bootstrap.Dependencies{
				Cloud:       s.cloud,
				Provisioner: terraform.NewProvisioner(s.runner, s.ws.ProvisioningDir()),
				Store:       s.store,
				Confirmer:   opts.confirmer(),
				Connect: func(kubeContext, namespace string) (bootstrap.Kubectl, bootstrap.Inventory, error) {
					inventory, err := opts.connect(opts.Kubeconfig, kubeContext, namespace)
					if err != nil {
						return nil, nil, err
					}
					return kube.NewClient(s.runner, opts.Kubeconfig, kubeContext, namespace), inventory, nil
				},
				Layout: s.layout,
				Out:    opts.out,
				Logger: s.logger,
			}, bootstrap.Options{
				Project:        project,
				SkipRefresh:    skipRefresh,
				RolloutTimeout: resolveRolloutTimeout(opts.RolloutTimeout),
				Binary:         binaryName,
			})

			if _, err := orch.Run(ctx, s.cfg); err != nil {
				if errors.Is(err, bootstrap.ErrDeclined) {
					s.logger.Info("bootstrap cancelled")
					return nil
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipRefresh, "skip-refresh", false, "Skip the terraform refresh after apply")

	return cmd
}

// bootstrapProject returns the target project: the second argument, an operator answer
// prefilled with the configured project, or the configured project when no terminal is
// attached. An aborted prompt returns bootstrap.ErrDeclined.
func bootstrapProject(ctx context.Context, opts *Options, s *session, args []string) (string, error) {
	if len(args) > 1 && args[1] != "" {
		return args[1], nil
	}
	declared := s.cfg.Project()
	if opts.Yes || !opts.terminal.Interactive() {
		return declared, nil
	}
	project, ok, err := opts.terminal.Input(ctx, "Project id", declared)
	switch {
	case errors.Is(err, interact.ErrNonInteractive):
		return declared, nil
	case err != nil:
		return "", err
	case !ok:
		return "", bootstrap.ErrDeclined
	}
	return project, nil
}
