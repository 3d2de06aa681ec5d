package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tectonic-cli/tectonic/internal/manifest"
	"github.com/tectonic-cli/tectonic/internal/rollout"
)

// serviceArgs splits "[environment] [service [subservice]]" positional arguments.
func serviceArgs(args []string) (envArgs, svcArgs []string) {
	if len(args) == 0 {
		return nil, nil
	}
	return args[:1], args[1:]
}

// withServices opens a session, connects to the cluster and runs fn for every selected service.
func withServices(cmd *cobra.Command, opts *Options, args []string, fn func(context.Context, *rollout.Controller, manifest.ServiceRef) error) error {
	envArgs, svcArgs := serviceArgs(args)
	s, err := openSession(cmd, opts, envArgs)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	refs, err := s.selectServices(ctx, svcArgs)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		s.logger.Info("no services selected")
		return nil
	}

	kubectl, inventory, err := s.ensureContext(ctx)
	if err != nil {
		return err
	}
	controller := rollout.NewController(kubectl, inventory, s.layout, resolveRolloutTimeout(opts.RolloutTimeout), s.logger)
	for _, ref := range refs {
		if err := fn(ctx, controller, ref); err != nil {
			return err
		}
	}
	return nil
}

// newRolloutCommand creates the "rollout" subcommand that redeploys services.
func newRolloutCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "rollout [environment] [service [subservice]]",
		Short: "Restart a service deployment, creating it from its manifest when absent",
		Args:  cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(cmd, opts, args, func(ctx context.Context, c *rollout.Controller, ref manifest.ServiceRef) error {
				return c.Rollout(ctx, ref)
			})
		},
	}
}

// newRemoveCommand creates the "remove" subcommand that deletes service deployments.
func newRemoveCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [environment] [service [subservice]]",
		Short: "Delete a service deployment",
		Args:  cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())
			return withServices(cmd, opts, args, func(ctx context.Context, c *rollout.Controller, ref manifest.ServiceRef) error {
				removed, err := c.Remove(ctx, ref)
				if err != nil {
					return err
				}
				if !removed {
					logger.Info("deployment not found", "deployment", ref.DeploymentName())
				}
				return nil
			})
		},
	}
}

// newInfoCommand creates the "info" subcommand that prints deployment annotations.
func newInfoCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "info [environment] [service [subservice]]",
		Short: "Show the pod template annotations of a service deployment",
		Args:  cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFromContext(cmd.Context())
			return withServices(cmd, opts, args, func(ctx context.Context, c *rollout.Controller, ref manifest.ServiceRef) error {
				annotations, ok, err := c.Annotations(ctx, ref)
				if err != nil {
					return err
				}
				if !ok {
					logger.Info("deployment not found", "deployment", ref.DeploymentName())
					return nil
				}
				fmt.Fprintf(opts.out, "Deployment %q annotations:\n", ref.DeploymentName())
				for _, key := range slices.Sorted(maps.Keys(annotations)) {
					fmt.Fprintf(opts.out, "  %s: %s\n", key, annotations[key])
				}
				return nil
			})
		},
	}
}
