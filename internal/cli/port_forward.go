package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tectonic-cli/tectonic/internal/manifest"
)

const (
	defaultLocalPort  = 5602
	defaultRemotePort = 5601
)

// kibanaService is the target of the "kibana" port-forward preset.
var kibanaService = manifest.ServiceRef{Service: "kibana"}

type portFlags struct {
	local  int
	remote int
}

func (p *portFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.local, "local-port", defaultLocalPort, "Local port to listen on")
	cmd.Flags().IntVar(&p.remote, "remote-port", defaultRemotePort, "Container port to forward to")
}

func (p portFlags) validate() error {
	for _, port := range []int{p.local, p.remote} {
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port %d", port)
		}
	}
	return nil
}

// forward connects to the environment's cluster and forwards ports to the deployment of ref
// until kubectl exits or the command is interrupted.
func forward(cmd *cobra.Command, s *session, ref manifest.ServiceRef, ports portFlags) error {
	if err := ports.validate(); err != nil {
		return err
	}
	ctx := cmd.Context()
	kubectl, _, err := s.ensureContext(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("starting port-forward", "deployment", ref.DeploymentName(), "local", ports.local, "remote", ports.remote)
	return kubectl.PortForward(ctx, ref.DeploymentName(), ports.local, ports.remote)
}

// newPortForwardCommand creates the "port-forward" subcommand for a service deployment.
func newPortForwardCommand(opts *Options) *cobra.Command {
	var ports portFlags

	cmd := &cobra.Command{
		Use:   "port-forward [environment] [service [subservice]]",
		Short: "Forward a local port to a service deployment",
		Args:  cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			envArgs, svcArgs := serviceArgs(args)
			s, err := openSession(cmd, opts, envArgs)
			if err != nil {
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
			return forward(cmd, s, ref, ports)
		},
	}
	ports.register(cmd)

	return cmd
}

// newKibanaCommand creates the "kibana" subcommand, a port-forward to the kibana deployment.
func newKibanaCommand(opts *Options) *cobra.Command {
	var ports portFlags

	cmd := &cobra.Command{
		Use:   "kibana [environment]",
		Short: "Forward a local port to the kibana deployment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, opts, args)
			if err != nil {
				return err
			}
			return forward(cmd, s, kibanaService, ports)
		},
	}
	ports.register(cmd)

	return cmd
}
