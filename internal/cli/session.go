package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tectonic-cli/tectonic/internal/config"
	"github.com/tectonic-cli/tectonic/internal/execx"
	"github.com/tectonic-cli/tectonic/internal/gcloud"
	"github.com/tectonic-cli/tectonic/internal/kube"
	"github.com/tectonic-cli/tectonic/internal/manifest"
	"github.com/tectonic-cli/tectonic/internal/workspace"
)

// session holds everything a command needs for one environment.
type session struct {
	opts   *Options
	logger *slog.Logger
	ws     workspace.Workspace
	store  *config.Store
	cfg    *config.Config
	runner execx.Runner
	cloud  *gcloud.Client
	layout manifest.Layout
}

// openSession locates the workspace, resolves the environment (prompting for it when
// args is empty) and loads its config.
func openSession(cmd *cobra.Command, opts *Options, args []string) (*session, error) {
	logger := LoggerFromContext(cmd.Context())

	ws, err := workspace.Locate(opts.Root)
	if err != nil {
		return nil, err
	}
	store := config.NewStore(ws)

	environment, err := resolveEnvironment(cmd.Context(), opts, store, args)
	if err != nil {
		return nil, err
	}

	cfg, err := store.Load(environment)
	if err != nil {
		return nil, err
	}

	runner := opts.newRunner(logger)
	return &session{
		opts:   opts,
		logger: logger.With("env", environment),
		ws:     ws,
		store:  store,
		cfg:    cfg,
		runner: runner,
		cloud:  gcloud.NewClient(runner).WithKubeconfig(opts.Kubeconfig),
		layout: manifest.NewLayout(ws, environment),
	}, nil
}

// resolveEnvironment returns the environment named in args[0] after checking it exists,
// or asks the operator to choose one.
func resolveEnvironment(ctx context.Context, opts *Options, store *config.Store, args []string) (string, error) {
	available, err := store.Environments()
	if err != nil {
		return "", err
	}
	if len(args) > 0 && args[0] != "" {
		if !slices.Contains(available, args[0]) {
			return "", fmt.Errorf("unknown environment %q (available: %s)", args[0], strings.Join(available, ", "))
		}
		return args[0], nil
	}
	picked, ok, err := opts.terminal.Choose(ctx, "Environment", available)
	if err != nil {
		return "", fmt.Errorf("environment argument required: %w", err)
	}
	if !ok {
		return "", fmt.Errorf("no environment selected")
	}
	return picked, nil
}

func (s *session) cluster() gcloud.Cluster {
	g := s.cfg.GCloud
	return gcloud.Cluster{Project: g.Project, Zone: g.ComputeZone, Name: g.Kubernetes.ClusterName}
}

// authorize fetches cluster credentials and points gcloud at the environment's project.
func (s *session) authorize(ctx context.Context) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	if err := s.cloud.SetProject(ctx, s.cfg.Project()); err != nil {
		return err
	}
	if err := s.cloud.GetCredentials(ctx, s.cluster()); err != nil {
		return err
	}
	s.logger.Info("authorized cluster", "context", s.cluster().KubeContext())
	return nil
}

// ensureContext authorizes again when the current kubeconfig context is not the
// environment's cluster, then returns clients pinned to that cluster.
func (s *session) ensureContext(ctx context.Context) (*kube.Client, *kube.Inventory, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, nil, err
	}
	want := s.cluster().KubeContext()
	namespace := s.cfg.Namespace()

	current, err := kube.NewClient(s.runner, s.opts.Kubeconfig, "", "").CurrentContext(ctx)
	if err != nil || current != want {
		s.logger.Info("switching cluster context", "current", current, "want", want)
		if err := s.authorize(ctx); err != nil {
			return nil, nil, err
		}
	}

	inventory, err := s.opts.connect(s.opts.Kubeconfig, want, namespace)
	if err != nil {
		return nil, nil, err
	}
	return kube.NewClient(s.runner, s.opts.Kubeconfig, want, namespace), inventory, nil
}

// selectServices returns the service named by args, or asks the operator to choose from
// the environment's deployment manifests.
func (s *session) selectServices(ctx context.Context, args []string) ([]manifest.ServiceRef, error) {
	if ref, ok := manifest.ParseServiceRef(args); ok {
		return []manifest.ServiceRef{ref}, nil
	}
	available, err := s.layout.Services()
	if err != nil {
		return nil, err
	}
	return s.opts.terminal.SelectServices(ctx, available)
}
