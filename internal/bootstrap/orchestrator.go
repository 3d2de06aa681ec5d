// Package bootstrap drives a deployment environment from configuration to a running
// cluster: it verifies cloud access, provisions infrastructure, and reconciles the data,
// ingress and service tiers in a fixed order.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	appsv1 "k8s.io/api/apps/v1"

	"github.com/tectonic-cli/tectonic/internal/config"
	"github.com/tectonic-cli/tectonic/internal/gcloud"
	"github.com/tectonic-cli/tectonic/internal/interact"
	"github.com/tectonic-cli/tectonic/internal/logging"
	"github.com/tectonic-cli/tectonic/internal/manifest"
	"github.com/tectonic-cli/tectonic/internal/reconcile"
	"github.com/tectonic-cli/tectonic/internal/rollout"
	"github.com/tectonic-cli/tectonic/internal/status"
	"github.com/tectonic-cli/tectonic/internal/terraform"
)

// Phase names in execution order.
const (
	PhaseVerifyIdentity = "verify-identity"
	PhaseVerifyProject  = "verify-project-access"
	PhaseConfigDrift    = "reconcile-config-drift"
	PhaseEnableServices = "enable-cloud-services"
	PhaseProvision      = "provision-infra"
	PhaseAuthorize      = "authorize-cluster"
	PhaseDataTier       = "reconcile-data-tier"
	PhaseIngresses      = "allocate-and-reconcile-ingresses"
	PhaseSettle         = "settle"
	PhaseServiceTier    = "reconcile-service-tier"
	PhaseStatus         = "report-status"
	PhaseSummarize      = "summarize"
)

const (
	defaultSettleTimeout  = 2 * time.Minute
	defaultSettleInterval = 5 * time.Second
	defaultBinary         = "tectonic"
)

// Cloud is the cloud control plane surface the bootstrap needs.
type Cloud interface {
	ActiveAccount(ctx context.Context) (string, error)
	DescribeProject(ctx context.Context, project string) (gcloud.Project, error)
	SetProject(ctx context.Context, project string) error
	EnableService(ctx context.Context, project, service string) error
	GetCredentials(ctx context.Context, cluster gcloud.Cluster) error
	reconcile.AddressAPI
}

// Provisioner runs the infrastructure-as-code phases.
type Provisioner interface {
	Init(ctx context.Context, t terraform.Target) error
	Apply(ctx context.Context, t terraform.Target) error
	Refresh(ctx context.Context, t terraform.Target) error
}

// ConfigStore persists an updated config record.
type ConfigStore interface {
	Persist(environment string, cfg *config.Config) error
}

// Kubectl submits manifests and lists resources on the cluster.
type Kubectl interface {
	reconcile.Applier
	rollout.Kubectl
	status.Kubectl
}

// Inventory reads cluster state through the Kubernetes API.
type Inventory interface {
	IngressNames(ctx context.Context) ([]string, error)
	UnreadyWorkloads(ctx context.Context) ([]string, error)
	Deployment(ctx context.Context, name string) (*appsv1.Deployment, bool, error)
}

// Connector opens cluster clients pinned to a kubeconfig context and namespace. It is
// called once the cluster has been authorized.
type Connector func(kubeContext, namespace string) (Kubectl, Inventory, error)

// Dependencies are the collaborators of an Orchestrator.
type Dependencies struct {
	Cloud       Cloud
	Provisioner Provisioner
	Store       ConfigStore
	Confirmer   interact.Confirmer
	Connect     Connector
	Layout      manifest.Layout
	// Out receives the status listing and the summary.
	Out    io.Writer
	Logger *slog.Logger
}

// Options tune a bootstrap run.
type Options struct {
	// Project is the target cloud project; it wins over the config record.
	Project string
	// SkipRefresh skips the terraform refresh step.
	SkipRefresh bool
	// Services overrides the service tier; nil means manifest.CoreServices.
	Services []manifest.ServiceRef
	// CloudServices overrides the APIs enabled; nil means gcloud.RequiredServices.
	CloudServices  []string
	RolloutTimeout time.Duration
	SettleTimeout  time.Duration
	SettleInterval time.Duration
	// Binary is the name of this tool in operator hints.
	Binary string
}

// Orchestrator runs the bootstrap phases for one environment.
type Orchestrator struct {
	deps Dependencies
	opts Options
	log  *slog.Logger
}

// New constructs an Orchestrator.
func New(deps Dependencies, opts Options) *Orchestrator {
	if opts.Services == nil {
		opts.Services = manifest.CoreServices
	}
	if opts.CloudServices == nil {
		opts.CloudServices = gcloud.RequiredServices
	}
	if opts.SettleTimeout <= 0 {
		opts.SettleTimeout = defaultSettleTimeout
	}
	if opts.SettleInterval <= 0 {
		opts.SettleInterval = defaultSettleInterval
	}
	if opts.Binary == "" {
		opts.Binary = defaultBinary
	}
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	deps.Logger = logging.OrDiscard(deps.Logger)
	return &Orchestrator{deps: deps, opts: opts, log: deps.Logger.With("env", deps.Layout.Environment())}
}

// run carries state between phases of a single Run.
type run struct {
	cfg       *config.Config
	account   string
	kubectl   Kubectl
	inventory Inventory
	set       manifest.Set
	records   []reconcile.AddressRecord
	status    status.Report
	summary   *Summary
}

type phase struct {
	name string
	fn   func(ctx context.Context, r *run) error
}

// Run executes every phase in order against cfg and stops at the first failure, which is
// returned as a *PhaseError. A declined config update returns ErrDeclined.
func (o *Orchestrator) Run(ctx context.Context, cfg *config.Config) (*Summary, error) {
	phases := []phase{
		{PhaseVerifyIdentity, o.verifyIdentity},
		{PhaseVerifyProject, o.verifyProject},
		{PhaseConfigDrift, o.reconcileConfig},
		{PhaseEnableServices, o.enableServices},
		{PhaseProvision, o.provision},
		{PhaseAuthorize, o.authorize},
		{PhaseDataTier, o.reconcileData},
		{PhaseIngresses, o.reconcileIngresses},
		{PhaseSettle, o.settle},
		{PhaseServiceTier, o.reconcileServices},
		{PhaseStatus, o.reportStatus},
		{PhaseSummarize, o.summarize},
	}

	if o.opts.Project == "" {
		o.opts.Project = cfg.Project()
	}
	r := &run{cfg: cfg}
	start := time.Now()
	o.log.Info("bootstrap started", "project", o.opts.Project, "phases", len(phases))

	for i, p := range phases {
		phaseStart := time.Now()
		log := o.log.With("phase", p.name, "step", fmt.Sprintf("%d/%d", i+1, len(phases)))
		log.Info("phase started")

		if err := p.fn(ctx, r); err != nil {
			if errors.Is(err, ErrDeclined) {
				log.Info("config update declined, nothing changed")
				return nil, ErrDeclined
			}
			log.Error("phase failed", "error", err)
			return nil, &PhaseError{Phase: p.name, Hint: hintOf(err), Err: err}
		}

		log.Info("phase completed", "duration", time.Since(phaseStart).Round(time.Millisecond))
	}

	o.log.Info("bootstrap completed", "duration", time.Since(start).Round(time.Millisecond))
	return r.summary, nil
}
