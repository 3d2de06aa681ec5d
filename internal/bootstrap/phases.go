package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/tectonic-cli/tectonic/internal/config"
	"github.com/tectonic-cli/tectonic/internal/gcloud"
	"github.com/tectonic-cli/tectonic/internal/interact"
	"github.com/tectonic-cli/tectonic/internal/manifest"
	"github.com/tectonic-cli/tectonic/internal/reconcile"
	"github.com/tectonic-cli/tectonic/internal/rollout"
	"github.com/tectonic-cli/tectonic/internal/status"
	"github.com/tectonic-cli/tectonic/internal/terraform"
)

func (o *Orchestrator) verifyIdentity(ctx context.Context, r *run) error {
	account, err := o.deps.Cloud.ActiveAccount(ctx)
	if err != nil {
		return withHint(err, "run `gcloud auth login`")
	}
	r.account = account
	o.log.Info("active gcloud account", "account", account)
	return nil
}

// verifyProject checks the record is complete, then that the target project is reachable.
func (o *Orchestrator) verifyProject(ctx context.Context, r *run) error {
	if err := r.cfg.Validate(); err != nil {
		var missing *config.MissingFieldError
		if errors.As(err, &missing) {
			return withHint(err, "set %s in %s", missing.Field, r.cfg.Path())
		}
		return err
	}
	if _, err := o.deps.Cloud.DescribeProject(ctx, o.opts.Project); err != nil {
		return withHint(err, "check the project id and that %s has access to %s", r.account, o.opts.Project)
	}
	o.log.Info("verified cloud project", "project", o.opts.Project)
	return nil
}

// reconcileConfig asks before retargeting and persisting the record when the target project
// differs from the declared one.
func (o *Orchestrator) reconcileConfig(ctx context.Context, r *run) error {
	declared := r.cfg.Project()
	if declared == o.opts.Project {
		return nil
	}

	title := fmt.Sprintf("Project %s differs from %s in the %s config", o.opts.Project, declared, o.deps.Layout.Environment())
	confirmed, err := o.deps.Confirmer.Confirm(ctx, title, "The config will be updated before provisioning. Continue?")
	if errors.Is(err, interact.ErrNonInteractive) {
		return withHint(err, "rerun with --yes to accept the project change")
	}
	if err != nil {
		return err
	}
	if !confirmed {
		return ErrDeclined
	}

	updated := r.cfg.Retarget(o.opts.Project)
	if err := o.deps.Store.Persist(o.deps.Layout.Environment(), updated); err != nil {
		return fmt.Errorf("persist config: %w", err)
	}
	o.log.Info("config retargeted", "from", declared, "to", o.opts.Project, "bucketPrefix", updated.GCloud.BucketPrefix)
	r.cfg = updated
	return nil
}

func (o *Orchestrator) enableServices(ctx context.Context, r *run) error {
	project := r.cfg.Project()
	if err := o.deps.Cloud.SetProject(ctx, project); err != nil {
		return err
	}
	for _, service := range o.opts.CloudServices {
		o.log.Info("enabling cloud service", "service", service)
		if err := o.deps.Cloud.EnableService(ctx, project, service); err != nil {
			return withHint(err, "check that billing is enabled for %s", project)
		}
	}
	return nil
}

func (o *Orchestrator) provision(ctx context.Context, r *run) error {
	target := terraform.TargetFor(o.deps.Layout.Environment(), r.cfg)
	if err := o.deps.Provisioner.Init(ctx, target); err != nil {
		return withHint(err, "check that bucket %s exists and is readable", target.Backend["bucket"])
	}
	if err := o.deps.Provisioner.Apply(ctx, target); err != nil {
		return err
	}
	if o.opts.SkipRefresh {
		o.log.Info("terraform refresh skipped")
		return nil
	}
	return o.deps.Provisioner.Refresh(ctx, target)
}

func (o *Orchestrator) authorize(ctx context.Context, r *run) error {
	g := r.cfg.GCloud
	cluster := gcloud.Cluster{Project: g.Project, Zone: g.ComputeZone, Name: g.Kubernetes.ClusterName}
	if err := o.deps.Cloud.GetCredentials(ctx, cluster); err != nil {
		return err
	}

	kubectl, inventory, err := o.deps.Connect(cluster.KubeContext(), r.cfg.Namespace())
	if err != nil {
		return err
	}
	r.kubectl, r.inventory = kubectl, inventory
	o.log.Info("authorized cluster", "context", cluster.KubeContext())
	return r.kubectl.Get(ctx, "nodes")
}

// reconcileData fixes the manifest set of the run and hard-replaces its data tier.
func (o *Orchestrator) reconcileData(ctx context.Context, r *run) error {
	r.set = o.deps.Layout.Bootstrap(r.cfg.EntryPoints())
	res, err := reconcile.NewReconciler(r.kubectl, o.log).Reconcile(ctx, r.set.OfKind(manifest.KindData), reconcile.Snapshot{})
	if err != nil {
		return err
	}
	o.log.Info("data tier reconciled", "replaced", res.Replaced)
	return nil
}

// reconcileIngresses snapshots existing ingresses once, then for each entry point in order
// gets or creates its address and creates its ingress when it was absent.
func (o *Orchestrator) reconcileIngresses(ctx context.Context, r *run) error {
	names, err := r.inventory.IngressNames(ctx)
	if err != nil {
		return err
	}
	snap := reconcile.NewSnapshot(names)
	o.log.Info("listed existing ingresses", "count", snap.Len())

	entries := r.cfg.EntryPoints()
	allocator := reconcile.NewAllocator(o.deps.Cloud, r.cfg.Project(), o.log)
	reconciler := reconcile.NewReconciler(r.kubectl, o.log)
	var created, existing []string
	for i, m := range r.set.OfKind(manifest.KindIngress) {
		record, err := allocator.Ensure(ctx, entries[i])
		if err != nil {
			return err
		}
		r.records = append(r.records, record)

		res, err := reconciler.Reconcile(ctx, manifest.Set{m}, snap)
		if err != nil {
			return err
		}
		created = append(created, res.Created...)
		existing = append(existing, res.Skipped...)
	}
	o.log.Info("ingresses reconciled", "created", created, "existing", existing)
	return nil
}

func (o *Orchestrator) reconcileServices(ctx context.Context, r *run) error {
	controller := rollout.NewController(r.kubectl, r.inventory, o.deps.Layout, o.opts.RolloutTimeout, o.log)
	return controller.RolloutAll(ctx, o.opts.Services)
}

func (o *Orchestrator) reportStatus(ctx context.Context, r *run) error {
	reporter := status.NewReporter(r.kubectl, o.deps.Out, o.deps.Layout.Environment(), o.opts.Binary, o.log)
	rep, err := reporter.Report(ctx)
	if err != nil {
		return err
	}
	r.status = rep
	return nil
}

func (o *Orchestrator) summarize(_ context.Context, r *run) error {
	r.summary = NewSummary(o.deps.Layout, r.cfg.Project(), r.records, r.status)
	return r.summary.Print(o.deps.Out)
}
