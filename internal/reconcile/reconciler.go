package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tectonic-cli/tectonic/internal/logging"
	"github.com/tectonic-cli/tectonic/internal/manifest"
)

// Applier submits and removes manifests on the cluster.
type Applier interface {
	Create(ctx context.Context, path string) error
	Delete(ctx context.Context, path string, ignoreNotFound bool) error
}

// Snapshot is the set of ingress names that existed before reconciliation began.
// It is taken once and never refreshed during a run.
type Snapshot struct {
	names map[string]struct{}
}

// NewSnapshot builds a Snapshot from listed ingress names.
func NewSnapshot(names []string) Snapshot {
	s := Snapshot{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		s.names[name] = struct{}{}
	}
	return s
}

// Has reports whether name existed when the snapshot was taken.
func (s Snapshot) Has(name string) bool {
	_, ok := s.names[name]
	return ok
}

// Len returns the number of names in the snapshot.
func (s Snapshot) Len() int { return len(s.names) }

// Result lists what a reconcile pass did, by manifest name.
type Result struct {
	Replaced []string
	Created  []string
	Skipped  []string
}

// Reconciler applies the per-kind rule to manifests: create-if-absent for ingresses, hard
// replace for everything else.
type Reconciler struct {
	applier Applier
	logger  *slog.Logger
}

// NewReconciler constructs a Reconciler.
func NewReconciler(applier Applier, logger *slog.Logger) *Reconciler {
	return &Reconciler{applier: applier, logger: logging.OrDiscard(logger)}
}

// Replace deletes whatever m describes, ignoring absence, and creates it again.
func (r *Reconciler) Replace(ctx context.Context, m manifest.Manifest) error {
	r.logger.Info("replacing manifest", "kind", m.Kind, "name", m.Name)
	if err := r.applier.Delete(ctx, m.Path, true); err != nil {
		return fmt.Errorf("delete %s %s: %w", m.Kind, m.Name, err)
	}
	if err := r.applier.Create(ctx, m.Path); err != nil {
		return fmt.Errorf("create %s %s: %w", m.Kind, m.Name, err)
	}
	return nil
}

// EnsureIngress creates the ingress m unless snap already holds its name. It reports
// whether the ingress was created.
func (r *Reconciler) EnsureIngress(ctx context.Context, m manifest.Manifest, snap Snapshot) (bool, error) {
	if snap.Has(m.Name) {
		r.logger.Info("ingress already exists", "name", m.Name)
		return false, nil
	}
	r.logger.Info("creating ingress", "name", m.Name)
	if err := r.applier.Delete(ctx, m.Path, true); err != nil {
		return false, fmt.Errorf("delete ingress %s: %w", m.Name, err)
	}
	if err := r.applier.Create(ctx, m.Path); err != nil {
		return false, fmt.Errorf("create ingress %s: %w", m.Name, err)
	}
	return true, nil
}

// Reconcile applies set in order and stops at the first failure.
func (r *Reconciler) Reconcile(ctx context.Context, set manifest.Set, snap Snapshot) (Result, error) {
	var res Result
	for _, m := range set {
		switch m.Kind {
		case manifest.KindIngress:
			created, err := r.EnsureIngress(ctx, m, snap)
			if err != nil {
				return res, err
			}
			if created {
				res.Created = append(res.Created, m.Name)
			} else {
				res.Skipped = append(res.Skipped, m.Name)
			}
		default:
			if err := r.Replace(ctx, m); err != nil {
				return res, err
			}
			res.Replaced = append(res.Replaced, m.Name)
		}
	}
	return res, nil
}
