// Package rollout restarts, creates and removes service deployments of an environment.
package rollout

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	appsv1 "k8s.io/api/apps/v1"

	"github.com/tectonic-cli/tectonic/internal/logging"
	"github.com/tectonic-cli/tectonic/internal/manifest"
)

// DefaultTimeout bounds how long a rollout is awaited.
const DefaultTimeout = 5 * time.Minute

// Kubectl is the subset of kubectl operations a rollout needs.
type Kubectl interface {
	Create(ctx context.Context, path string) error
	RolloutRestart(ctx context.Context, deployment string) error
	RolloutStatus(ctx context.Context, deployment, timeout string) error
	DeleteDeployment(ctx context.Context, name string) error
}

// Deployments looks up deployments by name.
type Deployments interface {
	Deployment(ctx context.Context, name string) (*appsv1.Deployment, bool, error)
}

// Controller rolls out services of one environment.
type Controller struct {
	kubectl     Kubectl
	deployments Deployments
	layout      manifest.Layout
	timeout     time.Duration
	logger      *slog.Logger
}

// NewController constructs a Controller. A zero timeout means DefaultTimeout.
func NewController(kubectl Kubectl, deployments Deployments, layout manifest.Layout, timeout time.Duration, logger *slog.Logger) *Controller {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Controller{
		kubectl:     kubectl,
		deployments: deployments,
		layout:      layout,
		timeout:     timeout,
		logger:      logging.OrDiscard(logger),
	}
}

// Rollout restarts the deployment of ref when it exists and creates it from its manifest
// otherwise, then waits for the rollout to finish.
func (c *Controller) Rollout(ctx context.Context, ref manifest.ServiceRef) error {
	m := c.layout.Deployment(ref)

	_, exists, err := c.deployments.Deployment(ctx, m.Name)
	if err != nil {
		return err
	}

	if exists {
		c.logger.Info("restarting deployment", "deployment", m.Name)
		if err := c.kubectl.RolloutRestart(ctx, m.Name); err != nil {
			return fmt.Errorf("rollout %s: %w", ref, err)
		}
	} else {
		c.logger.Info("creating deployment", "deployment", m.Name, "manifest", m.Path)
		if err := c.kubectl.Create(ctx, m.Path); err != nil {
			return fmt.Errorf("rollout %s: %w", ref, err)
		}
	}

	if err := c.kubectl.RolloutStatus(ctx, m.Name, c.timeout.String()); err != nil {
		return fmt.Errorf("rollout %s: %w", ref, err)
	}
	return nil
}

// RolloutAll rolls out refs in order and stops at the first failure.
func (c *Controller) RolloutAll(ctx context.Context, refs []manifest.ServiceRef) error {
	for _, ref := range refs {
		if err := c.Rollout(ctx, ref); err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes the deployment of ref. It reports false when there was nothing to delete.
func (c *Controller) Remove(ctx context.Context, ref manifest.ServiceRef) (bool, error) {
	name := ref.DeploymentName()
	_, exists, err := c.deployments.Deployment(ctx, name)
	if err != nil || !exists {
		return false, err
	}
	c.logger.Info("deleting deployment", "deployment", name)
	if err := c.kubectl.DeleteDeployment(ctx, name); err != nil {
		return false, fmt.Errorf("remove %s: %w", ref, err)
	}
	return true, nil
}

// Annotations returns the pod template annotations of the deployment of ref.
func (c *Controller) Annotations(ctx context.Context, ref manifest.ServiceRef) (map[string]string, bool, error) {
	dep, exists, err := c.deployments.Deployment(ctx, ref.DeploymentName())
	if err != nil || !exists {
		return nil, false, err
	}
	return dep.Spec.Template.Annotations, true, nil
}
