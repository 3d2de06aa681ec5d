package bootstrap

import (
	"context"

	"k8s.io/apimachinery/pkg/util/wait"
)

// settle waits for the namespace's deployments and statefulsets to become ready before the
// service tier is rolled out. Running out of time is logged and does not fail the run.
func (o *Orchestrator) settle(ctx context.Context, r *run) error {
	var pending []string
	err := wait.PollUntilContextTimeout(ctx, o.opts.SettleInterval, o.opts.SettleTimeout, true,
		func(ctx context.Context) (bool, error) {
			unready, err := r.inventory.UnreadyWorkloads(ctx)
			if err != nil {
				o.log.Debug("readiness check failed", "error", err)
				return false, nil
			}
			pending = unready
			return len(unready) == 0, nil
		})
	if err == nil {
		o.log.Info("workloads ready")
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if wait.Interrupted(err) {
		o.log.Warn("workloads not ready, continuing", "timeout", o.opts.SettleTimeout, "pending", pending)
		return nil
	}
	return err
}
