// Package terraform invokes the init, apply and refresh phases of the terraform CLI for an
// environment. Terraform owns all infrastructure state; this package only sequences calls.
package terraform

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/tectonic-cli/tectonic/internal/execx"
)

const defaultBinary = "terraform"

// Target describes the environment a terraform run is scoped to.
type Target struct {
	// Environment is the environment name; it keys the remote state prefix.
	Environment string
	// Backend holds -backend-config values passed to init.
	Backend map[string]string
	// Vars holds -var values passed to apply and refresh.
	Vars map[string]string
}

// Provisioner runs terraform in a fixed root module directory.
type Provisioner struct {
	runner execx.Runner
	dir    string
	binary string
}

// NewProvisioner constructs a Provisioner for the root module in dir.
func NewProvisioner(runner execx.Runner, dir string) *Provisioner {
	return &Provisioner{runner: runner, dir: dir, binary: defaultBinary}
}

// Init initialises the working directory and remote state for the target.
func (p *Provisioner) Init(ctx context.Context, t Target) error {
	args := []string{"init", "-input=false", "-reconfigure"}
	args = append(args, pairs("-backend-config", t.Backend)...)
	return p.run(ctx, "init", t, args)
}

// Apply creates or updates the target's infrastructure.
func (p *Provisioner) Apply(ctx context.Context, t Target) error {
	args := []string{"apply", "-input=false", "-auto-approve"}
	args = append(args, pairs("-var", t.Vars)...)
	return p.run(ctx, "apply", t, args)
}

// Refresh reconciles terraform state with the real infrastructure without changing it.
func (p *Provisioner) Refresh(ctx context.Context, t Target) error {
	args := []string{"apply", "-refresh-only", "-input=false", "-auto-approve"}
	args = append(args, pairs("-var", t.Vars)...)
	return p.run(ctx, "refresh", t, args)
}

func (p *Provisioner) run(ctx context.Context, phase string, t Target, args []string) error {
	err := p.runner.Run(ctx, execx.Command{
		Name: p.binary,
		Args: args,
		Dir:  p.dir,
		Env:  []string{"TF_IN_AUTOMATION=1"},
	})
	if err != nil {
		return fmt.Errorf("terraform %s for environment %s: %w", phase, t.Environment, err)
	}
	return nil
}

// pairs renders values as sorted `flag=key=value` arguments so command lines are stable.
func pairs(flag string, values map[string]string) []string {
	keys := slices.Sorted(maps.Keys(values))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s=%s", flag, k, values[k]))
	}
	return out
}
