// Package kube provides low-level integration with Kubernetes via kubectl and client-go.
package kube

import (
	"context"
	"fmt"
	"strings"

	"github.com/tectonic-cli/tectonic/internal/execx"
)

// Client wraps kubectl execution pinned to a kubeconfig context and namespace.
type Client struct {
	Kubeconfig string
	Context    string
	Namespace  string

	runner execx.Runner
}

// NewClient constructs a new kubectl client wrapper.
func NewClient(runner execx.Runner, kubeconfig, kubeContext, namespace string) *Client {
	return &Client{
		Kubeconfig: kubeconfig,
		Context:    kubeContext,
		Namespace:  namespace,
		runner:     runner,
	}
}

// Create creates the resources described by path (a file or a directory of manifests).
func (c *Client) Create(ctx context.Context, path string) error {
	return c.run(ctx, "create", "-f", path)
}

// Delete deletes the resources described by path.
// When ignoreNotFound is true, missing resources are not an error.
func (c *Client) Delete(ctx context.Context, path string, ignoreNotFound bool) error {
	args := []string{"delete", "-f", path}
	if ignoreNotFound {
		args = append(args, "--ignore-not-found")
	}
	return c.run(ctx, args...)
}

// DeleteDeployment deletes a deployment by name, ignoring absence.
func (c *Client) DeleteDeployment(ctx context.Context, name string) error {
	return c.run(ctx, "delete", "deployment", name, "--ignore-not-found")
}

// RolloutRestart triggers a fresh rollout of a deployment.
func (c *Client) RolloutRestart(ctx context.Context, deployment string) error {
	return c.run(ctx, "rollout", "restart", "deployment/"+deployment)
}

// RolloutStatus waits until the latest rollout of a deployment finishes.
func (c *Client) RolloutStatus(ctx context.Context, deployment, timeout string) error {
	args := []string{"rollout", "status", "deployment/" + deployment}
	if timeout != "" {
		args = append(args, "--timeout="+timeout)
	}
	return c.run(ctx, args...)
}

// Get prints resources of the given type to the operator.
func (c *Client) Get(ctx context.Context, resource string) error {
	return c.run(ctx, "get", resource)
}

// GetOutput returns the table kubectl prints for resources of the given type.
func (c *Client) GetOutput(ctx context.Context, resource string) ([]byte, error) {
	out, err := c.runner.Output(ctx, c.command("get", resource))
	if err != nil {
		return nil, fmt.Errorf("kubectl get %s: %w", resource, err)
	}
	return out, nil
}

// Exec runs command in pod with an interactive terminal attached.
func (c *Client) Exec(ctx context.Context, pod string, command ...string) error {
	args := append([]string{"exec", "-it", pod, "--"}, command...)
	return c.run(ctx, args...)
}

// PortForward forwards localPort to remotePort of a deployment until ctx is done or
// kubectl exits.
func (c *Client) PortForward(ctx context.Context, deployment string, localPort, remotePort int) error {
	return c.run(ctx, "port-forward", "deployment/"+deployment, fmt.Sprintf("%d:%d", localPort, remotePort))
}

// CurrentContext returns the current kubeconfig context, ignoring the pinned Context.
func (c *Client) CurrentContext(ctx context.Context) (string, error) {
	cmd := execx.Command{Name: "kubectl", Args: []string{"config", "current-context"}, Env: c.env()}
	out, err := c.runner.Output(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("kubectl config current-context: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *Client) run(ctx context.Context, args ...string) error {
	if err := c.runner.Run(ctx, c.command(args...)); err != nil {
		return fmt.Errorf("kubectl %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

func (c *Client) command(args ...string) execx.Command {
	cmdArgs := make([]string, 0, len(args)+4)
	if c.Context != "" {
		cmdArgs = append(cmdArgs, "--context", c.Context)
	}
	if c.Namespace != "" {
		cmdArgs = append(cmdArgs, "-n", c.Namespace)
	}
	cmdArgs = append(cmdArgs, args...)
	return execx.Command{Name: "kubectl", Args: cmdArgs, Env: c.env()}
}

func (c *Client) env() []string {
	if c.Kubeconfig == "" {
		return nil
	}
	return []string{"KUBECONFIG=" + c.Kubeconfig}
}
