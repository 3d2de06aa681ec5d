// Package gcloud drives the Google Cloud CLI: operator identity, project access, service
// enablement, cluster credentials and global addresses.
package gcloud

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tectonic-cli/tectonic/internal/execx"
)

const defaultBinary = "gcloud"

// Client wraps gcloud execution.
type Client struct {
	runner     execx.Runner
	binary     string
	kubeconfig string
}

// NewClient constructs a Client running commands through runner.
func NewClient(runner execx.Runner) *Client {
	return &Client{runner: runner, binary: defaultBinary}
}

// WithKubeconfig makes get-credentials write to path instead of the default kubeconfig.
func (c *Client) WithKubeconfig(path string) *Client {
	c.kubeconfig = path
	return c
}

func (c *Client) command(args []string) execx.Command {
	cmd := execx.Command{Name: c.binary, Args: args}
	if c.kubeconfig != "" {
		cmd.Env = []string{"KUBECONFIG=" + c.kubeconfig}
	}
	return cmd
}

func (c *Client) run(ctx context.Context, args ...string) error {
	return c.runner.Run(ctx, c.command(args))
}

func (c *Client) output(ctx context.Context, args ...string) ([]byte, error) {
	return c.runner.Output(ctx, c.command(args))
}

func (c *Client) describeJSON(ctx context.Context, into any, args ...string) error {
	out, err := c.output(ctx, append(args, "--format", "json")...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(out, into); err != nil {
		return fmt.Errorf("decode %s output: %w", c.binary, err)
	}
	return nil
}
