package gcloud

import (
	"context"
	"fmt"
)

// RequiredServices are the cloud APIs enabled before infrastructure is provisioned.
var RequiredServices = []string{
	"compute.googleapis.com",
	"container.googleapis.com",
}

// SetProject makes project the default of the local gcloud configuration.
func (c *Client) SetProject(ctx context.Context, project string) error {
	if err := c.run(ctx, "config", "set", "project", project); err != nil {
		return fmt.Errorf("set gcloud project %s: %w", project, err)
	}
	return nil
}

// EnableService enables a cloud API in project. Enabling an enabled service is a no-op.
func (c *Client) EnableService(ctx context.Context, project, service string) error {
	if err := c.run(ctx, "services", "enable", service, "--project", project); err != nil {
		return fmt.Errorf("enable %s: %w", service, err)
	}
	return nil
}
