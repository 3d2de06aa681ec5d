package gcloud

import (
	"context"
	"fmt"
)

// Cluster identifies a GKE cluster.
type Cluster struct {
	Project string
	Zone    string
	Name    string
}

// KubeContext returns the kubeconfig context name get-credentials writes for the cluster.
func (c Cluster) KubeContext() string {
	return fmt.Sprintf("gke_%s_%s_%s", c.Project, c.Zone, c.Name)
}

// GetCredentials writes kubeconfig credentials for cluster and makes it the current context.
func (c *Client) GetCredentials(ctx context.Context, cluster Cluster) error {
	err := c.run(ctx,
		"container", "clusters", "get-credentials", cluster.Name,
		"--zone", cluster.Zone,
		"--project", cluster.Project,
	)
	if err != nil {
		return fmt.Errorf("get credentials for cluster %s: %w", cluster.Name, err)
	}
	return nil
}
