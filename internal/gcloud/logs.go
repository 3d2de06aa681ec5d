package gcloud

import (
	"fmt"
	"net/url"
	"strings"
)

const logsConsoleURL = "https://console.cloud.google.com/logs/query"

// LogQuery selects the container logs of one workload in a GKE cluster.
type LogQuery struct {
	Cluster   Cluster
	Namespace string
	// PodLabel is the label key whose value names the workload, e.g. "app".
	PodLabel string
	// Workload is the label value, e.g. "api" or "elasticsearch-sink".
	Workload string
}

// Filter renders the Cloud Logging filter expression of q.
func (q LogQuery) Filter() string {
	lines := []string{
		`resource.type="k8s_container"`,
		fmt.Sprintf("resource.labels.project_id=%q", q.Cluster.Project),
		fmt.Sprintf("resource.labels.location=%q", q.Cluster.Zone),
		fmt.Sprintf("resource.labels.cluster_name=%q", q.Cluster.Name),
		fmt.Sprintf("resource.labels.namespace_name=%q", q.Namespace),
		fmt.Sprintf("labels.k8s-pod/%s=%q", q.PodLabel, q.Workload),
	}
	return strings.Join(lines, "\n")
}

// ConsoleURL returns the Cloud Console Logs Explorer URL showing q.
func (q LogQuery) ConsoleURL() string {
	params := url.Values{"query": {q.Filter()}}
	return fmt.Sprintf("%s;%s?project=%s", logsConsoleURL, params.Encode(), url.QueryEscape(q.Cluster.Project))
}
