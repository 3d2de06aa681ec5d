package terraform

import (
	"strconv"

	"github.com/tectonic-cli/tectonic/internal/config"
)

const stateBucketSuffix = "-terraform-state"

// TargetFor derives the terraform target of environment from its config record. Remote
// state lives in <bucketPrefix>-terraform-state under the environment prefix; the bucket
// prefix falls back to the project id.
func TargetFor(environment string, cfg *config.Config) Target {
	g := cfg.GCloud
	if g == nil {
		g = &config.GCloud{}
	}
	bucketPrefix := g.BucketPrefix
	if bucketPrefix == "" {
		bucketPrefix = g.Project
	}

	vars := map[string]string{
		"project":       g.Project,
		"environment":   environment,
		"bucket_prefix": bucketPrefix,
		"zone":          g.ComputeZone,
		"cluster_name":  g.Kubernetes.ClusterName,
	}
	k := g.Kubernetes
	setInt(vars, "node_count", k.NodeCount)
	setInt(vars, "min_node_count", k.MinNodeCount)
	setInt(vars, "max_node_count", k.MaxNodeCount)
	if k.MachineType != "" {
		vars["machine_type"] = k.MachineType
	}

	return Target{
		Environment: environment,
		Backend: map[string]string{
			"bucket": bucketPrefix + stateBucketSuffix,
			"prefix": environment,
		},
		Vars: vars,
	}
}

func setInt(vars map[string]string, key string, v int) {
	if v > 0 {
		vars[key] = strconv.Itoa(v)
	}
}
