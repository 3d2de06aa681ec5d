// Package config loads and persists the per-environment configuration record.
//
// The record lives in environments/<name>/config.json (or config.yaml). Only the fields the
// bootstrap pipeline needs are typed; everything else in the file is carried through
// untouched when the record is persisted.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrConfigMissing is returned when an environment has no config file.
var ErrConfigMissing = errors.New("environment config missing")

// MissingFieldError reports a required config field that is absent or empty.
type MissingFieldError struct {
	// Environment is the environment whose config is incomplete.
	Environment string
	// Field is the dotted path of the missing field, e.g. "gcloud.project".
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing %s in config for environment %q", e.Field, e.Environment)
}

const (
	defaultNamespace = "default"
	defaultPodLabel  = "app"
)

// Config is the configuration record of a single environment.
type Config struct {
	// GCloud holds the cloud project and cluster coordinates.
	GCloud *GCloud `json:"gcloud,omitempty" yaml:"gcloud,omitempty"`

	environment string
	path        string
	source      []byte
}

// GCloud describes the Google Cloud project backing an environment.
type GCloud struct {
	// Project is the cloud project id.
	Project string `json:"project" yaml:"project"`
	// BucketPrefix prefixes storage bucket names. It usually defaults to the project id.
	BucketPrefix string `json:"bucketPrefix,omitempty" yaml:"bucketPrefix,omitempty"`
	// ComputeZone is the zone of the GKE cluster.
	ComputeZone string `json:"computeZone,omitempty" yaml:"computeZone,omitempty"`
	// Ingresses lists public entry points in creation and display order.
	Ingresses []string `json:"ingresses,omitempty" yaml:"ingresses,omitempty"`
	// Label is the pod label key used to select a service's pods in logs.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	// Kubernetes holds cluster connection coordinates and optional sizing.
	Kubernetes Kubernetes `json:"kubernetes" yaml:"kubernetes"`
}

// Kubernetes describes the cluster of an environment.
type Kubernetes struct {
	// ClusterName is the GKE cluster name.
	ClusterName string `json:"clusterName" yaml:"clusterName"`
	// Namespace is the namespace workloads live in.
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	// NodeCount is the initial node pool size.
	NodeCount int `json:"nodeCount,omitempty" yaml:"nodeCount,omitempty"`
	// MinNodeCount is the autoscaler lower bound.
	MinNodeCount int `json:"minNodeCount,omitempty" yaml:"minNodeCount,omitempty"`
	// MaxNodeCount is the autoscaler upper bound.
	MaxNodeCount int `json:"maxNodeCount,omitempty" yaml:"maxNodeCount,omitempty"`
	// MachineType is the node machine type.
	MachineType string `json:"machineType,omitempty" yaml:"machineType,omitempty"`
}

// Path returns the file the record was loaded from.
func (c *Config) Path() string { return c.path }

// Project returns the declared project id, or "" when the gcloud block is absent.
func (c *Config) Project() string {
	if c == nil || c.GCloud == nil {
		return ""
	}
	return c.GCloud.Project
}

// Validate checks the fields required before any cloud or cluster call.
func (c *Config) Validate() error {
	if c.GCloud == nil {
		return &MissingFieldError{Environment: c.environment, Field: "gcloud"}
	}
	required := []struct {
		field string
		value string
	}{
		{"gcloud.project", c.GCloud.Project},
		{"gcloud.computeZone", c.GCloud.ComputeZone},
		{"gcloud.kubernetes.clusterName", c.GCloud.Kubernetes.ClusterName},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &MissingFieldError{Environment: c.environment, Field: r.field}
		}
	}
	return nil
}

// EntryPoints returns the declared ingress entry points without blanks or duplicates,
// keeping declaration order.
func (c *Config) EntryPoints() []string {
	if c.GCloud == nil {
		return nil
	}
	out := make([]string, 0, len(c.GCloud.Ingresses))
	for _, name := range c.GCloud.Ingresses {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(out, name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Namespace returns the workload namespace.
func (c *Config) Namespace() string {
	if c.GCloud == nil || strings.TrimSpace(c.GCloud.Kubernetes.Namespace) == "" {
		return defaultNamespace
	}
	return c.GCloud.Kubernetes.Namespace
}

// PodLabel returns the pod label key identifying a service's pods.
func (c *Config) PodLabel() string {
	if c.GCloud == nil || strings.TrimSpace(c.GCloud.Label) == "" {
		return defaultPodLabel
	}
	return c.GCloud.Label
}

// Retarget returns a copy of the record pointing at project. The bucket prefix follows the
// project only when it equalled the previous project id, keeping that derived default in sync.
// The receiver is not modified.
func (c *Config) Retarget(project string) *Config {
	out := *c
	if c.GCloud == nil {
		out.GCloud = &GCloud{Project: project}
		return &out
	}
	g := *c.GCloud
	g.Ingresses = slices.Clone(c.GCloud.Ingresses)
	if g.BucketPrefix == g.Project {
		g.BucketPrefix = project
	}
	g.Project = project
	out.GCloud = &g
	return &out
}
