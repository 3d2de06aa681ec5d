package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		environment: "staging",
		GCloud: &GCloud{
			Project:      "acme-staging",
			BucketPrefix: "acme-staging",
			ComputeZone:  "us-east1-c",
			Ingresses:    []string{"api", "web"},
			Kubernetes:   Kubernetes{ClusterName: "cluster-1"},
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"no gcloud", func(c *Config) { c.GCloud = nil }, "gcloud"},
		{"no project", func(c *Config) { c.GCloud.Project = " " }, "gcloud.project"},
		{"no zone", func(c *Config) { c.GCloud.ComputeZone = "" }, "gcloud.computeZone"},
		{"no cluster", func(c *Config) { c.GCloud.Kubernetes.ClusterName = "" }, "gcloud.kubernetes.clusterName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var missing *MissingFieldError
			require.True(t, errors.As(err, &missing), "got %v", err)
			assert.Equal(t, tt.field, missing.Field)
			assert.Equal(t, "staging", missing.Environment)
		})
	}
}

func TestConfig_RetargetSyncsDerivedBucketPrefix(t *testing.T) {
	t.Parallel()

	original := validConfig()
	updated := original.Retarget("acme-prod")

	assert.Equal(t, "acme-prod", updated.GCloud.Project)
	assert.Equal(t, "acme-prod", updated.GCloud.BucketPrefix)
	assert.Equal(t, "acme-staging", original.GCloud.Project, "receiver must not change")
	assert.Equal(t, "acme-staging", original.GCloud.BucketPrefix)
}

func TestConfig_RetargetKeepsCustomBucketPrefix(t *testing.T) {
	t.Parallel()

	original := validConfig()
	original.GCloud.BucketPrefix = "acme-assets"

	updated := original.Retarget("acme-prod")

	assert.Equal(t, "acme-prod", updated.GCloud.Project)
	assert.Equal(t, "acme-assets", updated.GCloud.BucketPrefix)
}

func TestConfig_EntryPointsDeduplicates(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.GCloud.Ingresses = []string{"api", "", "web", "api", " web "}

	assert.Equal(t, []string{"api", "web"}, cfg.EntryPoints())
}

func TestConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()

	assert.Equal(t, "default", cfg.Namespace())
	assert.Equal(t, "app", cfg.PodLabel())

	cfg.GCloud.Kubernetes.Namespace = "apps"
	cfg.GCloud.Label = "service"
	assert.Equal(t, "apps", cfg.Namespace())
	assert.Equal(t, "service", cfg.PodLabel())
}
