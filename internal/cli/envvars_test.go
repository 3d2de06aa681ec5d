package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tectonic-cli/tectonic/internal/logging"
)

func TestApplySettings_Precedence(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("TECTONIC_ROLLOUT_TIMEOUT=45s\nTECTONIC_YES=false\nTECTONIC_LOG_LEVEL=warn\nTECTONIC_KUBECONFIG=/from/dotenv\n"), 0o644))
	t.Setenv("TECTONIC_YES", "true")
	t.Setenv("TECTONIC_ROOT", "/srv/deploy")

	opts := &Options{}
	cmd := newRootCommand(opts, logging.Discard())
	require.NoError(t, cmd.ParseFlags([]string{"--log-level", "debug"}))

	require.NoError(t, applySettings(cmd, opts, dotenv))

	assert.True(t, opts.Yes, "OS environment wins over .env")
	assert.Equal(t, 45*time.Second, opts.RolloutTimeout)
	assert.Equal(t, logging.LevelDebug, opts.LogLevel, "explicit flag wins over settings")
	assert.Equal(t, "/srv/deploy", opts.Root)
	assert.Equal(t, "/from/dotenv", opts.Kubeconfig)
}

func TestApplySettings_KubeconfigFallsBackToKUBECONFIG(t *testing.T) {
	t.Setenv("TECTONIC_KUBECONFIG", "")
	t.Setenv("KUBECONFIG", "/home/op/.kube/gke")

	opts := &Options{}
	cmd := newRootCommand(opts, logging.Discard())
	require.NoError(t, cmd.ParseFlags(nil))

	require.NoError(t, applySettings(cmd, opts, filepath.Join(t.TempDir(), "missing.env")))
	assert.Equal(t, "/home/op/.kube/gke", opts.Kubeconfig)
	assert.Equal(t, defaultRolloutTimeout, opts.RolloutTimeout)
}

func TestApplySettings_InvalidDuration(t *testing.T) {
	t.Setenv("TECTONIC_ROLLOUT_TIMEOUT", "soon")

	opts := &Options{}
	cmd := newRootCommand(opts, logging.Discard())
	require.NoError(t, cmd.ParseFlags(nil))

	err := applySettings(cmd, opts, filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read TECTONIC_* settings")
}

func TestResolveRolloutTimeout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, defaultRolloutTimeout, resolveRolloutTimeout(0))
	assert.Equal(t, time.Minute, resolveRolloutTimeout(time.Minute))
}
