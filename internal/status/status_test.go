package status

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tectonic-cli/tectonic/internal/execx/execxtest"
	"github.com/tectonic-cli/tectonic/internal/kube"
)

func TestReporter_Report(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pods     string
		wantHint bool
	}{
		{
			name: "healthy",
			pods: "NAME              READY   STATUS\napi-deployment-1  1/1     Running\n",
		},
		{
			name:     "missing secret",
			pods:     "NAME              READY   STATUS\napi-deployment-1  0/1     CreateContainerConfigError\n",
			wantHint: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			runner := execxtest.New().On("kubectl --context gke_p_z_c get pods", tt.pods, nil)
			var out bytes.Buffer
			r := NewReporter(kube.NewClient(runner, "", "gke_p_z_c", ""), &out, "staging", "tectonic", nil)

			rep, err := r.Report(context.Background())
			require.NoError(t, err)

			assert.Equal(t, []string{
				"kubectl --context gke_p_z_c get ingress",
				"kubectl --context gke_p_z_c get services",
				"kubectl --context gke_p_z_c get nodes",
				"kubectl --context gke_p_z_c get hpa",
				"kubectl --context gke_p_z_c get pods",
			}, runner.Lines())
			assert.Contains(t, out.String(), "api-deployment-1")
			assert.Equal(t, tt.wantHint, rep.ConfigErrorHint)
			if tt.wantHint {
				assert.Contains(t, rep.Hint, "tectonic secret staging set credentials")
			}
		})
	}
}

func TestReporter_KubectlFailure(t *testing.T) {
	t.Parallel()

	runner := execxtest.New().On("kubectl get nodes", "", errors.New("connection refused"))
	r := NewReporter(kube.NewClient(runner, "", "", ""), &bytes.Buffer{}, "staging", "tectonic", nil)

	_, err := r.Report(context.Background())
	require.Error(t, err)
	assert.Zero(t, runner.Count("kubectl get pods"))
}

type closedWriter struct{}

func (closedWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestReporter_WriteFailure(t *testing.T) {
	t.Parallel()

	runner := execxtest.New()
	r := NewReporter(kube.NewClient(runner, "", "", ""), closedWriter{}, "staging", "tectonic", nil)

	_, err := r.Report(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write status")
	assert.Equal(t, []string{"kubectl get ingress"}, runner.Lines())
}
