package kube

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tectonic-cli/tectonic/internal/execx/execxtest"
)

func TestClient_CommandsArePinned(t *testing.T) {
	t.Parallel()

	runner := execxtest.New()
	c := NewClient(runner, "/home/op/.kube/config", "gke_p_z_c", "default")
	ctx := context.Background()

	require.NoError(t, c.Delete(ctx, "/ws/environments/staging/data", true))
	require.NoError(t, c.Create(ctx, "/ws/environments/staging/data"))
	require.NoError(t, c.RolloutRestart(ctx, "api-deployment"))
	require.NoError(t, c.RolloutStatus(ctx, "api-deployment", "300s"))
	require.NoError(t, c.DeleteDeployment(ctx, "web-deployment"))
	require.NoError(t, c.Get(ctx, "nodes"))

	assert.Equal(t, []string{
		"kubectl --context gke_p_z_c -n default delete -f /ws/environments/staging/data --ignore-not-found",
		"kubectl --context gke_p_z_c -n default create -f /ws/environments/staging/data",
		"kubectl --context gke_p_z_c -n default rollout restart deployment/api-deployment",
		"kubectl --context gke_p_z_c -n default rollout status deployment/api-deployment --timeout=300s",
		"kubectl --context gke_p_z_c -n default delete deployment web-deployment --ignore-not-found",
		"kubectl --context gke_p_z_c -n default get nodes",
	}, runner.Lines())
	for _, call := range runner.Calls() {
		assert.Equal(t, []string{"KUBECONFIG=/home/op/.kube/config"}, call.Env)
	}
}

func TestClient_GetOutputAndCurrentContext(t *testing.T) {
	t.Parallel()

	runner := execxtest.New().
		On("kubectl -n default get pods", "NAME   READY\napi-1  1/1\n", nil).
		On("kubectl config current-context", "gke_p_z_c\n", nil)
	c := NewClient(runner, "", "", "default")
	ctx := context.Background()

	out, err := c.GetOutput(ctx, "pods")
	require.NoError(t, err)
	assert.Contains(t, string(out), "api-1")

	current, err := c.CurrentContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gke_p_z_c", current)
}

func TestClient_ErrorsNameTheCommand(t *testing.T) {
	t.Parallel()

	runner := execxtest.New().On("kubectl create", "", errors.New("exit status 1"))
	err := NewClient(runner, "", "", "").Create(context.Background(), "svc.yml")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "kubectl create -f svc.yml")
}

func TestClient_ExecAndPortForward(t *testing.T) {
	t.Parallel()

	runner := execxtest.New()
	c := NewClient(runner, "", "gke_p_z_c", "default")
	ctx := context.Background()

	require.NoError(t, c.Exec(ctx, "cli-deployment-7f9c", "bash"))
	require.NoError(t, c.PortForward(ctx, "kibana-deployment", 5602, 5601))

	assert.Equal(t, []string{
		"kubectl --context gke_p_z_c -n default exec -it cli-deployment-7f9c -- bash",
		"kubectl --context gke_p_z_c -n default port-forward deployment/kibana-deployment 5602:5601",
	}, runner.Lines())
}
