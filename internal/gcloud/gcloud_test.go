package gcloud

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tectonic-cli/tectonic/internal/execx"
	"github.com/tectonic-cli/tectonic/internal/execx/execxtest"
)

func TestActiveAccount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		output  string
		err     error
		want    string
		wantErr error
	}{
		{name: "active", output: "dev@example.com\n", want: "dev@example.com"},
		{name: "empty", output: "\n", wantErr: ErrNoActiveIdentity},
		{name: "unset", output: "(unset)", wantErr: ErrNoActiveIdentity},
		{name: "command fails", err: errors.New("exit status 1"), wantErr: ErrNoActiveIdentity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			runner := execxtest.New().On("gcloud config get-value account", tt.output, tt.err)

			got, err := NewClient(runner).ActiveAccount(context.Background())

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDescribeProject(t *testing.T) {
	t.Parallel()

	runner := execxtest.New().
		On("gcloud projects describe acme", `{"projectId":"acme","name":"Acme","lifecycleState":"ACTIVE"}`, nil).
		On("gcloud projects describe gone", `{"projectId":"gone","lifecycleState":"DELETE_REQUESTED"}`, nil).
		On("gcloud projects describe secret", "", &execx.Error{Command: "gcloud projects describe secret", Err: errors.New("exit status 1")})
	client := NewClient(runner)
	ctx := context.Background()

	p, err := client.DescribeProject(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.Name)
	assert.Contains(t, runner.Lines(), "gcloud projects describe acme --format json")

	_, err = client.DescribeProject(ctx, "gone")
	require.ErrorIs(t, err, ErrProjectUnreachable)

	_, err = client.DescribeProject(ctx, "secret")
	require.ErrorIs(t, err, ErrProjectUnreachable)

	_, err = client.DescribeProject(ctx, "")
	require.ErrorIs(t, err, ErrProjectUnreachable)
}

func TestDescribeGlobalAddress(t *testing.T) {
	t.Parallel()

	notFound := &execx.Error{
		Command: "gcloud compute addresses describe",
		Stderr:  "ERROR: (gcloud.compute.addresses.describe) Could not fetch resource:\n - The resource 'projects/acme/global/addresses/web-ingress' was not found",
		Err:     errors.New("exit status 1"),
	}
	runner := execxtest.New().
		On("gcloud compute addresses describe api-ingress", `{"name":"api-ingress","address":"34.1.2.3","status":"RESERVED"}`, nil).
		On("gcloud compute addresses describe web-ingress", "", notFound).
		On("gcloud compute addresses describe pending-ingress", `{"name":"pending-ingress"}`, nil)
	client := NewClient(runner)
	ctx := context.Background()

	addr, err := client.DescribeGlobalAddress(ctx, "acme", "api-ingress")
	require.NoError(t, err)
	assert.Equal(t, "34.1.2.3", addr.Address)
	assert.Equal(t, "gcloud compute addresses describe api-ingress --global --project acme --format json", runner.Lines()[0])

	_, err = client.DescribeGlobalAddress(ctx, "acme", "web-ingress")
	require.ErrorIs(t, err, ErrAddressNotFound)

	_, err = client.DescribeGlobalAddress(ctx, "acme", "pending-ingress")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAddressNotFound)
}

func TestMutatingCommands(t *testing.T) {
	t.Parallel()

	runner := execxtest.New()
	client := NewClient(runner)
	ctx := context.Background()

	require.NoError(t, client.SetProject(ctx, "acme"))
	require.NoError(t, client.EnableService(ctx, "acme", "container.googleapis.com"))
	require.NoError(t, client.CreateGlobalAddress(ctx, "acme", "api-ingress"))
	cluster := Cluster{Project: "acme", Zone: "us-east1-c", Name: "cluster-1"}
	require.NoError(t, client.GetCredentials(ctx, cluster))

	assert.Equal(t, []string{
		"gcloud config set project acme",
		"gcloud services enable container.googleapis.com --project acme",
		"gcloud compute addresses create api-ingress --global --project acme",
		"gcloud container clusters get-credentials cluster-1 --zone us-east1-c --project acme",
	}, runner.Lines())
	assert.Equal(t, "gke_acme_us-east1-c_cluster-1", cluster.KubeContext())
}

func TestWithKubeconfig(t *testing.T) {
	t.Parallel()

	runner := execxtest.New()
	client := NewClient(runner).WithKubeconfig("/tmp/kubeconfig")
	require.NoError(t, client.GetCredentials(context.Background(), Cluster{Project: "p", Zone: "z", Name: "c"}))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"KUBECONFIG=/tmp/kubeconfig"}, calls[0].Env)
}

func TestMutatingCommandFailureIsWrapped(t *testing.T) {
	t.Parallel()

	runner := execxtest.New().On("gcloud container clusters get-credentials", "", errors.New("exit status 1"))

	err := NewClient(runner).GetCredentials(context.Background(), Cluster{Project: "p", Zone: "z", Name: "c"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get credentials for cluster c")
}

func TestAccounts(t *testing.T) {
	t.Parallel()

	runner := execxtest.New().On("gcloud auth list --format json",
		`[{"account":"ops@example.com","status":"ACTIVE"},{"account":"ci@example.com","status":""}]`, nil)
	client := NewClient(runner)

	accounts, err := client.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.True(t, accounts[0].Active())
	assert.False(t, accounts[1].Active())

	require.NoError(t, client.SetAccount(context.Background(), "ci@example.com"))
	assert.Equal(t, 1, runner.Count("gcloud config set account ci@example.com"))
}
