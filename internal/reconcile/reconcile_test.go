package reconcile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tectonic-cli/tectonic/internal/gcloud"
	"github.com/tectonic-cli/tectonic/internal/manifest"
	"github.com/tectonic-cli/tectonic/internal/workspace"
)

type fakeAddresses struct {
	ips      map[string]string
	next     int
	describe int
	creates  []string
}

func (f *fakeAddresses) DescribeGlobalAddress(_ context.Context, _, name string) (gcloud.Address, error) {
	f.describe++
	ip, ok := f.ips[name]
	if !ok {
		return gcloud.Address{}, gcloud.ErrAddressNotFound
	}
	return gcloud.Address{Name: name, Address: ip}, nil
}

func (f *fakeAddresses) CreateGlobalAddress(_ context.Context, _, name string) error {
	f.creates = append(f.creates, name)
	f.next++
	f.ips[name] = fmt.Sprintf("34.0.0.%d", f.next)
	return nil
}

// fakeCluster tracks which manifest paths currently exist.
type fakeCluster struct {
	live  map[string]bool
	calls []string
}

func newFakeCluster() *fakeCluster { return &fakeCluster{live: map[string]bool{}} }

func (f *fakeCluster) Create(_ context.Context, path string) error {
	f.calls = append(f.calls, "create "+path)
	if f.live[path] {
		return errors.New("AlreadyExists")
	}
	f.live[path] = true
	return nil
}

func (f *fakeCluster) Delete(_ context.Context, path string, ignoreNotFound bool) error {
	f.calls = append(f.calls, "delete "+path)
	if !f.live[path] && !ignoreNotFound {
		return errors.New("NotFound")
	}
	delete(f.live, path)
	return nil
}

func (f *fakeCluster) count(call string) int {
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func TestAllocator_ReturnsExistingAddress(t *testing.T) {
	t.Parallel()

	api := &fakeAddresses{ips: map[string]string{"web-ingress": "34.9.9.9"}}
	rec, err := NewAllocator(api, "acme", nil).Ensure(context.Background(), "web")

	require.NoError(t, err)
	assert.Equal(t, AddressRecord{EntryPoint: "web", Name: "web-ingress", IP: "34.9.9.9"}, rec)
	assert.Empty(t, api.creates)
}

func TestAllocator_CreatesOnceThenReuses(t *testing.T) {
	t.Parallel()

	api := &fakeAddresses{ips: map[string]string{}}
	alloc := NewAllocator(api, "acme", nil)
	ctx := context.Background()

	first, err := alloc.Ensure(ctx, "api")
	require.NoError(t, err)
	second, err := alloc.Ensure(ctx, "api")
	require.NoError(t, err)

	assert.Equal(t, []string{"api-ingress"}, api.creates)
	assert.Equal(t, first, second)
	assert.Equal(t, "34.0.0.1", first.IP)
}

type flakyDescribe struct {
	*fakeAddresses
	failures int
}

func (f *flakyDescribe) DescribeGlobalAddress(ctx context.Context, project, name string) (gcloud.Address, error) {
	if f.failures > 0 {
		f.failures--
		return gcloud.Address{}, errors.New("connection reset")
	}
	return f.fakeAddresses.DescribeGlobalAddress(ctx, project, name)
}

func TestAllocator_DescribeFailureCountsAsAbsence(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	api := &flakyDescribe{fakeAddresses: &fakeAddresses{ips: map[string]string{}}, failures: 1}
	rec, err := NewAllocator(api, "acme", logger).Ensure(context.Background(), "api")
	require.NoError(t, err)
	assert.Equal(t, []string{"api-ingress"}, api.creates)
	assert.Equal(t, "34.0.0.1", rec.IP)
	assert.Contains(t, buf.String(), "treating it as absent")

	buf.Reset()
	_, err = NewAllocator(&fakeAddresses{ips: map[string]string{}}, "acme", logger).Ensure(context.Background(), "web")
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "treating it as absent")
}

type failingCreate struct{ fakeAddresses }

func (f *failingCreate) CreateGlobalAddress(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func TestAllocator_CreateFailureIsFatal(t *testing.T) {
	t.Parallel()

	api := &failingCreate{fakeAddresses{ips: map[string]string{}}}
	_, err := NewAllocator(api, "acme", nil).Ensure(context.Background(), "api")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create address api-ingress")
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	snap := NewSnapshot([]string{"web-ingress", "web-ingress"})
	assert.True(t, snap.Has("web-ingress"))
	assert.False(t, snap.Has("api-ingress"))
	assert.Equal(t, 1, snap.Len())
}

func TestReconciler_EnsureIngressSkipsExisting(t *testing.T) {
	t.Parallel()

	cluster := newFakeCluster()
	layout := manifest.NewLayout(workspace.Workspace{Root: "/ws"}, "staging")
	ing := layout.Ingress("web")

	created, err := NewReconciler(cluster, nil).EnsureIngress(context.Background(), ing, NewSnapshot([]string{"web-ingress"}))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, cluster.calls)
}

func TestReconciler_ReconcileIsIdempotent(t *testing.T) {
	t.Parallel()

	cluster := newFakeCluster()
	layout := manifest.NewLayout(workspace.Workspace{Root: "/ws"}, "staging")
	set := manifest.Set{layout.DataTier(), layout.Ingress("api"), layout.Ingress("web")}
	rec := NewReconciler(cluster, nil)
	ctx := context.Background()

	first, err := rec.Reconcile(ctx, set, NewSnapshot(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"data"}, first.Replaced)
	assert.Equal(t, []string{"api-ingress", "web-ingress"}, first.Created)

	// The next run lists ingresses again before reconciling.
	second, err := rec.Reconcile(ctx, set, NewSnapshot([]string{"api-ingress", "web-ingress"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"data"}, second.Replaced)
	assert.Empty(t, second.Created)
	assert.Equal(t, []string{"api-ingress", "web-ingress"}, second.Skipped)

	assert.Equal(t, 1, cluster.count("create "+layout.Ingress("api").Path))
	assert.Equal(t, 2, cluster.count("create "+layout.DataTier().Path))
	assert.True(t, cluster.live[layout.DataTier().Path])
	assert.True(t, cluster.live[layout.Ingress("web").Path])
}

func TestReconciler_StopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	cluster := newFakeCluster()
	layout := manifest.NewLayout(workspace.Workspace{Root: "/ws"}, "staging")
	// A live object that Delete will not remove causes Create to fail.
	data := layout.DataTier()
	stuck := &stuckCluster{fakeCluster: cluster, stuck: data.Path}
	cluster.live[data.Path] = true

	res, err := NewReconciler(stuck, nil).Reconcile(context.Background(), manifest.Set{data, layout.Ingress("api")}, NewSnapshot(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create data data")
	assert.Empty(t, res.Created)
	assert.Zero(t, cluster.count("create "+layout.Ingress("api").Path))
}

type stuckCluster struct {
	*fakeCluster
	stuck string
}

func (s *stuckCluster) Delete(ctx context.Context, path string, ignoreNotFound bool) error {
	if path == s.stuck {
		s.calls = append(s.calls, "delete "+path)
		return nil
	}
	return s.fakeCluster.Delete(ctx, path, ignoreNotFound)
}
