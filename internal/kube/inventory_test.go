package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func int32Ptr(v int32) *int32 { return &v }

func deployment(name string, desired, available int32) *appsv1.Deployment {
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Spec:       appsv1.DeploymentSpec{Replicas: int32Ptr(desired)},
		Status:     appsv1.DeploymentStatus{AvailableReplicas: available},
	}
}

func TestInventory_IngressNames(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset(
		&networkingv1.Ingress{ObjectMeta: metav1.ObjectMeta{Name: "web-ingress", Namespace: "default"}},
		&networkingv1.Ingress{ObjectMeta: metav1.ObjectMeta{Name: "other", Namespace: "kube-system"}},
	)

	names, err := NewInventory(clientset, "default").IngressNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"web-ingress"}, names)
}

func TestInventory_Deployment(t *testing.T) {
	t.Parallel()

	dep := deployment("api-deployment", 1, 1)
	dep.Spec.Template.Annotations = map[string]string{"deployedAt": "2026-10-01"}
	inv := NewInventory(fake.NewSimpleClientset(dep), "default")
	ctx := context.Background()

	got, ok, err := inv.Deployment(ctx, "api-deployment")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2026-10-01", got.Spec.Template.Annotations["deployedAt"])

	got, ok, err = inv.Deployment(ctx, "missing-deployment")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestInventory_UnreadyWorkloads(t *testing.T) {
	t.Parallel()

	defaultReplicas := deployment("kibana-deployment", 0, 0)
	defaultReplicas.Spec.Replicas = nil

	clientset := fake.NewSimpleClientset(
		deployment("mongo-deployment", 1, 1),
		deployment("redis-deployment", 2, 1),
		defaultReplicas,
		&appsv1.StatefulSet{
			ObjectMeta: metav1.ObjectMeta{Name: "elasticsearch", Namespace: "default"},
			Spec:       appsv1.StatefulSetSpec{Replicas: int32Ptr(3)},
			Status:     appsv1.StatefulSetStatus{ReadyReplicas: 2},
		},
	)

	unready, err := NewInventory(clientset, "default").UnreadyWorkloads(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"deployment/redis-deployment",
		"deployment/kibana-deployment",
		"statefulset/elasticsearch",
	}, unready)
}

func pod(name string, phase corev1.PodPhase) *corev1.Pod {
	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Status:     corev1.PodStatus{Phase: phase},
	}
}

func TestInventory_RunningPods(t *testing.T) {
	t.Parallel()

	clientset := fake.NewSimpleClientset(
		pod("cli-deployment-b2", corev1.PodRunning),
		pod("cli-deployment-a1", corev1.PodRunning),
		pod("cli-deployment-c3", corev1.PodPending),
		pod("cli-deployment-tools-d4", corev1.PodRunning),
		pod("api-deployment-e5", corev1.PodRunning),
	)
	inv := NewInventory(clientset, "default")

	names, err := inv.RunningPods(context.Background(), "cli-deployment")
	require.NoError(t, err)
	assert.Equal(t, []string{"cli-deployment-a1", "cli-deployment-b2", "cli-deployment-tools-d4"}, names)

	none, err := inv.RunningPods(context.Background(), "web-deployment")
	require.NoError(t, err)
	assert.Empty(t, none)
}
