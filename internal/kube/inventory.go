package kube

import (
	"context"
	"fmt"
	"slices"
	"strings"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/clientcmd"
)

// Inventory answers read-only questions about cluster state through the Kubernetes API.
type Inventory struct {
	clientset kubernetes.Interface
	namespace string
}

// NewInventory constructs an Inventory over clientset scoped to namespace.
func NewInventory(clientset kubernetes.Interface, namespace string) *Inventory {
	return &Inventory{clientset: clientset, namespace: namespace}
}

// NewInventoryForContext builds an Inventory from kubeconfig (or the default loading rules
// when empty), using the named context.
func NewInventoryForContext(kubeconfig, contextName, namespace string) (*Inventory, error) {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules.ExplicitPath = kubeconfig
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}

	restCfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, overrides).ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("load kubeconfig context %q: %w", contextName, err)
	}

	clientset, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create clientset: %w", err)
	}
	return NewInventory(clientset, namespace), nil
}

// IngressNames lists the names of ingresses in the namespace.
func (i *Inventory) IngressNames(ctx context.Context) ([]string, error) {
	list, err := i.clientset.NetworkingV1().Ingresses(i.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list ingresses: %w", err)
	}
	names := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		names = append(names, item.Name)
	}
	return names, nil
}

// Deployment fetches a deployment by name. A missing deployment is reported as
// (nil, false, nil).
func (i *Inventory) Deployment(ctx context.Context, name string) (*appsv1.Deployment, bool, error) {
	dep, err := i.clientset.AppsV1().Deployments(i.namespace).Get(ctx, name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get deployment %s: %w", name, err)
	}
	return dep, true, nil
}

// RunningPods returns the names of running pods created by deployment, sorted by name.
func (i *Inventory) RunningPods(ctx context.Context, deployment string) ([]string, error) {
	list, err := i.clientset.CoreV1().Pods(i.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list pods: %w", err)
	}
	var names []string
	for _, pod := range list.Items {
		if pod.Status.Phase == corev1.PodRunning && strings.HasPrefix(pod.Name, deployment+"-") {
			names = append(names, pod.Name)
		}
	}
	slices.Sort(names)
	return names, nil
}

// UnreadyWorkloads returns deployments and statefulsets whose ready replicas lag behind
// the desired count, as "kind/name" strings.
func (i *Inventory) UnreadyWorkloads(ctx context.Context) ([]string, error) {
	var unready []string

	deployments, err := i.clientset.AppsV1().Deployments(i.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	for _, d := range deployments.Items {
		if d.Status.AvailableReplicas < desiredReplicas(d.Spec.Replicas) {
			unready = append(unready, "deployment/"+d.Name)
		}
	}

	statefulSets, err := i.clientset.AppsV1().StatefulSets(i.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list statefulsets: %w", err)
	}
	for _, s := range statefulSets.Items {
		if s.Status.ReadyReplicas < desiredReplicas(s.Spec.Replicas) {
			unready = append(unready, "statefulset/"+s.Name)
		}
	}

	return unready, nil
}

func desiredReplicas(replicas *int32) int32 {
	if replicas == nil {
		return 1
	}
	return *replicas
}
