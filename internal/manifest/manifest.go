// Package manifest names the declarative resource files of an environment and the cluster
// objects they produce.
package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tectonic-cli/tectonic/internal/workspace"
)

// Kind classifies a manifest by the reconcile rule applied to it.
type Kind string

const (
	// KindData is the data tier directory; it is always hard-replaced.
	KindData Kind = "data"
	// KindIngress is a public entry point; it is created only when absent.
	KindIngress Kind = "ingress"
	// KindDeployment is a service deployment.
	KindDeployment Kind = "deployment"
)

const deploymentSuffix = "-deployment"

// Manifest is a single declarative resource file or directory.
type Manifest struct {
	Kind Kind
	// Name is the cluster object the manifest produces.
	Name string
	// Path is a file, or a directory for the data tier.
	Path string
}

// Set is an ordered list of manifests.
type Set []Manifest

// OfKind returns the manifests of kind k in order.
func (s Set) OfKind(k Kind) Set {
	var out Set
	for _, m := range s {
		if m.Kind == k {
			out = append(out, m)
		}
	}
	return out
}

// ServiceRef names a service and optional subservice, e.g. elasticsearch/sink.
type ServiceRef struct {
	Service    string
	Subservice string
}

// String renders the ref as "service" or "service-subservice".
func (r ServiceRef) String() string {
	if r.Subservice == "" {
		return r.Service
	}
	return r.Service + "-" + r.Subservice
}

// DeploymentName returns the deployment object name of the ref.
func (r ServiceRef) DeploymentName() string {
	return r.String() + deploymentSuffix
}

// CoreServices is the service tier in rollout order.
var CoreServices = []ServiceRef{
	{Service: "cli"},
	{Service: "api"},
	{Service: "elasticsearch", Subservice: "sink"},
	{Service: "web"},
}

// IngressName returns the ingress and global address name of an entry point.
func IngressName(entry string) string {
	return entry + "-ingress"
}

// Layout resolves manifest paths of one environment.
type Layout struct {
	ws          workspace.Workspace
	environment string
}

// NewLayout returns the manifest layout of environment.
func NewLayout(ws workspace.Workspace, environment string) Layout {
	return Layout{ws: ws, environment: environment}
}

// Environment returns the environment name.
func (l Layout) Environment() string { return l.environment }

// DataTier returns the data tier manifest directory.
func (l Layout) DataTier() Manifest {
	return Manifest{Kind: KindData, Name: "data", Path: l.ws.DataDir(l.environment)}
}

// Ingress returns the ingress manifest of an entry point.
func (l Layout) Ingress(entry string) Manifest {
	name := IngressName(entry)
	return Manifest{Kind: KindIngress, Name: name, Path: filepath.Join(l.ws.ServicesDir(l.environment), name+".yml")}
}

// Deployment returns the deployment manifest of a service.
func (l Layout) Deployment(ref ServiceRef) Manifest {
	name := ref.DeploymentName()
	return Manifest{Kind: KindDeployment, Name: name, Path: filepath.Join(l.ws.ServicesDir(l.environment), name+".yml")}
}

// Bootstrap returns the set a bootstrap run reconciles by manifest rule: the data tier,
// then one ingress per entry point in order. The service tier is rolled out separately.
func (l Layout) Bootstrap(entryPoints []string) Set {
	set := Set{l.DataTier()}
	for _, entry := range entryPoints {
		set = append(set, l.Ingress(entry))
	}
	return set
}

// Services lists the services that have a deployment manifest, sorted by name.
// A file named api-deployment.yml yields {api}; elasticsearch-sink-deployment.yml yields
// {elasticsearch sink}.
func (l Layout) Services() ([]ServiceRef, error) {
	entries, err := os.ReadDir(l.ws.ServicesDir(l.environment))
	if err != nil {
		return nil, err
	}
	var refs []ServiceRef
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), deploymentSuffix+".yml")
		if entry.IsDir() || !ok || name == "" {
			continue
		}
		service, sub, _ := strings.Cut(name, "-")
		refs = append(refs, ServiceRef{Service: service, Subservice: sub})
	}
	slices.SortFunc(refs, func(a, b ServiceRef) int { return strings.Compare(a.String(), b.String()) })
	return refs, nil
}

// ParseServiceRef builds a ref from positional service and subservice arguments.
func ParseServiceRef(args []string) (ServiceRef, bool) {
	switch len(args) {
	case 0:
		return ServiceRef{}, false
	case 1:
		return ServiceRef{Service: args[0]}, true
	default:
		return ServiceRef{Service: args[0], Subservice: args[1]}, true
	}
}
