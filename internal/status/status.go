// Package status prints an operator-facing view of an environment's cluster.
package status

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tectonic-cli/tectonic/internal/logging"
)

// configErrorMarker appears in pod listings when a container references a missing secret
// or config map.
const configErrorMarker = "CreateContainerConfigError"

// Kubectl lists cluster resources.
type Kubectl interface {
	Get(ctx context.Context, resource string) error
	GetOutput(ctx context.Context, resource string) ([]byte, error)
}

// streamed are printed by kubectl directly, in this order, before pods.
var streamed = []string{"ingress", "services", "nodes", "hpa"}

// Report is the outcome of a status run.
type Report struct {
	// ConfigErrorHint is set when a pod is stuck on missing configuration.
	ConfigErrorHint bool
	// Hint is the operator guidance printed with ConfigErrorHint.
	Hint string
}

// Reporter prints resource listings for one environment.
type Reporter struct {
	kubectl     Kubectl
	out         io.Writer
	environment string
	binary      string
	logger      *slog.Logger
}

// NewReporter constructs a Reporter writing pod listings to out. binary is the name of
// this tool as the operator invokes it, used in hints.
func NewReporter(kubectl Kubectl, out io.Writer, environment, binary string, logger *slog.Logger) *Reporter {
	return &Reporter{kubectl: kubectl, out: out, environment: environment, binary: binary, logger: logging.OrDiscard(logger)}
}

// Report prints ingresses, services, nodes, autoscalers and pods. A failing kubectl call or
// write is an error; pods stuck on configuration produce a hint.
func (r *Reporter) Report(ctx context.Context) (Report, error) {
	for _, resource := range streamed {
		if err := r.kubectl.Get(ctx, resource); err != nil {
			return Report{}, err
		}
		if _, err := fmt.Fprintln(r.out); err != nil {
			return Report{}, fmt.Errorf("write status: %w", err)
		}
	}

	pods, err := r.kubectl.GetOutput(ctx, "pods")
	if err != nil {
		return Report{}, err
	}
	if _, err := fmt.Fprintf(r.out, "%s\n\n", strings.TrimRight(string(pods), "\n")); err != nil {
		return Report{}, fmt.Errorf("write status: %w", err)
	}

	var rep Report
	if strings.Contains(string(pods), configErrorMarker) {
		rep.ConfigErrorHint = true
		rep.Hint = fmt.Sprintf("check that required secrets exist, e.g. %q", r.binary+" secret "+r.environment+" set credentials")
		r.logger.Warn(configErrorMarker, "hint", rep.Hint)
	}
	return rep, nil
}
