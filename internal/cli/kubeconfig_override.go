package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tectonic-cli/tectonic/internal/env"
)

// applyKubeconfigOverride picks the kubeconfig path: the --kubeconfig flag, then
// TECTONIC_KUBECONFIG, then KUBECONFIG. Empty means the kubectl default.
func applyKubeconfigOverride(cmd *cobra.Command, opts *Options, vars env.Vars, fromSettings string) {
	if cmd.Flags().Changed("kubeconfig") {
		return
	}
	if override := strings.TrimSpace(fromSettings); override != "" {
		opts.Kubeconfig = override
		return
	}
	opts.Kubeconfig = strings.TrimSpace(vars["KUBECONFIG"])
}
