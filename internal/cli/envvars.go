package cli

import (
	"fmt"
	"strings"
	"time"

	envparse "github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"

	"github.com/tectonic-cli/tectonic/internal/env"
	"github.com/tectonic-cli/tectonic/internal/logging"
)

// baseEnv defines root CLI defaults sourced from TECTONIC_* env vars.
type baseEnv struct {
	// Root is the deployment directory from TECTONIC_ROOT.
	Root string `env:"TECTONIC_ROOT"`
	// LogLevel is the logging level from TECTONIC_LOG_LEVEL.
	LogLevel string `env:"TECTONIC_LOG_LEVEL"`
	// Yes answers confirmation prompts from TECTONIC_YES.
	Yes bool `env:"TECTONIC_YES"`
	// RolloutTimeout bounds each rollout from TECTONIC_ROLLOUT_TIMEOUT.
	RolloutTimeout time.Duration `env:"TECTONIC_ROLLOUT_TIMEOUT"`
	// Kubeconfig is the kubeconfig path from TECTONIC_KUBECONFIG.
	Kubeconfig string `env:"TECTONIC_KUBECONFIG"`
}

// parseEnv fills target from vars via caarlos0/env.
func parseEnv(target any, vars env.Vars) error {
	return envparse.ParseWithOptions(target, envparse.Options{Environment: vars})
}

// settingsVars merges the optional .env file at dotenvPath under the process environment.
func settingsVars(dotenvPath string) (env.Vars, error) {
	fileVars, err := env.LoadOptionalFile(dotenvPath)
	if err != nil {
		return nil, err
	}
	return env.Merge(fileVars, env.FromOS()), nil
}

// applySettings fills opts from TECTONIC_* settings for every flag the operator did not set
// explicitly.
func applySettings(cmd *cobra.Command, opts *Options, dotenvPath string) error {
	vars, err := settingsVars(dotenvPath)
	if err != nil {
		return err
	}
	var base baseEnv
	if err := parseEnv(&base, vars); err != nil {
		return fmt.Errorf("read TECTONIC_* settings: %w", err)
	}

	flags := cmd.Flags()
	present := func(key string) bool { return strings.TrimSpace(vars[key]) != "" }

	if !flags.Changed("root") && present("TECTONIC_ROOT") {
		opts.Root = base.Root
	}
	level := flags.Lookup("log-level").Value.String()
	if !flags.Changed("log-level") && present("TECTONIC_LOG_LEVEL") {
		level = base.LogLevel
	}
	opts.LogLevel = logging.ParseLevel(level)
	if !flags.Changed("yes") && present("TECTONIC_YES") {
		opts.Yes = base.Yes
	}
	if !flags.Changed("rollout-timeout") && present("TECTONIC_ROLLOUT_TIMEOUT") {
		opts.RolloutTimeout = base.RolloutTimeout
	}
	applyKubeconfigOverride(cmd, opts, vars, base.Kubeconfig)
	return nil
}
