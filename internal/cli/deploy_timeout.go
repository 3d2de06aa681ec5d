package cli

import (
	"time"

	"github.com/tectonic-cli/tectonic/internal/rollout"
)

const defaultRolloutTimeout = rollout.DefaultTimeout

// resolveRolloutTimeout chooses the effective rollout wait timeout.
func resolveRolloutTimeout(explicit time.Duration) time.Duration {
	if explicit <= 0 {
		return defaultRolloutTimeout
	}
	return explicit
}
