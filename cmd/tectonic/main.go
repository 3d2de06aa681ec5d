package main

import (
	"errors"
	"os"

	"github.com/tectonic-cli/tectonic/internal/bootstrap"
	"github.com/tectonic-cli/tectonic/internal/cli"
	"github.com/tectonic-cli/tectonic/internal/logging"
)

// main is the entry point for the tectonic CLI binary.
func main() {
	logger := logging.NewLogger(os.Stderr, logging.LevelInfo)
	if err := cli.Execute(os.Args[1:], logger); err != nil {
		var phaseErr *bootstrap.PhaseError
		if errors.As(err, &phaseErr) {
			logger.Error("command failed", "phase", phaseErr.Phase, "hint", phaseErr.Hint, "error", phaseErr.Err)
		} else {
			logger.Error("command failed", "error", err)
		}
		os.Exit(1)
	}
}
