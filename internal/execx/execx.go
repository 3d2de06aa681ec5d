// Package execx runs the external CLIs (gcloud, terraform, kubectl) the reconciler drives.
package execx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/tectonic-cli/tectonic/internal/logging"
)

// Command describes a single external invocation.
type Command struct {
	// Name is the binary to run.
	Name string
	// Args are the arguments passed to the binary.
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env holds extra KEY=VALUE pairs appended to the process environment.
	Env []string
}

// String renders the command line for logs and test assertions.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Runner executes commands. Run streams output to the operator; Output captures stdout.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

// Error is returned when a command exits unsuccessfully or cannot be started.
type Error struct {
	// Command is the rendered command line.
	Command string
	// Stderr holds captured stderr for Output calls.
	Stderr string
	// Err is the underlying exec error.
	Err error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v: %s", e.Command, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// Stdout receives streamed standard output of Run calls.
	Stdout io.Writer
	// Stdin is connected to Run calls.
	Stdin  io.Reader
	logger *slog.Logger
}

// NewExecRunner returns a runner streaming stdout to os.Stdout and forwarding stderr lines
// to logger.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		Stdin:  os.Stdin,
		logger: logging.OrDiscard(logger),
	}
}

// Run executes cmd, streaming its output.
func (r *ExecRunner) Run(ctx context.Context, c Command) error {
	cmd := r.command(ctx, c)
	cmd.Stdout = r.Stdout
	stderr := logging.NewWriter(r.logger, logging.LevelWarn, c.Name)
	cmd.Stderr = stderr
	if r.Stdin != nil {
		cmd.Stdin = r.Stdin
	}

	r.logger.Debug("running command", "cmd", c.String(), "dir", c.Dir)
	err := cmd.Run()
	stderr.Flush()
	if err != nil {
		return &Error{Command: c.String(), Err: err}
	}
	return nil
}

// Output executes cmd and returns its standard output.
func (r *ExecRunner) Output(ctx context.Context, c Command) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := r.command(ctx, c)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running command", "cmd", c.String(), "dir", c.Dir, "capture", true)
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &Error{
			Command: c.String(),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return stdout.Bytes(), nil
}

func (r *ExecRunner) command(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	return cmd
}
