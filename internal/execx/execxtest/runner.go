// Package execxtest provides a scripted execx.Runner for tests.
package execxtest

import (
	"context"
	"strings"
	"sync"

	"github.com/tectonic-cli/tectonic/internal/execx"
)

// Response is a canned command result.
type Response struct {
	Output []byte
	Err    error
}

// Runner records every command and answers from scripted responses.
//
// Responses are registered against a command-line prefix; the longest matching prefix wins.
// Queued responses are consumed in order and the last one repeats. Commands without a
// matching prefix succeed with empty output.
type Runner struct {
	mu        sync.Mutex
	calls     []execx.Command
	responses map[string][]Response

	// Handler, when set, answers every command instead of the scripted responses.
	Handler func(cmd execx.Command) ([]byte, error)
}

// New returns an empty Runner.
func New() *Runner {
	return &Runner{responses: map[string][]Response{}}
}

// On queues a response for commands whose rendered line starts with prefix.
func (r *Runner) On(prefix, output string, err error) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[prefix] = append(r.responses[prefix], Response{Output: []byte(output), Err: err})
	return r
}

// Run implements execx.Runner.
func (r *Runner) Run(_ context.Context, cmd execx.Command) error {
	_, err := r.respond(cmd)
	return err
}

// Output implements execx.Runner.
func (r *Runner) Output(_ context.Context, cmd execx.Command) ([]byte, error) {
	return r.respond(cmd)
}

// Calls returns the recorded commands.
func (r *Runner) Calls() []execx.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]execx.Command(nil), r.calls...)
}

// Lines returns the recorded command lines.
func (r *Runner) Lines() []string {
	calls := r.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.String()
	}
	return out
}

// Count returns how many recorded command lines start with prefix.
func (r *Runner) Count(prefix string) int {
	n := 0
	for _, line := range r.Lines() {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func (r *Runner) respond(cmd execx.Command) ([]byte, error) {
	r.mu.Lock()
	r.calls = append(r.calls, cmd)
	handler := r.Handler
	r.mu.Unlock()

	if handler != nil {
		return handler(cmd)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	line := cmd.String()
	best := ""
	found := false
	for prefix := range r.responses {
		if strings.HasPrefix(line, prefix) && (!found || len(prefix) > len(best)) {
			best = prefix
			found = true
		}
	}
	if !found {
		return nil, nil
	}

	queue := r.responses[best]
	resp := queue[0]
	if len(queue) > 1 {
		r.responses[best] = queue[1:]
	}
	return resp.Output, resp.Err
}
