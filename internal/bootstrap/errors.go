package bootstrap

import (
	"errors"
	"fmt"
)

// ErrDeclined is returned when the operator declines the config update. Nothing has been
// mutated when it is returned.
var ErrDeclined = errors.New("bootstrap declined by operator")

// PhaseError reports the phase a bootstrap run aborted in.
type PhaseError struct {
	Phase string
	// Hint is operator guidance for recovering, empty when there is none.
	Hint string
	Err  error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }

// hintError attaches operator guidance to a phase failure.
type hintError struct {
	hint string
	err  error
}

func (e *hintError) Error() string { return e.err.Error() }
func (e *hintError) Unwrap() error { return e.err }

func withHint(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &hintError{hint: fmt.Sprintf(format, args...), err: err}
}

func hintOf(err error) string {
	var h *hintError
	if errors.As(err, &h) {
		return h.hint
	}
	return ""
}
