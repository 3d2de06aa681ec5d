// Package interact asks the operator for confirmation and service selections.
package interact

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/tectonic-cli/tectonic/internal/manifest"
)

// ErrNonInteractive is returned when a prompt is needed but stdin is not a terminal.
var ErrNonInteractive = errors.New("prompt requires an interactive terminal")

// Confirmer answers yes/no questions before a mutation.
type Confirmer interface {
	Confirm(ctx context.Context, title, description string) (bool, error)
}

// Static is a Confirmer that always gives the same answer, e.g. for --yes.
type Static bool

// Confirm implements Confirmer.
func (s Static) Confirm(context.Context, string, string) (bool, error) { return bool(s), nil }

// Terminal prompts on the controlling terminal.
type Terminal struct {
	isTerminal func() bool
	runForm    func(ctx context.Context, form *huh.Form) error
}

// NewTerminal returns prompts bound to the process stdin.
func NewTerminal() *Terminal {
	return &Terminal{
		isTerminal: func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		runForm: func(ctx context.Context, form *huh.Form) error {
			return form.RunWithContext(ctx)
		},
	}
}

// Interactive reports whether prompts can be shown.
func (t *Terminal) Interactive() bool { return t.isTerminal() }

// ask runs a single-field form. It reports false when the operator aborted it.
func (t *Terminal) ask(ctx context.Context, field huh.Field) (bool, error) {
	err := t.runForm(ctx, huh.NewForm(huh.NewGroup(field)))
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Confirm implements Confirmer. The default answer is yes; aborting the prompt is a no.
func (t *Terminal) Confirm(ctx context.Context, title, description string) (bool, error) {
	if !t.isTerminal() {
		return false, ErrNonInteractive
	}
	confirmed := true
	answered, err := t.ask(ctx, huh.NewConfirm().
		Title(title).
		Description(description).
		Value(&confirmed))
	if err != nil || !answered {
		return false, err
	}
	return confirmed, nil
}

// SelectServices asks the operator to pick any number of services from available.
func (t *Terminal) SelectServices(ctx context.Context, available []manifest.ServiceRef) ([]manifest.ServiceRef, error) {
	if !t.isTerminal() {
		return nil, ErrNonInteractive
	}
	var picked []string
	answered, err := t.ask(ctx, huh.NewMultiSelect[string]().
		Title("Services").
		Description("Space to toggle, enter to confirm").
		Options(serviceOptions(available)...).
		Value(&picked))
	if err != nil || !answered {
		return nil, err
	}
	return pickServices(available, picked), nil
}

// SelectService asks the operator to pick exactly one service from available.
func (t *Terminal) SelectService(ctx context.Context, available []manifest.ServiceRef) (manifest.ServiceRef, bool, error) {
	names := make([]string, len(available))
	for i, ref := range available {
		names[i] = ref.String()
	}
	picked, ok, err := t.Choose(ctx, "Service", names)
	if err != nil || !ok {
		return manifest.ServiceRef{}, false, err
	}
	refs := pickServices(available, []string{picked})
	if len(refs) == 0 {
		return manifest.ServiceRef{}, false, nil
	}
	return refs[0], true, nil
}

// Choose asks the operator to pick one of options. It reports false when there is
// nothing to pick or the prompt was aborted.
func (t *Terminal) Choose(ctx context.Context, title string, options []string) (string, bool, error) {
	if !t.isTerminal() {
		return "", false, ErrNonInteractive
	}
	if len(options) == 0 {
		return "", false, nil
	}
	var picked string
	answered, err := t.ask(ctx, huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&picked))
	if err != nil || !answered {
		return "", false, err
	}
	return picked, true, nil
}

// Input asks for a single line of text, prefilled with initial. It reports false when the
// prompt was aborted.
func (t *Terminal) Input(ctx context.Context, title, initial string) (string, bool, error) {
	if !t.isTerminal() {
		return "", false, ErrNonInteractive
	}
	value := initial
	answered, err := t.ask(ctx, huh.NewInput().
		Title(title).
		Value(&value))
	if err != nil || !answered {
		return "", false, err
	}
	return strings.TrimSpace(value), true, nil
}

func serviceOptions(refs []manifest.ServiceRef) []huh.Option[string] {
	options := make([]huh.Option[string], len(refs))
	for i, ref := range refs {
		options[i] = huh.NewOption(ref.String(), ref.String())
	}
	return options
}

func pickServices(available []manifest.ServiceRef, keys []string) []manifest.ServiceRef {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	var out []manifest.ServiceRef
	for _, ref := range available {
		if want[ref.String()] {
			out = append(out, ref)
		}
	}
	return out
}
