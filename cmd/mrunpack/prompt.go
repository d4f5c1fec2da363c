package main

import (
	"errors"
	"os"

	"github.com/DonovanMods/mrunpack/internal/core"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// runFormFunc runs a huh form; replaced in tests
var runFormFunc = func(form *huh.Form) error { return form.Run() }

// stdinInteractive reports whether prompts can be answered; replaced in tests
var stdinInteractive = func() bool { return isInteractive(os.Stdin) }

// isInteractive reports whether f is attached to a terminal
func isInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newConfirmer picks how leftover directories are handled: --yes deletes
// them, a terminal asks, anything else keeps them.
func newConfirmer(assumeYes bool) core.Confirmer {
	if assumeYes {
		return core.AlwaysConfirm
	}
	if !stdinInteractive() {
		return core.NeverConfirm
	}
	return core.ConfirmFunc(promptConfirm)
}

// promptConfirm asks a yes/no question on the terminal. Aborting the form declines.
func promptConfirm(prompt string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Delete").
				Negative("Keep").
				Value(&ok),
		),
	).WithProgramOptions(tea.WithOutput(os.Stderr))

	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ok, nil
}
