package core

import (
	"fmt"
	"os"

	"github.com/DonovanMods/mrunpack/internal/domain"
)

// Confirmer decides whether a destructive step may proceed. The CLI supplies
// an interactive prompt; tests supply fixed answers.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface
type ConfirmFunc func(prompt string) (bool, error)

// Confirm calls f(prompt)
func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

var (
	// AlwaysConfirm approves every prompt (--yes)
	AlwaysConfirm Confirmer = ConfirmFunc(func(string) (bool, error) { return true, nil })

	// NeverConfirm declines every prompt (non-interactive runs)
	NeverConfirm Confirmer = ConfirmFunc(func(string) (bool, error) { return false, nil })
)

// claimDir makes sure dir does not exist before a run writes into it.
// An existing directory is only removed when the confirmer approves; a nil
// confirmer declines. Declining returns domain.ErrConflict and touches nothing.
func claimDir(c Confirmer, dir, what string) error {
	if _, err := os.Lstat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking %s %s: %w", what, dir, err)
	}

	if c == nil {
		c = NeverConfirm
	}
	prompt := fmt.Sprintf("%s %s already exists; a previous run may have been cancelled or crashed. Delete it and continue?", what, dir)
	ok, err := c.Confirm(prompt)
	if err != nil {
		return fmt.Errorf("confirming removal of %s: %w", dir, err)
	}
	if !ok {
		return fmt.Errorf("%s %s left in place: %w", what, dir, domain.ErrConflict)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s %s: %w", what, dir, err)
	}
	return nil
}
