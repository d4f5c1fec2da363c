package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/DonovanMods/mrunpack/internal/domain"
)

// ProcessResult contains the output from running an external program
type ProcessResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// ProcessRunner runs external programs. Arguments are passed as an argv slice,
// never through a shell.
type ProcessRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (*ProcessResult, error)
}

// ExecRunner runs programs with os/exec under a timeout
type ExecRunner struct {
	timeout time.Duration
}

// NewExecRunner creates a runner that kills programs running longer than timeout.
// A zero timeout disables the limit.
func NewExecRunner(timeout time.Duration) *ExecRunner {
	return &ExecRunner{timeout: timeout}
}

// Run executes name with args in dir and returns its captured output.
// A missing program, a timeout and a non-zero exit all fail with domain.ErrExternalProcess.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (*ProcessResult, error) {
	result := &ProcessResult{}

	path, err := exec.LookPath(name)
	if err != nil {
		return result, fmt.Errorf("%w: %s not found: %v", domain.ErrExternalProcess, name, err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	cmd.WaitDelay = 100 * time.Millisecond // Allow graceful shutdown after context cancel

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return result, fmt.Errorf("%w: %s timed out after %v", domain.ErrExternalProcess, name, r.timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, fmt.Errorf("%w: %s exited with code %d", domain.ErrExternalProcess, name, result.ExitCode)
		}
		return result, fmt.Errorf("%w: running %s: %v", domain.ErrExternalProcess, name, err)
	}

	return result, nil
}
