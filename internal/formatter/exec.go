package formatter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

// DefaultGracePeriod is how long an interrupted formatter may take to exit.
const DefaultGracePeriod = 250 * time.Millisecond

// ExecRunner runs commands as child processes sharing the caller's stdio.
type ExecRunner struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	GracePeriod time.Duration
}

// NewExecRunner returns a runner wired to the process's own streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run blocks until the command exits. A non-zero exit is reported through
// the returned code; failing to start the command is an error.
func (r *ExecRunner) Run(ctx context.Context, argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("empty command")
	}
	grace := r.GracePeriod
	if grace == 0 {
		grace = DefaultGracePeriod
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = r.Dir
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	// On cancellation the child is interrupted and only killed once the
	// grace period runs out.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = grace

	if err := cmd.Run(); err != nil {
		if cmd.ProcessState != nil && cmd.ProcessState.Success() {
			return 0, nil
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if code := exitErr.ExitCode(); code >= 0 {
				return code, nil
			}
			return 1, fmt.Errorf("%s: %w", argv[0], err)
		}
		return 0, err
	}
	return 0, nil
}
