//go:build !unix

package forwarder

import (
	"errors"
	"os"
	"os/exec"
)

// ProcessExecutor runs the invocation as a child and exits with its status.
type ProcessExecutor struct{}

func (ProcessExecutor) Exec(argv, env []string) error {
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return err
	}
	os.Exit(0)
	return nil
}
