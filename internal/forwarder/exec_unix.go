//go:build unix

package forwarder

import (
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"
)

// ProcessExecutor replaces the running process with the invocation.
type ProcessExecutor struct{}

func (ProcessExecutor) Exec(argv, env []string) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return err
	}
	if err := unix.Exec(path, argv, env); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}
