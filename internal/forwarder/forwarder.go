// Package forwarder launches a workspace command: it parses the command's
// descriptor, turns argv into an argument blob, and replaces fx with the
// command's runtime under a login shell.
package forwarder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/brandonbloom/fx/internal/argparse"
	"github.com/brandonbloom/fx/internal/descriptor"
	"github.com/brandonbloom/fx/internal/usage"
	"github.com/brandonbloom/fx/internal/workspace"
	"github.com/google/shlex"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/syntax"
)

// EnvWorkspaceDirectory tells the command where its workspace lives.
const EnvWorkspaceDirectory = "FX_WORKSPACE_DIRECTORY"

// Executor runs the final invocation. The default replaces the current
// process and only returns on failure.
type Executor interface {
	Exec(argv, env []string) error
}

// Forwarder runs one named workspace command.
type Forwarder struct {
	Workspace *workspace.Workspace
	Name      string
	Shell     []string
	Executor  Executor
	Logger    *zap.Logger
	Out       io.Writer
	Width     int
}

// Run forwards args to the command.
func (f *Forwarder) Run(ctx context.Context, args []string) error {
	logger := f.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	path := f.Workspace.CommandDescriptorPath(f.Name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("Unknown command %q.", f.Name)
		}
		return err
	}

	cmd, err := descriptor.ParseCommand(path)
	if err != nil {
		return err
	}

	blob, err := argparse.Parse(args, cmd)
	if err != nil {
		return err
	}

	if argparse.IsHelp(blob) {
		out := f.Out
		if out == nil {
			out = os.Stdout
		}
		return usage.Command(out, f.Name, cmd, f.Width)
	}

	encoded, err := blob.Encode()
	if err != nil {
		return err
	}

	argv := Invocation(f.Shell, cmd.Runtime.Run, encoded)
	env := Environment(f.Workspace.Root, os.Environ())
	logger.Debug("executing", zap.String("command", f.Name), zap.Strings("argv", argv))

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.Executor.Exec(argv, env); err != nil {
		return fmt.Errorf("Error executing command: %w", err)
	}
	return nil
}

// Invocation builds `<shell...> -l -c "<run> '<blob>'"`.
func Invocation(shell []string, run, blob string) []string {
	quoted, err := syntax.Quote(blob, syntax.LangBash)
	if err != nil {
		// Only strings holding NUL bytes fail to quote, and encoded JSON escapes those.
		quoted = "'" + strings.ReplaceAll(blob, "'", `'\''`) + "'"
	}
	argv := append([]string{}, shell...)
	return append(argv, "-l", "-c", run+" "+quoted)
}

// Environment prepends the workspace directory to environ.
func Environment(root string, environ []string) []string {
	env := make([]string, 0, len(environ)+1)
	env = append(env, EnvWorkspaceDirectory+"="+root)
	return append(env, environ...)
}

// Shell resolves the shell words: the configured override split like a
// shell would, else $SHELL, else /bin/sh.
func Shell(configured string) ([]string, error) {
	if strings.TrimSpace(configured) != "" {
		words, err := shlex.Split(configured)
		if err != nil {
			return nil, fmt.Errorf("config.shell: %w", err)
		}
		if len(words) > 0 {
			return words, nil
		}
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return []string{sh}, nil
	}
	return []string{"/bin/sh"}, nil
}
