// Argument parsing for the `fxcmdtest` harness.
//
// Supported flags:
//   - `--bare` (create the directory but no workspace.fx.yaml)
//   - `--dir <dir>` (cd under the temp workspace before running)
//   - `--bazel-exit <key=code>` (repeatable; seed the bazel stub's exit codes)
//   - `--keep` (preserve the temp workspace for debugging)
//   - `-h/--help`
package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

type options struct {
	bare       bool
	dir        string
	bazelExits []string
	keep       bool
	help       bool
}

func parseArgs(args []string) (options, []string, error) {
	var opts options

	fs := pflag.NewFlagSet("fxcmdtest", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)

	fs.BoolVar(&opts.bare, "bare", false, "")
	fs.StringVar(&opts.dir, "dir", "", "")
	fs.StringArrayVar(&opts.bazelExits, "bazel-exit", nil, "")
	fs.BoolVar(&opts.keep, "keep", false, "")
	fs.BoolVarP(&opts.help, "help", "h", false, "")

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}
	if opts.help {
		return opts, nil, nil
	}

	if opts.dir != "" {
		if filepath.IsAbs(opts.dir) {
			return options{}, nil, errors.New("dir must be a relative path")
		}
		clean := filepath.Clean(opts.dir)
		if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return options{}, nil, fmt.Errorf("dir must not escape workspace root: %q", opts.dir)
		}
	}

	for _, exit := range opts.bazelExits {
		key, code, ok := strings.Cut(exit, "=")
		if !ok || key == "" {
			return options{}, nil, fmt.Errorf("bazel-exit must be key=code: %q", exit)
		}
		if _, err := strconv.Atoi(code); err != nil {
			return options{}, nil, fmt.Errorf("bazel-exit code must be an integer: %q", exit)
		}
	}

	cmd := fs.Args()
	if len(cmd) == 0 {
		return options{}, nil, errors.New("missing command")
	}

	return opts, cmd, nil
}
