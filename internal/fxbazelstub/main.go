// fxbazelstub is a hermetic stub for the `bazel` CLI used by transcript tests.
//
// Supported subcommands:
//   - `bazel run <target>`
//   - `bazel build <pattern> --config <name>`
//
// Every invocation is appended to `FX_BAZEL_LOG` (default `.bazel-log` in `$PWD`).
// Exit codes come from `FX_BAZEL_STATE_FILE` (default `.bazel-exits`), one
// `key|code|message` line per target or config; unlisted keys succeed.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	stateFile := envOr("FX_BAZEL_STATE_FILE", filepath.Join(stateDir(), ".bazel-exits"))
	logFile := envOr("FX_BAZEL_LOG", filepath.Join(stateDir(), ".bazel-log"))

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "bazel stub: missing subcommand")
		os.Exit(1)
	}

	sub := os.Args[1]
	args := os.Args[2:]
	logInvocation(logFile, append([]string{"bazel"}, os.Args[1:]...))

	switch sub {
	case "run", "build":
		key, err := invocationKey(sub, args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bazel stub: %v\n", err)
			os.Exit(2)
		}
		code, message, err := lookupExit(stateFile, key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bazel stub: %v\n", err)
			os.Exit(1)
		}
		if message != "" {
			fmt.Fprintln(os.Stdout, message)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "bazel stub cannot handle: %s %s\n", sub, strings.Join(args, " "))
	os.Exit(1)
}
