// Exit-code state for stubbed `bazel run` and `bazel build` invocations.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

// invocationKey names what an invocation acts on: the target for `run`,
// the `--config` value for `build`.
func invocationKey(sub string, args []string) (string, error) {
	switch sub {
	case "run":
		if len(args) == 0 {
			return "", errors.New("run: missing target")
		}
		return args[0], nil
	case "build":
		for i, arg := range args {
			if v, ok := strings.CutPrefix(arg, "--config="); ok {
				return v, nil
			}
			if arg == "--config" && i+1 < len(args) {
				return args[i+1], nil
			}
		}
		return "", errors.New("build: missing --config")
	default:
		return "", fmt.Errorf("unsupported subcommand %q", sub)
	}
}

func lookupExit(stateFile, key string) (int, string, error) {
	lines, err := readLines(stateFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, "", nil
		}
		return 0, "", err
	}
	for _, line := range lines {
		parts := strings.SplitN(line, "|", 3)
		if len(parts) < 2 || parts[0] != key {
			continue
		}
		code, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, "", fmt.Errorf("%s: bad exit code %q for %s", stateFile, parts[1], key)
		}
		message := ""
		if len(parts) == 3 {
			message = parts[2]
		}
		return code, message, nil
	}
	return 0, "", nil
}
