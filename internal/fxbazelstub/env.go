// Environment and file helpers shared by the stub's subcommands.
package main

import (
	"bufio"
	"os"
	"strings"
)

// stateDir is where state files live unless overridden: the working
// directory, which the transcript harness points at the temp workspace.
func stateDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// readLines returns the non-blank lines of path.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

func logInvocation(path string, argv []string) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	_, _ = f.WriteString(strings.Join(argv, " ") + "\n")
}
