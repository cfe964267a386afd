// Package formatter runs the workspace's language formatters in a fixed
// order, stopping at the first one that exits non-zero.
package formatter

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// AllLanguages selects every target.
const AllLanguages = "all"

// Target is one formatter the dispatcher knows how to run.
type Target struct {
	Language string
	Tokens   []string
	Command  func(test bool) []string
}

// Targets lists the supported formatters in the order they run.
var Targets = []Target{
	{
		Language: "Bazel",
		Tokens:   []string{"bazel"},
		Command: func(test bool) []string {
			target := "buildifier"
			if test {
				target = "buildifier-test"
			}
			return []string{"bazel", "run", "//tools/format:" + target}
		},
	},
	{
		Language: "C++",
		Tokens:   []string{"cpp", "c++"},
		Command: func(test bool) []string {
			config := "tidy"
			if test {
				config = "tidy-test"
			}
			return []string{"bazel", "build", "//...", "--config", config}
		},
	},
}

// Selected reports whether the selection asks for the target.
func (t Target) Selected(selection map[string]struct{}) bool {
	if _, ok := selection[AllLanguages]; ok {
		return true
	}
	for _, token := range t.Tokens {
		if _, ok := selection[token]; ok {
			return true
		}
	}
	return false
}

// Runner executes one formatter command and reports its exit code.
type Runner interface {
	Run(ctx context.Context, argv []string) (int, error)
}

// Dispatcher announces and runs each selected target.
type Dispatcher struct {
	Targets []Target
	Runner  Runner
	Out     io.Writer
	Logger  *zap.Logger
}

// New returns a dispatcher over the default targets.
func New(runner Runner, out io.Writer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		Targets: Targets,
		Runner:  runner,
		Out:     out,
		Logger:  logger,
	}
}

// Run invokes the selected targets in order and returns the exit code of
// the first failing one, or zero.
func (d *Dispatcher) Run(ctx context.Context, selection map[string]struct{}, test bool) (int, error) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, target := range d.Targets {
		if !target.Selected(selection) {
			logger.Debug("skipping formatter", zap.String("language", target.Language))
			continue
		}

		fmt.Fprintf(d.Out, "\n%s\n\n", Announcement(target.Language, test))

		argv := target.Command(test)
		logger.Debug("running formatter", zap.String("language", target.Language), zap.Strings("argv", argv))
		code, err := d.Runner.Run(ctx, argv)
		if err != nil {
			return 1, fmt.Errorf("run %s formatter: %w", target.Language, err)
		}
		if code != 0 {
			logger.Debug("formatter failed", zap.String("language", target.Language), zap.Int("exit_code", code))
			return code, nil
		}
	}
	return 0, nil
}

// Announcement is the line printed before a formatter runs.
func Announcement(language string, test bool) string {
	mode := ""
	if test {
		mode = " in test mode"
	}
	return fmt.Sprintf("Running %s formatter%s...", language, mode)
}
