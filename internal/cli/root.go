package cli

import (
	"context"
	"io"
	"os"

	"github.com/brandonbloom/fx/internal/config"
	"github.com/brandonbloom/fx/internal/forwarder"
	"github.com/brandonbloom/fx/internal/logging"
	"github.com/brandonbloom/fx/internal/usage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every fx command needs.
type app struct {
	stdout   io.Writer
	cfg      config.Config
	logger   *zap.Logger
	getwd    func() (string, error)
	executor forwarder.Executor
	width    func() int
}

func Execute() error {
	cfgPath, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	applyColor(cfg.Color)

	logger, err := logging.NewStderr(logging.Options{
		Level: logging.Level(cfg.LogLevel),
		Color: !color.NoColor,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("starting fx", zap.String("config", cfgPath))

	a := &app{
		stdout:   os.Stdout,
		cfg:      cfg,
		logger:   logger,
		getwd:    os.Getwd,
		executor: forwarder.ProcessExecutor{},
		width:    usage.Width,
	}
	return newRootCommand(a).ExecuteContext(context.Background())
}

func applyColor(mode string) {
	switch mode {
	case config.ColorAlways:
		color.NoColor = false
	case config.ColorNever:
		color.NoColor = true
	}
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:                "fx <command> [options...] [args...]",
		Short:              "Workspace tool manager",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return a.runList(cmd.OutOrStdout())
			}
			switch args[0] {
			case "-h", "--help":
				return a.runHelp(cmd.OutOrStdout())
			}
			return a.runForward(cmd.Context(), args[0], args[1:])
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(a.stdout)

	cmd.AddCommand(
		newListCommand(a),
		newVersionCommand(),
	)
	cmd.SetHelpCommand(newHelpCommand(a))

	return cmd
}

func builtin(use, short string, run func(cmd *cobra.Command) error) *cobra.Command {
	return &cobra.Command{
		Use:                use,
		Short:              short,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
	}
}
