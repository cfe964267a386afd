package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/brandonbloom/fx/internal/version"
	"github.com/brandonbloom/fx/internal/workspace"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	colorTitle      = color.New(color.Bold).SprintFunc()
	colorWarn       = color.New(color.FgYellow).SprintFunc()
	colorBroken     = color.New(color.FgRed).SprintFunc()
	builtinCommands = []struct{ name, synopsis string }{
		{"list", "List available commands."},
		{"help", "Learn more about fx."},
		{"version", "Print the fx version."},
	}
)

const listIndent = "    "

func newListCommand(a *app) *cobra.Command {
	return builtin("list", "List available commands", func(cmd *cobra.Command) error {
		return a.runList(cmd.OutOrStdout())
	})
}

func (a *app) runList(w io.Writer) error {
	fmt.Fprintf(w, "%s — workspace tool manager [version %s]\n\n", colorTitle("fx"), version.String())
	fmt.Fprint(w, "Usage:  fx <command> --help\n")
	fmt.Fprint(w, "        fx <command> <options...> <args...>\n\n")

	fmt.Fprint(w, "[workspace fx]\n")
	for _, b := range builtinCommands {
		fmt.Fprintf(w, "%s%s - %s\n", listIndent, b.name, b.synopsis)
	}

	ws, err := a.loadWorkspaceFromWD()
	if errors.Is(err, workspace.ErrNotFound) {
		fmt.Fprintf(w, "\n%s\n", colorWarn("You are not in a workspace."))
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n[workspace %s]\n", ws.DescriptorPath)
	commands, err := ws.ListCommands(a.logger)
	if err != nil {
		return err
	}
	for _, c := range commands {
		synopsis := c.Synopsis
		if c.Err != nil {
			synopsis = colorBroken("Descriptor contains errors. Run this to learn more.")
		}
		fmt.Fprintf(w, "%s%s - %s\n", listIndent, c.Name, synopsis)
	}
	return nil
}
