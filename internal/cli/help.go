package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newHelpCommand(a *app) *cobra.Command {
	return builtin("help", "Learn more about fx", func(cmd *cobra.Command) error {
		return a.runHelp(cmd.OutOrStdout())
	})
}

func (a *app) runHelp(w io.Writer) error {
	_, err := fmt.Fprint(w, "fx is a workspace tool manager. Run `fx list` to see the commands available here.\n")
	return err
}
