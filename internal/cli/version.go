package cli

import (
	"fmt"

	"github.com/brandonbloom/fx/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return builtin("version", "Print the fx version", func(cmd *cobra.Command) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "fx-%s\n", version.String())
		return err
	})
}
