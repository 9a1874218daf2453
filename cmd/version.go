package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lex00/kitsplit/version"
)

// NewVersionCommand creates a command printing the build version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kitsplit version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "kitsplit %s\n", version.Version())
		},
	}
}
