package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the kitsplit root command.
func NewRootCommand(name, description string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: description,
		Long: description + `

kitsplit replaces imports of an aggregate library with direct imports of
the submodules each file actually uses, so bundlers can drop the rest.
Settings are read from kitsplit.yaml, searched upward from the working
directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags available to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().StringP("lib", "l", "", "Aggregate library to rewrite (overrides the config file)")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to kitsplit.yaml")

	return cmd
}

// globalOptions reads the persistent flags.
func globalOptions(cmd *cobra.Command) GlobalOptions {
	var g GlobalOptions
	g.Verbose, _ = cmd.Flags().GetBool("verbose")
	g.Lib, _ = cmd.Flags().GetString("lib")
	g.Config, _ = cmd.Flags().GetString("config")
	return g
}
