package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates a new init command that uses the provided Initializer.
func NewInitCommand(initializer Initializer) *cobra.Command {
	var opts InitOptions

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a kitsplit.yaml",
		Long: `Init writes a kitsplit.yaml naming the aggregate library (--lib) and
its submodule layout into dir, or the working directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			opts.GlobalOptions = globalOptions(cmd)
			if opts.Lib == "" {
				return fmt.Errorf("init requires --lib")
			}

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			path, err := initializer.Init(ctx, dir, opts)
			if err != nil {
				return fmt.Errorf("init failed: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.SubmoduleDir, "submodule-dir", "", "Directory of member files inside the package (default es/src)")
	cmd.Flags().StringVar(&opts.Extension, "extension", "", "Member file extension (default .js)")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}
