package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lex00/kitsplit/report"
)

// NewRewriteCommand creates a new rewrite command that uses the provided
// Rewriter.
func NewRewriteCommand(rewriter Rewriter) *cobra.Command {
	var opts RewriteOptions

	cmd := &cobra.Command{
		Use:   "rewrite",
		Short: "Rewrite aggregate library imports into submodule imports",
		Long: `Rewrite replaces every import of the aggregate library with direct
imports of the members each file uses.

Files are rewritten in place unless --output names a directory. With
--dry-run the rewritten sources are printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			opts.GlobalOptions = globalOptions(cmd)

			rep, err := rewriter.Rewrite(ctx, opts)
			if err != nil {
				return fmt.Errorf("rewrite failed: %w", err)
			}

			if !opts.DryRun {
				out, err := report.Format(rep, "text")
				if err != nil {
					return err
				}
				_, _ = cmd.OutOrStdout().Write(out)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Paths, "path", "p", nil, "Files or directories to rewrite (default from config, else .)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Directory receiving rewritten files")
	cmd.Flags().StringVarP(&opts.Report, "report", "r", "", "Write a report (.json, .yaml or text)")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Print rewritten sources without writing files")
	cmd.Flags().BoolVarP(&opts.KeepGoing, "keep-going", "k", false, "Continue past files that fail")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "j", 0, "Files processed in parallel (default: number of CPUs)")

	return cmd
}
