package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lex00/kitsplit/lint"
)

// NewLintCommand creates a new lint command that uses the provided Linter.
func NewLintCommand(linter Linter) *cobra.Command {
	var opts LintOptions

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check source files for aggregate library imports",
		Long: `Lint reports imports of the aggregate library and the patterns the
rewrite cannot handle.

Rules:
  KIT001  aggregate library imported (fixable)
  KIT002  whole library re-exported
  KIT003  member not provided by the library
  KIT004  computed member access on the library
  KIT005  library binding used as a value`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			opts.GlobalOptions = globalOptions(cmd)

			issues, err := linter.Lint(ctx, opts)
			if err != nil {
				return fmt.Errorf("lint failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				_, _ = fmt.Fprintln(out, "No issues found")
				return nil
			}

			errorCount := 0
			for _, issue := range issues {
				_, _ = fmt.Fprintln(out, issue.String())
				if issue.Severity == lint.SeverityError {
					errorCount++
				}
			}

			if errorCount > 0 {
				return fmt.Errorf("lint found %d error(s)", errorCount)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Paths, "path", "p", nil, "Files or directories to lint (default from config, else .)")
	cmd.Flags().BoolVarP(&opts.Fix, "fix", "f", false, "Automatically fix issues where possible")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to skip")
	cmd.Flags().StringVar(&opts.MinSeverity, "min-severity", "", "Lowest severity reported: error, warning or info (default warning)")

	return cmd
}
