package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewMembersCommand creates a new members command that uses the provided Lister.
func NewMembersCommand(lister Lister) *cobra.Command {
	var count bool

	cmd := &cobra.Command{
		Use:   "members",
		Short: "List the members the library provides",
		Long: `Members lists the submodules found in the installed library package,
which are the names rewrite and lint accept.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			lib, members, err := lister.Members(ctx, globalOptions(cmd))
			if err != nil {
				return fmt.Errorf("members failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if count {
				_, _ = fmt.Fprintf(out, "%s: %d member(s)\n", lib, len(members))
				return nil
			}
			if len(members) == 0 {
				return fmt.Errorf("%s provides no members", lib)
			}
			for _, m := range members {
				_, _ = fmt.Fprintln(out, m)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&count, "count", false, "Print only the number of members")

	return cmd
}
