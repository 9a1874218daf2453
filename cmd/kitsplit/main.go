// kitsplit rewrites imports of an aggregate JavaScript library into direct
// imports of the submodules each file uses.
//
// Usage:
//
//	kitsplit init --lib kit
//	kitsplit rewrite [--path src] [--output out] [--dry-run] [--report report.json]
//	kitsplit lint [--path src] [--fix]
//	kitsplit members
//	kitsplit mcp [--install]
//	kitsplit lsp
//
// Examples:
//
//	kitsplit rewrite --lib kit --path src --dry-run
//	kitsplit lint --disable KIT005 --min-severity error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lex00/kitsplit/cmd"
)

func main() {
	a, err := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	root := newRootCommand(a)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(a *app) *cobra.Command {
	root := cmd.NewRootCommand("kitsplit", "Split aggregate library imports into submodule imports")
	root.AddCommand(
		cmd.NewInitCommand(a),
		cmd.NewRewriteCommand(a),
		cmd.NewLintCommand(a),
		cmd.NewMembersCommand(a),
		cmd.NewMCPCommand(a),
		cmd.NewLSPCommand(a),
		cmd.NewVersionCommand(),
	)
	return root
}
