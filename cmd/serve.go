package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewMCPCommand creates a new mcp command that uses the provided MCPServer.
func NewMCPCommand(server MCPServer) *cobra.Command {
	var opts MCPOptions

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve kitsplit tools over the Model Context Protocol",
		Long: `MCP runs a Model Context Protocol server on stdio exposing the rewrite,
lint and members operations as tools for coding agents.

Use --install to print the client configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.GlobalOptions = globalOptions(cmd)
			if err := server.ServeMCP(context.Background(), opts); err != nil {
				return fmt.Errorf("mcp server failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Install, "install", false, "Print MCP client configuration and exit")

	return cmd
}

// NewLSPCommand creates a new lsp command that uses the provided
// LanguageServer.
func NewLSPCommand(server LanguageServer) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run a language server reporting aggregate library imports",
		Long: `LSP runs a Language Server Protocol server on stdio. Editors get lint
diagnostics as files change, member completion after the library binding
and hover text naming the submodule each member resolves to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := server.ServeLSP(context.Background(), globalOptions(cmd)); err != nil {
				return fmt.Errorf("language server failed: %w", err)
			}
			return nil
		},
	}
}
