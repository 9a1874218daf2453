// Package cmd provides the cobra commands of the kitsplit CLI.
//
// Commands only parse flags and print results; the work is done by the
// Rewriter, Linter, Initializer and Lister implementations passed in, so
// the command tree can be tested with fakes.
package cmd

import (
	"context"

	"github.com/lex00/kitsplit/lint"
	"github.com/lex00/kitsplit/report"
)

// GlobalOptions holds the persistent flags of the root command.
type GlobalOptions struct {
	// Lib overrides the library named in the config file.
	Lib string
	// Config is an explicit config file path; empty searches upward from
	// the working directory.
	Config  string
	Verbose bool
}

// RewriteOptions contains options for the rewrite command.
type RewriteOptions struct {
	GlobalOptions
	Paths     []string
	Output    string
	Report    string
	DryRun    bool
	KeepGoing bool
	Workers   int
}

// LintOptions contains options for the lint command.
type LintOptions struct {
	GlobalOptions
	Paths       []string
	Fix         bool
	Disable     []string
	MinSeverity string
}

// InitOptions contains options for the init command.
type InitOptions struct {
	GlobalOptions
	SubmoduleDir string
	Extension    string
	Force        bool
}

// Rewriter rewrites source files to import submodules directly.
type Rewriter interface {
	Rewrite(ctx context.Context, opts RewriteOptions) (*report.Report, error)
}

// Linter checks source files for uses of the aggregate library.
type Linter interface {
	Lint(ctx context.Context, opts LintOptions) ([]lint.Issue, error)
}

// Initializer writes a new config file.
type Initializer interface {
	Init(ctx context.Context, dir string, opts InitOptions) (string, error)
}

// Lister lists the members of the configured library.
type Lister interface {
	Members(ctx context.Context, opts GlobalOptions) (lib string, members []string, err error)
}

// MCPOptions contains options for the mcp command.
type MCPOptions struct {
	GlobalOptions
	// Install prints client configuration instead of serving.
	Install bool
}

// MCPServer serves the kitsplit tools to MCP clients on stdio.
type MCPServer interface {
	ServeMCP(ctx context.Context, opts MCPOptions) error
}

// LanguageServer serves editor diagnostics, completion and hover on stdio.
type LanguageServer interface {
	ServeLSP(ctx context.Context, opts GlobalOptions) error
}
