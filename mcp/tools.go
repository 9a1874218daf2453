package mcp

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lex00/kitsplit/lint"
	"github.com/lex00/kitsplit/pipeline"
	"github.com/lex00/kitsplit/report"
	"github.com/lex00/kitsplit/rewrite"
)

// Tool names.
const (
	ToolRewriteSource = "kitsplit_rewrite_source"
	ToolRewrite       = "kitsplit_rewrite"
	ToolLint          = "kitsplit_lint"
	ToolMembers       = "kitsplit_members"
)

// RewriteSourceSchema is the JSON schema for kitsplit_rewrite_source.
var RewriteSourceSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"source": map[string]any{
			"type":        "string",
			"description": "JavaScript module source to rewrite",
		},
		"filename": map[string]any{
			"type":        "string",
			"description": "Name used in error messages (default: input.js)",
		},
	},
	"required": []string{"source"},
}

// RewriteSchema is the JSON schema for kitsplit_rewrite.
var RewriteSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"paths": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Files or directories to rewrite (default: configured paths)",
		},
		"dry_run": map[string]any{
			"type":        "boolean",
			"description": "Report what would change without writing files",
		},
		"keep_going": map[string]any{
			"type":        "boolean",
			"description": "Continue past files that fail",
		},
	},
}

// LintSchema is the JSON schema for kitsplit_lint.
var LintSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"paths": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "Files or directories to lint (default: configured paths)",
		},
		"fix": map[string]any{
			"type":        "boolean",
			"description": "Automatically fix fixable issues",
		},
	},
}

// MemberLister enumerates the members of a library.
type MemberLister interface {
	lint.MemberSet
	Members(lib string) ([]string, error)
}

// Toolset binds the kitsplit operations to one project.
type Toolset struct {
	// Options is the base pipeline configuration. Its Paths are used when
	// a call names none, and relative call paths resolve against Base.
	Options pipeline.Options
	Members MemberLister
	Lint    *lint.Config
}

// Register adds the kitsplit tools to server.
func (t *Toolset) Register(server *Server) {
	server.RegisterToolWithSchema(ToolRewriteSource,
		fmt.Sprintf("Rewrite one module so imports of %q become direct submodule imports. Returns the rewritten source.", t.Options.Lib),
		t.rewriteSource, RewriteSourceSchema)
	server.RegisterToolWithSchema(ToolRewrite,
		fmt.Sprintf("Rewrite files importing %q in place. Returns a JSON report.", t.Options.Lib),
		t.rewrite, RewriteSchema)
	server.RegisterToolWithSchema(ToolLint,
		fmt.Sprintf("Check files for imports of %q and patterns that cannot be rewritten.", t.Options.Lib),
		t.lint, LintSchema)
	server.RegisterTool(ToolMembers,
		fmt.Sprintf("List the submodules %q provides.", t.Options.Lib),
		t.members)
}

func (t *Toolset) rewriteSource(_ context.Context, args map[string]any) (string, error) {
	source, ok := args["source"].(string)
	if !ok {
		return "", fmt.Errorf("source is required")
	}
	filename := stringArg(args, "filename")
	if filename == "" {
		filename = "input.js"
	}

	out, _, err := pipeline.RewriteSource(filename, []byte(source), rewrite.Options{
		Lib:      t.Options.Lib,
		Resolver: t.Options.Resolver,
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// options copies the base configuration for one call. Stdout carries the
// protocol, so nothing may print there.
func (t *Toolset) options(args map[string]any) pipeline.Options {
	opts := t.Options
	opts.Stdout = io.Discard
	opts.Log = io.Discard
	opts.Verbose = false
	if paths := stringsArg(args, "paths"); len(paths) > 0 {
		opts.Paths = make([]string, len(paths))
		for i, p := range paths {
			if !filepath.IsAbs(p) && opts.Base != "" {
				p = filepath.Join(opts.Base, p)
			}
			opts.Paths[i] = p
		}
	}
	return opts
}

func (t *Toolset) rewrite(ctx context.Context, args map[string]any) (string, error) {
	opts := t.options(args)
	opts.DryRun = boolArg(args, "dry_run")
	opts.KeepGoing = boolArg(args, "keep_going")

	p, err := pipeline.New(opts)
	if err != nil {
		return "", err
	}
	rep, err := p.Run(ctx)
	if err != nil {
		return "", err
	}
	out, err := report.Format(rep, "json")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (t *Toolset) lint(ctx context.Context, args map[string]any) (string, error) {
	p, err := pipeline.New(t.options(args))
	if err != nil {
		return "", err
	}
	issues, err := p.Lint(ctx, pipeline.LintOptions{
		Config:  t.Lint,
		Members: t.Members,
		Fix:     boolArg(args, "fix"),
	})
	if err != nil {
		return "", err
	}
	if len(issues) == 0 {
		return "No issues found", nil
	}

	var sb strings.Builder
	for _, issue := range issues {
		sb.WriteString(issue.String())
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (t *Toolset) members(_ context.Context, _ map[string]any) (string, error) {
	if t.Members == nil {
		return "", fmt.Errorf("no member registry configured")
	}
	members, err := t.Members.Members(t.Options.Lib)
	if err != nil {
		return "", err
	}
	return strings.Join(members, "\n"), nil
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

// stringsArg accepts a JSON array of strings or a single string.
func stringsArg(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
