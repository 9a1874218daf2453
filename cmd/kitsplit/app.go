package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/lex00/kitsplit/cmd"
	"github.com/lex00/kitsplit/config"
	"github.com/lex00/kitsplit/discover"
	kerrors "github.com/lex00/kitsplit/errors"
	"github.com/lex00/kitsplit/lint"
	"github.com/lex00/kitsplit/lsp"
	"github.com/lex00/kitsplit/mcp"
	"github.com/lex00/kitsplit/modules"
	"github.com/lex00/kitsplit/pipeline"
	"github.com/lex00/kitsplit/report"
	"github.com/lex00/kitsplit/version"
)

// app implements the command interfaces on top of the config file and the
// rewrite pipeline.
type app struct {
	// wd is the directory command line paths are relative to.
	wd     string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) (*app, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return &app{wd: wd, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

// loadConfig reads the explicit config file or searches upward from the
// working directory, then applies the --lib override.
func (a *app) loadConfig(g cmd.GlobalOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.Config != "" {
		cfg, err = config.LoadConfigFile(a.abs(g.Config))
	} else {
		cfg, _, err = config.LoadConfigFrom(a.wd)
	}
	if err != nil {
		return nil, kerrors.Configuration(err.Error())
	}
	if g.Lib != "" {
		cfg.Lib = g.Lib
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(a.wd, path)
}

// configPath resolves a path read from the config file against the config
// directory.
func configPath(cfg *config.Config, wd, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if cfg.Dir() != "" {
		return filepath.Join(cfg.Dir(), path)
	}
	return filepath.Join(wd, path)
}

// paths picks the command line paths, else the configured ones, else the
// config directory.
func (a *app) paths(cfg *config.Config, flagPaths []string) []string {
	if len(flagPaths) > 0 {
		out := make([]string, len(flagPaths))
		for i, p := range flagPaths {
			out[i] = a.abs(p)
		}
		return out
	}
	if len(cfg.Paths) > 0 {
		out := make([]string, len(cfg.Paths))
		for i, p := range cfg.Paths {
			out[i] = configPath(cfg, a.wd, p)
		}
		return out
	}
	return []string{a.base(cfg)}
}

func (a *app) base(cfg *config.Config) string {
	if cfg.Dir() != "" {
		return cfg.Dir()
	}
	return a.wd
}

func walkOptions(cfg *config.Config) discover.WalkOptions {
	opts := discover.DefaultWalkOptions()
	opts.ExcludeDirs = append(opts.ExcludeDirs, cfg.Exclude...)
	return opts
}

func (a *app) pipelineOptions(cfg *config.Config, resolver *modules.Resolver, paths []string, verbose bool) pipeline.Options {
	return pipeline.Options{
		Lib:      cfg.Lib,
		Resolver: resolver,
		Paths:    paths,
		Walk:     walkOptions(cfg),
		Base:     a.base(cfg),
		Verbose:  verbose,
		Log:      a.stderr,
		Stdout:   a.stdout,
	}
}

// Rewrite implements cmd.Rewriter.
func (a *app) Rewrite(ctx context.Context, opts cmd.RewriteOptions) (*report.Report, error) {
	cfg, err := a.loadConfig(opts.GlobalOptions)
	if err != nil {
		return nil, err
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		return nil, err
	}

	po := a.pipelineOptions(cfg, resolver, a.paths(cfg, opts.Paths), opts.Verbose)
	po.DryRun = opts.DryRun
	po.KeepGoing = opts.KeepGoing
	po.Workers = opts.Workers
	switch {
	case opts.Output != "":
		po.Output = a.abs(opts.Output)
	case cfg.Output != "":
		po.Output = configPath(cfg, a.wd, cfg.Output)
	}

	p, err := pipeline.New(po)
	if err != nil {
		return nil, err
	}
	rep, runErr := p.Run(ctx)

	reportPath := configPath(cfg, a.wd, cfg.Report)
	if opts.Report != "" {
		reportPath = a.abs(opts.Report)
	}
	if rep != nil && reportPath != "" {
		if err := report.WriteFile(rep, reportPath); err != nil && runErr == nil {
			runErr = err
		}
	}
	return rep, runErr
}

// Lint implements cmd.Linter.
func (a *app) Lint(ctx context.Context, opts cmd.LintOptions) ([]lint.Issue, error) {
	cfg, err := a.loadConfig(opts.GlobalOptions)
	if err != nil {
		return nil, err
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		return nil, err
	}
	lintCfg, err := lintConfig(cfg, opts.Disable, opts.MinSeverity)
	if err != nil {
		return nil, err
	}

	p, err := pipeline.New(a.pipelineOptions(cfg, resolver, a.paths(cfg, opts.Paths), opts.Verbose))
	if err != nil {
		return nil, err
	}
	return p.Lint(ctx, pipeline.LintOptions{
		Config:  lintCfg,
		Members: resolver.Registry(),
		Fix:     opts.Fix,
	})
}

// lintConfig merges the lint section of the config file with the flags.
// Flags add disabled rules and replace the minimum severity.
func lintConfig(cfg *config.Config, disable []string, minSev string) (*lint.Config, error) {
	var disabled []string
	minSeverity := ""
	if cfg.Lint != nil {
		disabled = append(disabled, cfg.Lint.Disabled...)
		minSeverity = cfg.Lint.MinSeverity
	}
	for _, id := range disable {
		if !slices.Contains(disabled, id) {
			disabled = append(disabled, id)
		}
	}
	if minSev != "" {
		minSeverity = minSev
	}

	sev, err := lint.ParseSeverity(minSeverity)
	if err != nil {
		return nil, kerrors.Configuration(err.Error())
	}
	return &lint.Config{DisabledRules: disabled, MinSeverity: sev}, nil
}

// Init implements cmd.Initializer.
func (a *app) Init(ctx context.Context, dir string, opts cmd.InitOptions) (string, error) {
	path := filepath.Join(a.abs(dir), config.ConfigFilename)
	if _, err := os.Stat(path); err == nil && !opts.Force {
		return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.Default()
	cfg.Lib = opts.Lib
	if opts.SubmoduleDir != "" {
		cfg.SubmoduleDir = opts.SubmoduleDir
	}
	if opts.Extension != "" {
		cfg.Extension = opts.Extension
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	if err := config.SaveConfigTo(cfg, path); err != nil {
		return "", err
	}
	return path, nil
}

// Members implements cmd.Lister.
func (a *app) Members(ctx context.Context, opts cmd.GlobalOptions) (string, []string, error) {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return "", nil, err
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		return "", nil, err
	}
	members, err := resolver.Registry().Members(cfg.Lib)
	if err != nil {
		return cfg.Lib, nil, err
	}
	return cfg.Lib, members, nil
}

// ServeMCP implements cmd.MCPServer.
func (a *app) ServeMCP(ctx context.Context, opts cmd.MCPOptions) error {
	if opts.Install {
		binary, err := os.Executable()
		if err != nil {
			binary = "kitsplit"
		}
		_, err = fmt.Fprintln(a.stdout, mcp.InstallInstructions("kitsplit", binary))
		return err
	}

	cfg, err := a.loadConfig(opts.GlobalOptions)
	if err != nil {
		return err
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		return err
	}
	lintCfg, err := lintConfig(cfg, nil, "")
	if err != nil {
		return err
	}

	server := mcp.NewServerIO(mcp.Config{
		Name:         "kitsplit",
		Version:      version.Version(),
		Instructions: fmt.Sprintf("Imports of %q should name submodules directly. Use kitsplit_rewrite_source on new code and kitsplit_lint to check files.", cfg.Lib),
		Debug:        opts.Verbose,
		Log:          a.stderr,
	}, a.stdin, a.stdout)
	toolset := &mcp.Toolset{
		Options: a.pipelineOptions(cfg, resolver, a.paths(cfg, nil), false),
		Members: resolver.Registry(),
		Lint:    lintCfg,
	}
	toolset.Register(server)
	return server.Start(ctx)
}

// ServeLSP implements cmd.LanguageServer.
func (a *app) ServeLSP(ctx context.Context, opts cmd.GlobalOptions) error {
	cfg, err := a.loadConfig(opts)
	if err != nil {
		return err
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		return err
	}
	lintCfg, err := lintConfig(cfg, nil, "")
	if err != nil {
		return err
	}

	docs := lsp.NewDocuments()
	provider := &lsp.Provider{
		Lib:      cfg.Lib,
		Resolver: resolver,
		Members:  resolver.Registry(),
		Rules:    lint.NewDefaultRegistry(cfg.Lib, resolver, resolver.Registry()).Enabled(lintCfg),
		Lint:     lintCfg,
		Docs:     docs,
	}
	server := lsp.NewServer(lsp.Config{
		Name:      "kitsplit",
		Version:   version.Version(),
		Documents: docs,
		Linter:    provider,
		Completer: provider,
		HoverDocs: provider,
	})
	return server.Serve(ctx, a.stdin, a.stdout)
}
