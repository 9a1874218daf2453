package pipeline

import (
	"context"
	"os"

	"github.com/lex00/kitsplit/lint"
)

// LintOptions configures Lint.
type LintOptions struct {
	// Config filters rules and severities; nil reports everything.
	Config *lint.Config
	// Members enables the unknown-member rule.
	Members lint.MemberSet
	// Fix applies the fixable issues in place.
	Fix bool
}

// Lint checks every source file under the configured paths and returns
// the issues in file order. With Fix set, fixable issues are rewritten and
// only the issues that remain are returned.
func (p *Pipeline) Lint(ctx context.Context, opts LintOptions) ([]lint.Issue, error) {
	rules := lint.NewDefaultRegistry(p.opts.Lib, p.opts.Resolver, opts.Members).Enabled(opts.Config)

	var issues []lint.Issue
	for _, path := range p.opts.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		found, err := p.lintPath(path, rules, opts)
		if err != nil {
			return nil, err
		}
		issues = append(issues, found...)
	}

	lint.SortIssues(issues)
	p.logf("lint: %d issue(s) in %d path(s)", len(issues), len(p.opts.Paths))
	return issues, nil
}

func (p *Pipeline) lintPath(path string, rules []lint.Rule, opts LintOptions) ([]lint.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !opts.Fix {
		if info.IsDir() {
			return lint.LintDirRecursive(path, p.opts.Walk, rules, opts.Config)
		}
		return lint.LintFile(path, rules, opts.Config)
	}

	var results []lint.FixResult
	if info.IsDir() {
		results, err = lint.FixDir(path, p.opts.Walk, rules, opts.Config)
	} else {
		results, err = lint.FixFile(path, rules, opts.Config)
	}
	if err != nil {
		return nil, err
	}

	var remaining []lint.Issue
	for _, result := range results {
		switch {
		case result.Fixed:
			p.logf("fixed %s", result.Issue)
		case result.Error != nil:
			p.logf("cannot fix %s: %v", result.Issue, result.Error)
			remaining = append(remaining, result.Issue)
		default:
			remaining = append(remaining, result.Issue)
		}
	}
	return remaining, nil
}
