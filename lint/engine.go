package lint

import (
	"os"
	"path/filepath"

	"github.com/lex00/kitsplit/discover"
	"github.com/lex00/kitsplit/parser"
)

// LintFile lints a single file with the given rules and config.
// Returns all issues found that pass the config filters.
func LintFile(path string, rules []Rule, cfg *Config) ([]Issue, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LintBytes(src, path, rules, cfg)
}

// LintBytes lints source code from bytes with the given rules and config.
// The filename is used for error messages and issue reporting.
func LintBytes(src []byte, filename string, rules []Rule, cfg *Config) ([]Issue, error) {
	file, err := parseFile(filename, src)
	if err != nil {
		return nil, err
	}
	return lintFile(file, rules, cfg), nil
}

// LintDir lints all source files in a directory (non-recursively).
func LintDir(dir string, rules []Rule, cfg *Config) ([]Issue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	opts := discover.WalkOptions{}
	var issues []Issue
	for _, entry := range entries {
		if entry.IsDir() || !opts.IsSource(entry.Name()) {
			continue
		}
		fileIssues, err := LintFile(filepath.Join(dir, entry.Name()), rules, cfg)
		if err != nil {
			return nil, err
		}
		issues = append(issues, fileIssues...)
	}

	return issues, nil
}

// LintDirRecursive lints all source files under root that opts selects.
func LintDirRecursive(root string, opts discover.WalkOptions, rules []Rule, cfg *Config) ([]Issue, error) {
	var issues []Issue

	err := discover.WalkDir(root, opts, func(path string) error {
		fileIssues, err := LintFile(path, rules, cfg)
		if err != nil {
			return err
		}
		issues = append(issues, fileIssues...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}

func parseFile(path string, src []byte) (*File, error) {
	prog, err := parser.Parse(path, src)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, Source: src, Program: prog}, nil
}

// lintFile runs all rules on the parsed file and returns filtered issues
// in source order.
func lintFile(file *File, rules []Rule, cfg *Config) []Issue {
	var issues []Issue

	for _, rule := range rules {
		if cfg != nil && cfg.IsRuleDisabled(rule.ID()) {
			continue
		}
		for _, issue := range rule.Check(file) {
			// Set file path if not already set
			if issue.File == "" {
				issue.File = file.Path
			}

			// Filter by config
			if cfg != nil && !cfg.ShouldReport(issue) {
				continue
			}

			issues = append(issues, issue)
		}
	}

	SortIssues(issues)
	return issues
}
