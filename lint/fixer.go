package lint

import (
	"bytes"
	"os"

	"github.com/lex00/kitsplit/discover"
)

// FixResult represents the result of attempting to fix an issue.
type FixResult struct {
	// Issue is the original lint issue.
	Issue Issue
	// Fixed indicates whether the issue was successfully fixed.
	Fixed bool
	// NewCode contains the fixed source code (if Fixed is true).
	NewCode []byte
	// Error contains any error that occurred during fixing.
	Error error
}

// Fix attempts to fix issues in a file without writing the changes.
// Fixes are applied in order; each one sees the output of the previous
// successful fix, so NewCode of the last fixed result is the final file.
func Fix(path string, rules []Rule, cfg *Config) ([]FixResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	file, err := parseFile(path, src)
	if err != nil {
		return nil, err
	}

	var results []FixResult
	for _, issue := range lintFile(file, rules, cfg) {
		result := FixResult{Issue: issue}

		rule := ruleByID(rules, issue.Rule)
		if fixable, ok := rule.(FixableRule); ok && issue.Fixable {
			newCode, fixErr := fixable.Fix(file, issue)
			if fixErr == nil {
				file, fixErr = parseFile(path, newCode)
			}
			if fixErr != nil {
				result.Error = fixErr
			} else {
				result.Fixed = true
				result.NewCode = newCode
			}
		}

		results = append(results, result)
	}

	return results, nil
}

func ruleByID(rules []Rule, id string) Rule {
	for _, rule := range rules {
		if rule.ID() == id {
			return rule
		}
	}
	return nil
}

// FixFile fixes issues in a file and writes the changes back. The file is
// left alone when nothing was fixed or the fixed code is identical.
func FixFile(path string, rules []Rule, cfg *Config) ([]FixResult, error) {
	results, err := Fix(path, rules, cfg)
	if err != nil {
		return nil, err
	}

	var final []byte
	for _, result := range results {
		if result.Fixed && len(result.NewCode) > 0 {
			final = result.NewCode
		}
	}
	if final == nil {
		return results, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	current, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(current, final) {
		if err := os.WriteFile(path, final, info.Mode().Perm()); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// FixDir fixes issues in all source files under root that opts selects.
func FixDir(root string, opts discover.WalkOptions, rules []Rule, cfg *Config) ([]FixResult, error) {
	var results []FixResult
	err := discover.WalkDir(root, opts, func(path string) error {
		fileResults, err := FixFile(path, rules, cfg)
		if err != nil {
			return err
		}
		results = append(results, fileResults...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
