// Package lint reports uses of an aggregate library that keep a bundle
// from dropping the members it never calls, and fixes the ones the
// rewrite can handle.
package lint

import (
	"fmt"
	"sort"
)

// Severity indicates the severity level of a lint issue.
type Severity int

const (
	// SeverityError indicates a pattern the rewrite refuses to handle.
	SeverityError Severity = iota
	// SeverityWarning indicates a use that defeats selective imports.
	SeverityWarning
	// SeverityInfo indicates a suggestion or informational message.
	SeverityInfo
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ParseSeverity converts a severity name back to its value.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "error":
		return SeverityError, nil
	case "warning", "":
		return SeverityWarning, nil
	case "info":
		return SeverityInfo, nil
	default:
		return 0, fmt.Errorf("unknown severity %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Issue represents a single lint issue found during analysis.
type Issue struct {
	// Rule is the unique identifier of the rule that found this issue.
	Rule string `json:"rule" yaml:"rule"`
	// Message describes the issue.
	Message string `json:"message" yaml:"message"`
	// File is the path to the file containing the issue.
	File string `json:"file" yaml:"file"`
	// Line is the line number (1-based) where the issue was found.
	Line int `json:"line" yaml:"line"`
	// Column is the column number (1-based) where the issue was found.
	Column int `json:"column" yaml:"column"`
	// Severity indicates how serious the issue is.
	Severity Severity `json:"severity" yaml:"severity"`
	// Suggestion provides a recommended fix for the issue.
	Suggestion string `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
	// Fixable indicates whether this issue can be automatically fixed.
	Fixable bool `json:"fixable" yaml:"fixable"`
}

// String formats the issue as file:line:col: severity [rule] message.
func (i Issue) String() string {
	return fmt.Sprintf("%s:%d:%d: %s [%s] %s", i.File, i.Line, i.Column, i.Severity, i.Rule, i.Message)
}

// SortIssues orders issues by file, then position, then rule.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		x, y := issues[a], issues[b]
		if x.File != y.File {
			return x.File < y.File
		}
		if x.Line != y.Line {
			return x.Line < y.Line
		}
		if x.Column != y.Column {
			return x.Column < y.Column
		}
		return x.Rule < y.Rule
	})
}

// Config controls linting behavior.
type Config struct {
	// DisabledRules is a list of rule IDs to skip.
	DisabledRules []string
	// MinSeverity is the minimum severity level to report.
	// Issues with lower severity will be filtered out.
	MinSeverity Severity
}

// IsRuleDisabled returns true if the given rule ID is disabled.
func (c *Config) IsRuleDisabled(ruleID string) bool {
	for _, id := range c.DisabledRules {
		if id == ruleID {
			return true
		}
	}
	return false
}

// ShouldReport returns true if the issue should be reported based on config.
func (c *Config) ShouldReport(issue Issue) bool {
	if c.IsRuleDisabled(issue.Rule) {
		return false
	}
	// Lower severity value means higher priority (Error=0 is most severe)
	return issue.Severity <= c.MinSeverity
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
