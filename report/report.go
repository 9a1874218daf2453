// Package report collects what a kitsplit run changed and serializes it as
// text, JSON or YAML.
package report

import (
	"sort"

	"github.com/lex00/kitsplit/lint"
	"github.com/lex00/kitsplit/rewrite"
)

// Import is one direct import injected into a file.
type Import struct {
	Member string
	Local  string
	Path   string
}

// File is the outcome of processing one source file.
type File struct {
	Path     string
	Output   string
	Changed  bool
	Imports  []Import
	Rewrites int
	Removed  int
	Error    string
}

// Totals sums the per-file counts of a report.
type Totals struct {
	Files    int
	Changed  int
	Failed   int
	Imports  int
	Rewrites int
	Removed  int
	// Members lists the distinct members imported across all files.
	Members []string
}

// Report is the record of one run over a set of files.
type Report struct {
	Lib    string
	DryRun bool
	Files  []File
	Issues []lint.Issue
}

// New creates an empty report for lib.
func New(lib string) *Report {
	return &Report{Lib: lib}
}

// AddResult records a successful rewrite of path. Output is where the
// rewritten file went; it may equal path.
func (r *Report) AddResult(path, output string, result *rewrite.Result) {
	f := File{Path: path, Output: output}
	if result != nil {
		f.Changed = result.Changed()
		f.Rewrites = result.Rewrites
		f.Removed = result.Removed
		for _, imp := range result.Imports {
			f.Imports = append(f.Imports, Import(imp))
		}
	}
	r.Files = append(r.Files, f)
}

// AddError records a file that could not be rewritten.
func (r *Report) AddError(path string, err error) {
	r.Files = append(r.Files, File{Path: path, Error: err.Error()})
}

// AddIssues records lint issues.
func (r *Report) AddIssues(issues ...lint.Issue) {
	r.Issues = append(r.Issues, issues...)
}

// Totals computes the summary counts.
func (r *Report) Totals() Totals {
	var t Totals
	members := make(map[string]bool)
	for _, f := range r.Files {
		t.Files++
		if f.Error != "" {
			t.Failed++
			continue
		}
		if f.Changed {
			t.Changed++
		}
		t.Imports += len(f.Imports)
		t.Rewrites += f.Rewrites
		t.Removed += f.Removed
		for _, imp := range f.Imports {
			members[imp.Member] = true
		}
	}
	for m := range members {
		t.Members = append(t.Members, m)
	}
	sort.Strings(t.Members)
	return t
}
