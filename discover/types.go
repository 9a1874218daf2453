// Package discover finds the source files of a project and the places
// where they pull in library modules.
package discover

import "sort"

// UseKind is the syntactic form of a library use.
type UseKind string

const (
	UseImport     UseKind = "import"
	UseExportFrom UseKind = "export-from"
	UseExportStar UseKind = "export-star"
)

// LibraryUse is one declaration that references a package by name.
type LibraryUse struct {
	// Lib is the import source as written.
	Lib string
	// Kind is the declaration form.
	Kind UseKind
	// File is the path to the file containing the declaration.
	File string
	// Line is the line number (1-based) of the declaration.
	Line int
	// Locals are the bindings the declaration introduces, or the names it
	// re-exports.
	Locals []string
	// Namespace is set when the whole library is bound to one name.
	Namespace bool
}

// LibraryMatcher decides whether an import source is a library of
// interest. A nil matcher accepts every bare package specifier.
type LibraryMatcher func(source string) bool

// DiscoverOptions configures the discovery process.
type DiscoverOptions struct {
	// Paths lists the files or directories to scan.
	Paths []string
	// Matcher filters import sources.
	Matcher LibraryMatcher
	// Walk configures directory traversal.
	Walk WalkOptions
}

// DiscoverResult contains the results of a discovery operation.
type DiscoverResult struct {
	// Uses is the list of discovered library uses in file order.
	Uses []LibraryUse
	// Files lists every scanned file.
	Files []string
	// Errors contains any non-fatal errors encountered during discovery.
	Errors []error
}

// NewDiscoverResult creates an initialized DiscoverResult.
func NewDiscoverResult() *DiscoverResult {
	return &DiscoverResult{
		Uses:   make([]LibraryUse, 0),
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}
}

// Merge combines another DiscoverResult into this one.
func (r *DiscoverResult) Merge(other *DiscoverResult) {
	r.Uses = append(r.Uses, other.Uses...)
	r.Files = append(r.Files, other.Files...)
	r.Errors = append(r.Errors, other.Errors...)
}

// AddUse adds a library use to the result.
func (r *DiscoverResult) AddUse(use LibraryUse) {
	r.Uses = append(r.Uses, use)
}

// AddError adds an error to the result.
func (r *DiscoverResult) AddError(err error) {
	r.Errors = append(r.Errors, err)
}

// Libraries returns the distinct libraries found, sorted.
func (r *DiscoverResult) Libraries() []string {
	seen := make(map[string]bool)
	var libs []string
	for _, use := range r.Uses {
		if !seen[use.Lib] {
			seen[use.Lib] = true
			libs = append(libs, use.Lib)
		}
	}
	sort.Strings(libs)
	return libs
}

// FilesUsing returns the files that reference lib, in scan order and
// without duplicates.
func (r *DiscoverResult) FilesUsing(lib string) []string {
	seen := make(map[string]bool)
	var files []string
	for _, use := range r.Uses {
		if use.Lib == lib && !seen[use.File] {
			seen[use.File] = true
			files = append(files, use.File)
		}
	}
	return files
}
