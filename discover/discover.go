package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lex00/kitsplit/ast"
	"github.com/lex00/kitsplit/parser"
)

// Discover finds library uses in the specified files and directories.
// Files that fail to parse are recorded in Errors and skipped.
func Discover(opts DiscoverOptions) (*DiscoverResult, error) {
	result := NewDiscoverResult()

	for _, p := range opts.Paths {
		info, err := os.Stat(p)
		if err != nil {
			result.AddError(err)
			continue
		}

		if !info.IsDir() {
			fileResult, err := DiscoverFile(p, opts.Matcher)
			if err != nil {
				result.AddError(err)
				continue
			}
			result.Merge(fileResult)
			continue
		}

		err = WalkDir(p, opts.Walk, func(path string) error {
			fileResult, err := DiscoverFile(path, opts.Matcher)
			if err != nil {
				result.AddError(err)
				return nil // Continue walking
			}
			result.Merge(fileResult)
			return nil
		})
		if err != nil {
			result.AddError(err)
		}
	}

	return result, nil
}

// DiscoverFile finds library uses in a single source file.
func DiscoverFile(filePath string, matcher LibraryMatcher) (*DiscoverResult, error) {
	prog, err := parser.ParseFile(filePath)
	if err != nil {
		return nil, err
	}
	return DiscoverProgram(prog, filePath, matcher), nil
}

// DiscoverProgram finds library uses among the top-level declarations of a
// parsed program.
func DiscoverProgram(prog *ast.Program, filePath string, matcher LibraryMatcher) *DiscoverResult {
	result := NewDiscoverResult()
	result.Files = append(result.Files, filePath)

	if matcher == nil {
		matcher = IsBareSpecifier
	}

	var uses []LibraryUse
	var offsets []int
	for _, imp := range prog.Imports {
		if !matcher(imp.Source) {
			continue
		}
		use := LibraryUse{Lib: imp.Source, Kind: UseImport, File: filePath, Line: imp.Loc.Line}
		for _, item := range imp.Items {
			use.Locals = append(use.Locals, item.Local)
			if item.Kind != ast.ImportNamed {
				use.Namespace = true
			}
		}
		uses = append(uses, use)
		offsets = append(offsets, imp.Span.Start)
	}

	for _, exp := range prog.Exports {
		if exp.Kind == ast.ExportClause || !matcher(exp.Source) {
			continue
		}
		use := LibraryUse{Lib: exp.Source, Kind: UseExportFrom, File: filePath, Line: exp.Loc.Line}
		if exp.Kind == ast.ExportStar {
			use.Kind = UseExportStar
			use.Namespace = true
		}
		for _, item := range exp.Items {
			use.Locals = append(use.Locals, item.Name)
		}
		uses = append(uses, use)
		offsets = append(offsets, exp.Span.Start)
	}

	// imports and exports interleave in the source
	order := make([]int, len(uses))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return offsets[order[i]] < offsets[order[j]] })
	for _, i := range order {
		result.AddUse(uses[i])
	}

	return result
}

// DiscoverDir discovers library uses in all source files of a directory
// (non-recursively).
func DiscoverDir(dir string, matcher LibraryMatcher) (*DiscoverResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	opts := WalkOptions{}
	result := NewDiscoverResult()
	for _, entry := range entries {
		if entry.IsDir() || !opts.IsSource(entry.Name()) {
			continue
		}

		filePath := filepath.Join(dir, entry.Name())
		fileResult, err := DiscoverFile(filePath, matcher)
		if err != nil {
			result.AddError(err)
			continue
		}
		result.Merge(fileResult)
	}

	return result, nil
}

// IsBareSpecifier reports whether source names a package rather than a
// relative, absolute or URL path.
func IsBareSpecifier(source string) bool {
	if source == "" {
		return false
	}
	if strings.HasPrefix(source, ".") || strings.HasPrefix(source, "/") {
		return false
	}
	return !strings.Contains(source, ":")
}

// MatchLibrary returns a matcher that accepts exactly the given libraries.
func MatchLibrary(libs ...string) LibraryMatcher {
	set := make(map[string]bool, len(libs))
	for _, lib := range libs {
		set[lib] = true
	}
	return func(source string) bool { return set[source] }
}
