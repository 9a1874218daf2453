package discover

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// DefaultExtensions are the source file extensions walked when
// WalkOptions.Extensions is empty.
var DefaultExtensions = []string{".js", ".mjs", ".jsx"}

// WalkOptions configures directory walking behavior.
type WalkOptions struct {
	// SkipTests skips *.test.js and *.spec.js files.
	SkipTests bool
	// SkipNodeModules skips node_modules directories.
	SkipNodeModules bool
	// SkipHidden skips directories starting with ".".
	SkipHidden bool
	// ExcludeDirs lists additional directory names to skip.
	ExcludeDirs []string
	// Extensions overrides DefaultExtensions.
	Extensions []string
}

// DefaultWalkOptions skips dependencies and hidden directories but keeps
// test files, which import libraries like any other module.
func DefaultWalkOptions() WalkOptions {
	return WalkOptions{SkipNodeModules: true, SkipHidden: true}
}

func (o WalkOptions) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

// IsSource reports whether path has one of the walked extensions.
func (o WalkOptions) IsSource(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range o.extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

func isTestFile(path string) bool {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.HasSuffix(base, ".test") || strings.HasSuffix(base, ".spec")
}

// WalkDir walks a directory tree and calls fn for each source file, in
// lexical order.
func WalkDir(root string, opts WalkOptions, fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if opts.SkipHidden && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if opts.SkipNodeModules && name == "node_modules" {
				return filepath.SkipDir
			}
			for _, excluded := range opts.ExcludeDirs {
				if name == excluded {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !opts.IsSource(path) {
			return nil
		}
		if opts.SkipTests && isTestFile(path) {
			return nil
		}

		return fn(path)
	})
}

// CollectSourceFiles walks a directory and returns all source file paths.
func CollectSourceFiles(root string, opts WalkOptions) ([]string, error) {
	var files []string
	err := WalkDir(root, opts, func(path string) error {
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
