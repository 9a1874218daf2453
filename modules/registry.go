package modules

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	kerrors "github.com/lex00/kitsplit/errors"
)

const (
	// DefaultSubmoduleDir is where libraries keep one file per member.
	DefaultSubmoduleDir = "es/src"
	// DefaultExtension is the file extension of submodule files.
	DefaultExtension = ".js"
)

// Registry caches the submodule names of each library. Each library is
// listed once, on first use; failures are not cached. A Registry is safe
// for concurrent use.
type Registry struct {
	locator      InstallLocator
	submoduleDir string
	extension    string

	mu      sync.Mutex
	members map[string]map[string]bool
}

// NewRegistry creates a registry that lists <install>/<submoduleDir> and
// keeps files ending in extension. Empty values select the defaults.
func NewRegistry(locator InstallLocator, submoduleDir, extension string) *Registry {
	if submoduleDir == "" {
		submoduleDir = DefaultSubmoduleDir
	}
	if extension == "" {
		extension = DefaultExtension
	}
	if !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &Registry{
		locator:      locator,
		submoduleDir: strings.Trim(filepath.ToSlash(submoduleDir), "/"),
		extension:    extension,
		members:      make(map[string]map[string]bool),
	}
}

// SubmoduleDir returns the submodule directory relative to the package.
func (r *Registry) SubmoduleDir() string {
	return r.submoduleDir
}

// Has reports whether lib ships a submodule called member.
func (r *Registry) Has(lib, member string) (bool, error) {
	set, err := r.load(lib)
	if err != nil {
		return false, err
	}
	return set[member], nil
}

// Members returns the sorted submodule names of lib.
func (r *Registry) Members(lib string) ([]string, error) {
	set, err := r.load(lib)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Registry) load(lib string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if set, ok := r.members[lib]; ok {
		return set, nil
	}

	dir, err := r.locator.ResolveInstallPath(lib)
	if err != nil {
		return nil, kerrors.Locate(lib, err)
	}
	entries, err := os.ReadDir(filepath.Join(dir, filepath.FromSlash(r.submoduleDir)))
	if err != nil {
		return nil, kerrors.Locate(lib, err)
	}

	set := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != r.extension {
			continue
		}
		set[strings.TrimSuffix(name, r.extension)] = true
	}
	r.members[lib] = set
	return set, nil
}
