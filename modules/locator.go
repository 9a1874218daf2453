// Package modules finds installed libraries and the submodules they ship.
//
// A Locator performs Node-style resolution of a package directory, a
// Registry lists and caches the submodule names of each library, and a
// Resolver turns a library member into its direct import path.
package modules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// PackageInfo describes an installed package.
type PackageInfo struct {
	Name    string
	Version string
	Dir     string
}

// InstallLocator finds the directory a library is installed in.
type InstallLocator interface {
	ResolveInstallPath(lib string) (string, error)
}

// Locator resolves packages the way Node does for a bare specifier:
// node_modules/<lib> in the start directory, then in each parent.
type Locator struct {
	Root string
}

// NewLocator creates a locator that starts its search at root. An empty
// root means the current directory.
func NewLocator(root string) *Locator {
	return &Locator{Root: root}
}

// ResolveInstallPath returns the directory of the installed package lib.
func (l *Locator) ResolveInstallPath(lib string) (string, error) {
	info, err := l.Package(lib)
	if err != nil {
		return "", err
	}
	return info.Dir, nil
}

// Package finds lib and reads its package.json. A candidate directory
// whose package.json names a different package is skipped.
func (l *Locator) Package(lib string) (*PackageInfo, error) {
	root := l.Root
	if root == "" {
		root = "."
	}
	dir, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for {
		candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(lib))
		info, err := readPackage(candidate)
		if err != nil {
			return nil, err
		}
		if info != nil && (info.Name == "" || info.Name == lib) {
			if info.Name == "" {
				info.Name = lib
			}
			return info, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("package %s not found in any node_modules above %s: %w", lib, root, os.ErrNotExist)
		}
		dir = parent
	}
}

// readPackage returns nil without error when dir holds no package.json.
func readPackage(dir string) (*PackageInfo, error) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid package.json in %s", dir)
	}

	result := gjson.GetManyBytes(data, "name", "version")
	return &PackageInfo{
		Name:    result[0].String(),
		Version: result[1].String(),
		Dir:     dir,
	}, nil
}
