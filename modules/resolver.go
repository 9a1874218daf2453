package modules

import (
	"path"

	kerrors "github.com/lex00/kitsplit/errors"
)

// Resolver maps a library member to the import path of its submodule.
type Resolver struct {
	registry *Registry
}

// NewResolver creates a resolver backed by registry.
func NewResolver(registry *Registry) *Resolver {
	return &Resolver{registry: registry}
}

// NewDefaultResolver creates a resolver that locates libraries from root
// and lists the given submodule directory and extension.
func NewDefaultResolver(root, submoduleDir, extension string) *Resolver {
	return NewResolver(NewRegistry(NewLocator(root), submoduleDir, extension))
}

// Registry returns the backing registry.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve returns "<lib>/<submoduleDir>/<member>". It fails with a
// configuration error when lib is empty and an unknown member error when
// the library has no such submodule.
func (r *Resolver) Resolve(lib, member string) (string, error) {
	if lib == "" {
		return "", kerrors.Configuration("lib option is required")
	}
	ok, err := r.registry.Has(lib, member)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", kerrors.UnknownMember(lib, member)
	}
	return path.Join(lib, r.registry.SubmoduleDir(), member), nil
}
