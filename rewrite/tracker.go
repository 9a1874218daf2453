package rewrite

import (
	"fmt"

	"github.com/lex00/kitsplit/ast"
	kerrors "github.com/lex00/kitsplit/errors"
)

// checkUnsupported rejects library patterns the rewrite cannot handle. It
// runs before any member is resolved.
func checkUnsupported(prog *ast.Program, lib string) error {
	for _, exp := range prog.Exports {
		switch exp.Kind {
		case ast.ExportStar:
			if exp.Source != lib {
				continue
			}
			err := kerrors.UnsupportedPattern(lib, fmt.Sprintf("`export * from %q` defeats the purpose of selective imports", lib))
			if exp.Alias != "" {
				err = kerrors.UnsupportedPattern(lib, fmt.Sprintf("`export * as %s from %q` defeats the purpose of selective imports", exp.Alias, lib))
			}
			err.Line, err.Column = exp.Loc.Line, exp.Loc.Column
			return err

		case ast.ExportClause:
			for _, item := range exp.Items {
				if !prog.ModuleBinding(item.Ref, lib) {
					continue
				}
				err := kerrors.UnsupportedPattern(lib, fmt.Sprintf("exporting the whole library binding %q is not supported", item.Name))
				err.Line, err.Column = item.Loc.Line, item.Loc.Column
				return err
			}
		}
	}
	return nil
}

// track records the bindings introduced by every import of the library,
// validates named members against the resolver, and queues each
// declaration for deletion.
func (u *unit) track() error {
	for _, imp := range ast.ImportsOf(u.state.prog, u.state.lib) {
		for _, item := range imp.Items {
			switch item.Kind {
			case ast.ImportNamed:
				if _, err := u.resolver.Resolve(u.state.lib, item.Imported); err != nil {
					return withLoc(err, imp.Loc)
				}
				u.state.members[item.Ref] = item.Imported
			default:
				u.state.wholeLibrary[item.Ref] = true
			}
		}
		u.state.remove(imp)
	}
	for _, exp := range ast.ExportsOf(u.state.prog, u.state.lib) {
		u.state.markAnchor(exp.Span.Start)
	}
	return nil
}

// withLoc fills in the source position of a typed error that has none.
func withLoc(err error, loc ast.Loc) error {
	if kerr, ok := err.(*kerrors.Error); ok && kerr.Line == 0 {
		kerr.Line, kerr.Column = loc.Line, loc.Column
	}
	return err
}
