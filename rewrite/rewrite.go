// Package rewrite replaces references to an aggregate library with direct
// imports of the submodules that are actually used.
//
// Transform computes the rewritten text of one parsed program:
//
//	import { map } from "kit";      import _map from "kit/es/src/map";
//	import * as k from "kit";   =>  import _filter from "kit/es/src/filter";
//	map(k.filter(xs));              _map(_filter(xs));
//
// Each member is imported at most once per program. Bindings are matched
// by symbol, so locals that shadow an import are left alone. Changes are
// applied as edits to the original source; everything else, comments
// included, is kept as written.
package rewrite

import (
	"errors"

	"github.com/lex00/kitsplit/ast"
	"github.com/lex00/kitsplit/printer"
)

// Resolver maps a library member to the import path of its submodule.
// *modules.Resolver implements it.
type Resolver interface {
	Resolve(lib, member string) (string, error)
}

// Options configures a Transform call.
type Options struct {
	// Lib is the aggregate library to rewrite, as written in import sources.
	Lib string
	// Resolver resolves members of Lib.
	Resolver Resolver
}

// InjectedImport describes one import added by Transform.
type InjectedImport struct {
	Member string
	Local  string
	Path   string
}

// Result summarizes the changes Transform made to a program.
type Result struct {
	Imports []InjectedImport
	// Rewrites counts the reference sites that were replaced.
	Rewrites int
	// Removed counts the library declarations deleted from the program.
	Removed int
	// Dynamic lists computed accesses such as kit[key] on a removed
	// library binding. They are left as written.
	Dynamic []ast.Loc
	// Source is the rewritten text, or the original text when nothing
	// changed.
	Source []byte
}

// Changed reports whether the program was modified.
func (r *Result) Changed() bool {
	return len(r.Imports) > 0 || r.Rewrites > 0 || r.Removed > 0
}

// Transform rewrites prog. prog itself is never modified; the new text is
// returned in Result.Source. Unsupported patterns are detected before any
// member is resolved.
func Transform(prog *ast.Program, opts Options) (*Result, error) {
	if opts.Resolver == nil {
		return nil, errors.New("rewrite: no resolver configured")
	}
	if err := checkUnsupported(prog, opts.Lib); err != nil {
		return nil, err
	}

	state := newUnitState(prog, opts.Lib)
	u := &unit{state: state, resolver: opts.Resolver}

	if err := u.track(); err != nil {
		return nil, err
	}
	if err := u.visitSites(); err != nil {
		return nil, err
	}

	result := &state.result
	result.Source = prog.Source
	if len(state.edits) == 0 {
		return result, nil
	}
	if len(result.Imports) > 0 {
		state.edits = append(state.edits, printer.Insert(state.anchor, u.importBlock()))
	}
	out, err := printer.Apply(prog.Source, state.edits)
	if err != nil {
		return nil, err
	}
	result.Source = out
	return result, nil
}
