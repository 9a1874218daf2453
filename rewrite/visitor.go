package rewrite

import (
	"sort"

	"github.com/lex00/kitsplit/ast"
	"github.com/lex00/kitsplit/printer"
)

// unit drives the rewrite of one program.
type unit struct {
	state    *UnitState
	resolver Resolver
}

// site is one place that may need an edit: a reference or an export.
type site struct {
	pos    int
	use    *ast.Use
	export *ast.Export
}

// visitSites queues an edit for every reference to a library binding and
// every export that names one, in source order so that injected imports
// follow first use.
func (u *unit) visitSites() error {
	prog := u.state.prog
	sites := make([]site, 0, len(prog.Uses)+len(prog.Exports))
	for i := range prog.Uses {
		sites = append(sites, site{pos: prog.Uses[i].Span.Start, use: &prog.Uses[i]})
	}
	for _, exp := range prog.Exports {
		sites = append(sites, site{pos: exp.Span.Start, export: exp})
	}
	sort.SliceStable(sites, func(i, j int) bool { return sites[i].pos < sites[j].pos })

	for _, s := range sites {
		var err error
		if s.use != nil {
			err = u.visitUse(s.use)
		} else {
			err = u.visitExport(s.export)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (u *unit) visitUse(use *ast.Use) error {
	if u.state.IsWholeLibraryBinding(use.Ref) {
		return u.visitWholeLibraryUse(use)
	}
	member, ok := u.state.IsMemberBinding(use.Ref)
	if !ok {
		return nil
	}
	local, err := u.Materialize(member)
	if err != nil {
		return withLoc(err, use.Loc)
	}
	// Only the identifier is replaced, so `map.length` keeps its property
	// access on the direct import.
	if use.Kind == ast.UseShorthand {
		u.state.replace(use.Span, use.Name+": "+local)
	} else {
		u.state.replace(use.Span, local)
	}
	return nil
}

// visitWholeLibraryUse collapses `kit.member` and `kit["member"]` to the
// direct import. Any other reference to the library object has nothing to
// point at once its import is gone and becomes null.
func (u *unit) visitWholeLibraryUse(use *ast.Use) error {
	switch use.Kind {
	case ast.UseMember, ast.UseIndex:
		local, err := u.Materialize(use.Member)
		if err != nil {
			return withLoc(err, use.Loc)
		}
		u.state.replace(use.Expr, local)
	case ast.UseDynamic:
		u.state.result.Dynamic = append(u.state.result.Dynamic, use.Loc)
	case ast.UseShorthand:
		u.state.replace(use.Span, use.Name+": null")
	default:
		u.state.replace(use.Span, "null")
	}
	return nil
}

func (u *unit) visitExport(exp *ast.Export) error {
	switch exp.Kind {
	case ast.ExportFrom:
		if exp.Source != u.state.lib {
			return nil
		}
		specs := make([]string, 0, len(exp.Items))
		for _, item := range exp.Items {
			local, err := u.Materialize(item.Name)
			if err != nil {
				return withLoc(err, item.Loc)
			}
			specs = append(specs, printer.ExportSpecifier(local, item.Exported()))
		}
		u.state.replace(exp.Span, printer.ExportClause(specs))

	case ast.ExportClause:
		for _, item := range exp.Items {
			member, ok := u.state.IsMemberBinding(item.Ref)
			if !ok {
				continue
			}
			local, err := u.Materialize(member)
			if err != nil {
				return withLoc(err, item.Loc)
			}
			u.state.replace(item.Span, printer.ExportSpecifier(local, item.Exported()))
		}
	}
	return nil
}
