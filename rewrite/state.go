package rewrite

import (
	"github.com/lex00/kitsplit/ast"
	"github.com/lex00/kitsplit/printer"
)

// UnitState is the per-unit bookkeeping of one Transform call. It is
// created on entry, threaded through every rewrite and dropped on exit.
type UnitState struct {
	prog *ast.Program
	lib  string

	// wholeLibrary holds the symbols of default and namespace imports.
	wholeLibrary map[ast.Ref]bool
	// members maps a named import symbol to the member it imports.
	members map[ast.Ref]string
	// materialized maps a member to the local name of its direct import.
	materialized map[string]string
	// removed holds the library declarations already deleted.
	removed map[*ast.Import]bool

	edits []printer.Edit
	// anchor is the offset where injected imports go: the first library
	// statement of the unit, or -1 before one is seen.
	anchor int

	result Result
}

func newUnitState(prog *ast.Program, lib string) *UnitState {
	return &UnitState{
		prog:         prog,
		lib:          lib,
		wholeLibrary: make(map[ast.Ref]bool),
		members:      make(map[ast.Ref]string),
		materialized: make(map[string]string),
		removed:      make(map[*ast.Import]bool),
		anchor:       -1,
	}
}

// IsWholeLibraryBinding reports whether ref is a default or namespace
// import of the library. Matching is by symbol, so a local that shadows
// the import never matches.
func (s *UnitState) IsWholeLibraryBinding(ref ast.Ref) bool {
	return ref.IsValid() && s.wholeLibrary[ref]
}

// IsMemberBinding reports whether ref is a named import of the library and
// returns the imported member name.
func (s *UnitState) IsMemberBinding(ref ast.Ref) (string, bool) {
	if !ref.IsValid() {
		return "", false
	}
	member, ok := s.members[ref]
	return member, ok
}

// replace queues the replacement of one reference site.
func (s *UnitState) replace(span ast.Span, text string) {
	s.edits = append(s.edits, printer.Replace(span, text))
	s.result.Rewrites++
}

// remove queues the deletion of a library declaration. Removing the same
// declaration twice is harmless.
func (s *UnitState) remove(imp *ast.Import) {
	if s.removed[imp] {
		return
	}
	s.removed[imp] = true
	span := printer.StatementSpan(s.prog.Source, imp.Span)
	s.edits = append(s.edits, printer.Delete(span))
	s.result.Removed++
	s.markAnchor(span.Start)
}

func (s *UnitState) markAnchor(pos int) {
	if s.anchor < 0 || pos < s.anchor {
		s.anchor = pos
	}
}
