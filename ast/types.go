// Package ast describes the module-level structure of a JavaScript source
// file that kitsplit rewrites.
//
// A Program is not a full syntax tree. The parser extracts the import and
// export declarations, the symbols they bind and every resolved reference
// to those symbols, each with its byte span in Source, so that rewrites can
// be applied as edits to the original text.
package ast

// Loc is a 1-based source position.
type Loc struct {
	Line   int
	Column int
}

// Span is a half-open byte range [Start, End) of Program.Source.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by s.
func (s Span) Len() int { return s.End - s.Start }

// Program is one parsed compilation unit.
type Program struct {
	// Name is the file name used in diagnostics.
	Name   string
	Source []byte

	// Imports lists the top-level import declarations in source order.
	Imports []*Import
	// Exports lists the export declarations that name other bindings or
	// modules, in source order. Exported declarations such as
	// `export const x = 1` are not recorded.
	Exports []*Export

	Symbols []Symbol
	// Uses lists the references to import symbols in source order.
	// References to locals and globals are not recorded.
	Uses []Use

	// names holds every identifier spelled anywhere in the unit.
	names map[string]bool
}

// ImportKind distinguishes the three import specifier forms.
type ImportKind uint8

const (
	// ImportDefault is "import name from ..."
	ImportDefault ImportKind = iota
	// ImportNamespace is "import * as name from ..."
	ImportNamespace
	// ImportNamed is "import { imported as name } from ..."
	ImportNamed
)

// ImportSpecifier is one local binding introduced by an import.
type ImportSpecifier struct {
	Kind ImportKind
	// Imported is the exported name in the source module (ImportNamed only).
	Imported string
	Local    string
	Ref      Ref
	Loc      Loc
}

// Import is an import declaration. Items is empty for a bare side-effect
// import such as `import "polyfill"`.
type Import struct {
	Items  []ImportSpecifier
	Source string
	Span   Span
	Loc    Loc
}

// ExportKind distinguishes the export declarations a Program records.
type ExportKind uint8

const (
	// ExportClause is `export { a, b as c }` without a source module.
	ExportClause ExportKind = iota
	// ExportFrom is `export { a as b } from "source"`.
	ExportFrom
	// ExportStar is `export * from "source"` or `export * as Alias from "source"`.
	ExportStar
)

// ExportItem is one entry of an export clause. For ExportClause, Name is
// the local binding and Ref its symbol; for ExportFrom, Name is the member
// of the source module and Ref is InvalidRef.
type ExportItem struct {
	Name  string
	Alias string
	Ref   Ref
	Span  Span
	Loc   Loc
}

// Exported returns the name the item is exported as.
func (i ExportItem) Exported() string {
	if i.Alias != "" {
		return i.Alias
	}
	return i.Name
}

// Export is an export declaration.
type Export struct {
	Kind   ExportKind
	Items  []ExportItem
	Source string
	// Alias is the namespace name of `export * as Alias from "source"`.
	Alias string
	Span  Span
	Loc   Loc
}

// UseKind records the syntactic position of a reference.
type UseKind uint8

const (
	// UsePlain is a reference in any position not listed below.
	UsePlain UseKind = iota
	// UseShorthand is a shorthand object property, `{ name }`.
	UseShorthand
	// UseMember is a static member access, `name.member` or `name?.member`.
	UseMember
	// UseIndex is an access with a string literal key, `name["member"]`.
	UseIndex
	// UseDynamic is an access with any other key, `name[expr]`.
	UseDynamic
)

func (k UseKind) String() string {
	switch k {
	case UseShorthand:
		return "shorthand"
	case UseMember:
		return "member"
	case UseIndex:
		return "index"
	case UseDynamic:
		return "dynamic"
	default:
		return "plain"
	}
}

// Use is one reference to an import symbol.
type Use struct {
	Ref  Ref
	Name string
	Kind UseKind
	// Member is the accessed name for UseMember and UseIndex.
	Member string
	// Span covers the identifier itself.
	Span Span
	// Expr covers the whole access for UseMember, UseIndex and UseDynamic,
	// and equals Span otherwise.
	Expr Span
	Loc  Loc
}
