package ast

import "strconv"

// ExtractImports extracts all import bindings of a program and returns a map
// of local name to import source. Bare side-effect imports contribute nothing.
func ExtractImports(prog *Program) map[string]string {
	imports := make(map[string]string)

	for _, imp := range prog.Imports {
		for _, item := range imp.Items {
			imports[item.Local] = imp.Source
		}
	}

	return imports
}

// ImportsOf returns the import declarations of prog whose source is source,
// in program order.
func ImportsOf(prog *Program, source string) []*Import {
	var out []*Import
	for _, imp := range prog.Imports {
		if imp.Source == source {
			out = append(out, imp)
		}
	}
	return out
}

// ExportsOf returns the re-exports of prog whose source is source, in
// program order.
func ExportsOf(prog *Program, source string) []*Export {
	var out []*Export
	for _, exp := range prog.Exports {
		if exp.Kind != ExportClause && exp.Source == source {
			out = append(out, exp)
		}
	}
	return out
}

// GenerateUID returns an unused identifier derived from hint: "_hint",
// then "_hint2", "_hint3" and so on. The name is reserved, so later calls
// never return it again.
func (p *Program) GenerateUID(hint string) string {
	base := "_" + toIdentifier(hint)
	for i := 1; ; i++ {
		name := base
		if i > 1 {
			name = base + strconv.Itoa(i)
		}
		if !p.NameInUse(name) && !IsReservedName(name) {
			p.DeclareName(name)
			return name
		}
	}
}

// toIdentifier maps arbitrary text to identifier characters, dropping a
// leading run of underscores so that hints never stack prefixes.
func toIdentifier(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if IsIdentifierPart(r) {
			out = append(out, r)
		} else {
			out = append(out, '_')
		}
	}
	for len(out) > 0 && out[0] == '_' {
		out = out[1:]
	}
	if len(out) > 0 && out[0] >= '0' && out[0] <= '9' {
		out = append([]rune{'_'}, out...)
	}
	if len(out) == 0 {
		return "ref"
	}
	return string(out)
}
