package ast

// Ref indexes Program.Symbols.
type Ref int32

// InvalidRef marks a name that is not bound by an import.
const InvalidRef Ref = -1

// IsValid reports whether r points at a symbol.
func (r Ref) IsValid() bool { return r >= 0 }

// SymbolKind records which import form declared a symbol.
type SymbolKind uint8

const (
	SymbolImportDefault SymbolKind = iota
	SymbolImportNamespace
	SymbolImportNamed
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolImportDefault:
		return "import-default"
	case SymbolImportNamespace:
		return "import-namespace"
	case SymbolImportNamed:
		return "import-named"
	default:
		return "unknown"
	}
}

// BindsModule reports whether the symbol stands for the whole source
// module rather than one of its exports.
func (k SymbolKind) BindsModule() bool {
	return k == SymbolImportDefault || k == SymbolImportNamespace
}

// Symbol is one name declared by an import.
type Symbol struct {
	Name string
	Kind SymbolKind
	// Import is the declaring statement.
	Import *Import
}

// NewSymbol appends a symbol and returns its ref.
func (p *Program) NewSymbol(name string, kind SymbolKind, imp *Import) Ref {
	p.Symbols = append(p.Symbols, Symbol{Name: name, Kind: kind, Import: imp})
	return Ref(len(p.Symbols) - 1)
}

// Symbol returns the symbol for ref, or nil if ref is out of range.
func (p *Program) Symbol(ref Ref) *Symbol {
	if !ref.IsValid() || int(ref) >= len(p.Symbols) {
		return nil
	}
	return &p.Symbols[ref]
}

// ModuleBinding reports whether ref is a default or namespace import of
// source.
func (p *Program) ModuleBinding(ref Ref, source string) bool {
	sym := p.Symbol(ref)
	return sym != nil && sym.Import != nil && sym.Import.Source == source && sym.Kind.BindsModule()
}

// NamedBinding returns the imported member when ref is a named import of
// source.
func (p *Program) NamedBinding(ref Ref, source string) (string, bool) {
	sym := p.Symbol(ref)
	if sym == nil || sym.Import == nil || sym.Import.Source != source || sym.Kind != SymbolImportNamed {
		return "", false
	}
	for _, item := range sym.Import.Items {
		if item.Ref == ref {
			return item.Imported, true
		}
	}
	return "", false
}

// DeclareName records that name is spelled in the unit.
func (p *Program) DeclareName(name string) {
	if p.names == nil {
		p.names = make(map[string]bool)
	}
	p.names[name] = true
}

// NameInUse reports whether name is spelled anywhere in the unit, as a
// binding, a reference or a global.
func (p *Program) NameInUse(name string) bool {
	return p.names[name]
}
