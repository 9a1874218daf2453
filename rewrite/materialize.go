package rewrite

import (
	"strings"

	"github.com/lex00/kitsplit/printer"
)

// Materialize returns the local name of the direct import of member,
// resolving it and reserving the name on first use.
func (u *unit) Materialize(member string) (string, error) {
	if local, ok := u.state.materialized[member]; ok {
		return local, nil
	}

	path, err := u.resolver.Resolve(u.state.lib, member)
	if err != nil {
		return "", err
	}
	local := u.state.prog.GenerateUID(member)
	u.state.materialized[member] = local
	u.state.result.Imports = append(u.state.result.Imports, InjectedImport{
		Member: member,
		Local:  local,
		Path:   path,
	})
	return local, nil
}

// importBlock renders the injected imports, one per line, in first-use
// order.
func (u *unit) importBlock() string {
	eol := printer.LineEnding(u.state.prog.Source)
	var b strings.Builder
	for _, imp := range u.state.result.Imports {
		b.WriteString(printer.DefaultImport(imp.Local, imp.Path))
		b.WriteString(eol)
	}
	return b.String()
}
