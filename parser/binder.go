package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/lex00/kitsplit/ast"
)

// scope maps declared names to import symbols. Locals map to InvalidRef,
// which is enough to tell that they shadow an import.
type scope struct {
	parent   *scope
	function bool
	names    map[string]ast.Ref
}

func newScope(parent *scope, function bool) *scope {
	return &scope{parent: parent, function: function, names: make(map[string]ast.Ref)}
}

// hoistTarget is the scope var declarations belong to.
func (s *scope) hoistTarget() *scope {
	for !s.function && s.parent != nil {
		s = s.parent
	}
	return s
}

func (s *scope) lookup(name string) (ast.Ref, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if ref, ok := scope.names[name]; ok {
			return ref, true
		}
	}
	return ast.InvalidRef, false
}

// reference is an identifier waiting for resolution. Resolution runs after
// the walk, when every scope is complete, so hoisted declarations are seen
// by references that precede them.
type reference struct {
	use   ast.Use
	scope *scope
}

type binder struct {
	prog   *ast.Program
	src    []byte
	module *scope
	refs   []reference
}

// bind fills prog from the syntax tree rooted at root.
func bind(prog *ast.Program, root *sitter.Node) {
	b := &binder{prog: prog, src: prog.Source, module: newScope(nil, true)}
	b.children(root, b.module)

	for _, r := range b.refs {
		if ref, ok := r.scope.lookup(r.use.Name); ok && ref.IsValid() {
			r.use.Ref = ref
			prog.Uses = append(prog.Uses, r.use)
		}
	}
	for _, exp := range prog.Exports {
		if exp.Kind != ast.ExportClause {
			continue
		}
		for i := range exp.Items {
			if ref, ok := b.module.names[exp.Items[i].Name]; ok {
				exp.Items[i].Ref = ref
			}
		}
	}
}

func (b *binder) text(n *sitter.Node) string {
	return n.Utf8Text(b.src)
}

func (b *binder) children(n *sitter.Node, s *scope) {
	for _, child := range namedChildren(n) {
		b.visit(child, s)
	}
}

func (b *binder) visit(n *sitter.Node, s *scope) {
	switch n.Kind() {
	case "identifier":
		b.reference(n, s, ast.UsePlain, n, "")
	case "shorthand_property_identifier", "shorthand_property_identifier_pattern":
		b.reference(n, s, ast.UseShorthand, n, "")

	case "import_statement":
		b.importStatement(n, s)
	case "export_statement":
		b.exportStatement(n, s)

	case "variable_declaration", "lexical_declaration":
		b.declaration(n, s)
	case "function_declaration", "generator_function_declaration":
		if name := n.ChildByFieldName("name"); name != nil {
			b.declare(name, s)
		}
		b.function(n, s)
	case "function_expression", "function", "generator_function", "arrow_function", "method_definition":
		b.function(n, s)
	case "class_declaration":
		name := n.ChildByFieldName("name")
		if name != nil {
			b.declare(name, s)
		}
		b.childrenExcept(n, s, name)
	case "class":
		inner := newScope(s, false)
		name := n.ChildByFieldName("name")
		if name != nil {
			b.declare(name, inner)
		}
		b.childrenExcept(n, inner, name)

	case "statement_block", "switch_body", "for_statement":
		b.children(n, newScope(s, false))
	case "for_in_statement":
		b.forIn(n, s)
	case "catch_clause":
		inner := newScope(s, false)
		if param := n.ChildByFieldName("parameter"); param != nil {
			b.pattern(param, inner, inner)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			b.children(body, inner)
		}

	case "member_expression":
		b.member(n, s)
	case "subscript_expression":
		b.subscript(n, s)
	case "jsx_opening_element", "jsx_closing_element", "jsx_self_closing_element":
		b.jsxElement(n, s)

	default:
		b.children(n, s)
	}
}

func (b *binder) childrenExcept(n *sitter.Node, s *scope, skip *sitter.Node) {
	for _, child := range namedChildren(n) {
		if !sameNode(child, skip) {
			b.visit(child, s)
		}
	}
}

func (b *binder) reference(id *sitter.Node, s *scope, kind ast.UseKind, expr *sitter.Node, member string) {
	name := b.text(id)
	b.prog.DeclareName(name)
	b.refs = append(b.refs, reference{
		scope: s,
		use: ast.Use{
			Ref:    ast.InvalidRef,
			Name:   name,
			Kind:   kind,
			Member: member,
			Span:   span(id),
			Expr:   span(expr),
			Loc:    loc(id),
		},
	})
}

// declare binds a local name in s. A local never replaces an import of the
// same scope; redeclaring an import is a syntax error in a module anyway.
func (b *binder) declare(id *sitter.Node, s *scope) {
	name := b.text(id)
	b.prog.DeclareName(name)
	if ref, ok := s.names[name]; ok && ref.IsValid() {
		return
	}
	s.names[name] = ast.InvalidRef
}

// pattern declares the names bound by a binding pattern in target.
// Default values and computed keys are evaluated in s.
func (b *binder) pattern(n *sitter.Node, target, s *scope) {
	switch n.Kind() {
	case "identifier", "shorthand_property_identifier_pattern":
		b.declare(n, target)
	case "object_pattern", "array_pattern", "rest_pattern":
		for _, child := range namedChildren(n) {
			b.pattern(child, target, s)
		}
	case "pair_pattern":
		if key := n.ChildByFieldName("key"); key != nil && key.Kind() == "computed_property_name" {
			b.visit(key, s)
		}
		if value := n.ChildByFieldName("value"); value != nil {
			b.pattern(value, target, s)
		}
	case "assignment_pattern", "object_assignment_pattern":
		if left := n.ChildByFieldName("left"); left != nil {
			b.pattern(left, target, s)
		}
		if right := n.ChildByFieldName("right"); right != nil {
			b.visit(right, s)
		}
	default:
		// member expressions in assignment targets such as `for (a.b of c)`
		b.visit(n, s)
	}
}

func (b *binder) declaration(n *sitter.Node, s *scope) {
	target := s
	if n.Kind() == "variable_declaration" {
		target = s.hoistTarget()
	}
	for _, decl := range namedChildren(n) {
		if decl.Kind() != "variable_declarator" {
			continue
		}
		if name := decl.ChildByFieldName("name"); name != nil {
			b.pattern(name, target, s)
		}
		if value := decl.ChildByFieldName("value"); value != nil {
			b.visit(value, s)
		}
	}
}

func (b *binder) function(n *sitter.Node, outer *scope) {
	fn := newScope(outer, true)

	switch n.Kind() {
	case "function_expression", "function", "generator_function":
		if name := n.ChildByFieldName("name"); name != nil {
			b.declare(name, fn)
		}
	case "method_definition":
		if name := n.ChildByFieldName("name"); name != nil && name.Kind() == "computed_property_name" {
			b.visit(name, outer)
		}
	}

	if param := n.ChildByFieldName("parameter"); param != nil {
		b.pattern(param, fn, fn)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		for _, param := range namedChildren(params) {
			b.pattern(param, fn, fn)
		}
	}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Kind() == "statement_block" {
			b.children(body, fn)
		} else {
			b.visit(body, fn)
		}
	}
}

// forIn handles both for-in and for-of loops.
func (b *binder) forIn(n *sitter.Node, s *scope) {
	inner := newScope(s, false)
	if left := n.ChildByFieldName("left"); left != nil {
		if kind := n.ChildByFieldName("kind"); kind != nil {
			target := inner
			if kind.Kind() == "var" {
				target = s.hoistTarget()
			}
			b.pattern(left, target, inner)
		} else {
			b.visit(left, inner)
		}
	}
	if value := n.ChildByFieldName("value"); value != nil {
		b.visit(value, inner)
	}
	if right := n.ChildByFieldName("right"); right != nil {
		b.visit(right, s)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		b.visit(body, inner)
	}
}

func (b *binder) member(n *sitter.Node, s *scope) {
	object := n.ChildByFieldName("object")
	property := n.ChildByFieldName("property")
	if object != nil && object.Kind() == "identifier" && property != nil && property.Kind() == "property_identifier" {
		b.reference(object, s, ast.UseMember, n, b.text(property))
		return
	}
	b.children(n, s)
}

func (b *binder) subscript(n *sitter.Node, s *scope) {
	object := n.ChildByFieldName("object")
	index := n.ChildByFieldName("index")
	if object == nil || object.Kind() != "identifier" || index == nil {
		b.children(n, s)
		return
	}
	if index.Kind() == "string" {
		b.reference(object, s, ast.UseIndex, n, b.stringValue(index))
		return
	}
	b.reference(object, s, ast.UseDynamic, n, "")
	b.visit(index, s)
}

// jsxElement skips lowercase tag names, which name intrinsic elements
// rather than bindings.
func (b *binder) jsxElement(n *sitter.Node, s *scope) {
	name := n.ChildByFieldName("name")
	for _, child := range namedChildren(n) {
		if sameNode(child, name) && child.Kind() == "identifier" && isIntrinsicTag(b.text(child)) {
			continue
		}
		b.visit(child, s)
	}
}

func isIntrinsicTag(name string) bool {
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}

func (b *binder) importStatement(n *sitter.Node, s *scope) {
	imp := &ast.Import{Span: span(n), Loc: loc(n)}
	if source := n.ChildByFieldName("source"); source != nil {
		imp.Source = b.stringValue(source)
	}
	b.prog.Imports = append(b.prog.Imports, imp)

	for _, clause := range namedChildren(n) {
		if clause.Kind() != "import_clause" {
			continue
		}
		for _, part := range namedChildren(clause) {
			switch part.Kind() {
			case "identifier":
				b.importItem(imp, s, ast.ImportDefault, "", part)
			case "namespace_import":
				for _, id := range namedChildren(part) {
					if id.Kind() == "identifier" {
						b.importItem(imp, s, ast.ImportNamespace, "", id)
					}
				}
			case "named_imports":
				for _, spec := range namedChildren(part) {
					if spec.Kind() != "import_specifier" {
						continue
					}
					name := spec.ChildByFieldName("name")
					if name == nil {
						continue
					}
					local := name
					if alias := spec.ChildByFieldName("alias"); alias != nil {
						local = alias
					}
					b.importItem(imp, s, ast.ImportNamed, b.nameValue(name), local)
				}
			}
		}
	}
}

var symbolKinds = map[ast.ImportKind]ast.SymbolKind{
	ast.ImportDefault:   ast.SymbolImportDefault,
	ast.ImportNamespace: ast.SymbolImportNamespace,
	ast.ImportNamed:     ast.SymbolImportNamed,
}

func (b *binder) importItem(imp *ast.Import, s *scope, kind ast.ImportKind, imported string, local *sitter.Node) {
	name := b.text(local)
	b.prog.DeclareName(name)
	ref := b.prog.NewSymbol(name, symbolKinds[kind], imp)
	s.names[name] = ref
	imp.Items = append(imp.Items, ast.ImportSpecifier{
		Kind:     kind,
		Imported: imported,
		Local:    name,
		Ref:      ref,
		Loc:      loc(local),
	})
}

func (b *binder) exportStatement(n *sitter.Node, s *scope) {
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		b.visit(decl, s)
		return
	}
	if value := n.ChildByFieldName("value"); value != nil {
		b.visit(value, s)
		return
	}

	exp := &ast.Export{Span: span(n), Loc: loc(n)}
	source := n.ChildByFieldName("source")
	if source != nil {
		exp.Source = b.stringValue(source)
	}

	var clause, namespace *sitter.Node
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "export_clause":
			clause = child
		case "namespace_export":
			namespace = child
		}
	}

	switch {
	case clause != nil:
		exp.Kind = ast.ExportClause
		if source != nil {
			exp.Kind = ast.ExportFrom
		}
		for _, spec := range namedChildren(clause) {
			name := spec.ChildByFieldName("name")
			if spec.Kind() != "export_specifier" || name == nil {
				continue
			}
			item := ast.ExportItem{Name: b.nameValue(name), Ref: ast.InvalidRef, Span: span(spec), Loc: loc(spec)}
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				item.Alias = b.nameValue(alias)
			}
			if source == nil {
				b.prog.DeclareName(item.Name)
			}
			exp.Items = append(exp.Items, item)
		}
	case source != nil:
		exp.Kind = ast.ExportStar
		if namespace != nil {
			for _, id := range namedChildren(namespace) {
				exp.Alias = b.nameValue(id)
			}
		}
	default:
		b.children(n, s)
		return
	}
	b.prog.Exports = append(b.prog.Exports, exp)
}

// nameValue returns the name of an identifier or a string-literal module
// export name such as `"a-b"`.
func (b *binder) nameValue(n *sitter.Node) string {
	if n.Kind() == "string" {
		return b.stringValue(n)
	}
	return b.text(n)
}
