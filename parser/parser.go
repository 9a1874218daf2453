// Package parser turns JavaScript module source into an ast.Program with
// resolved bindings.
//
// Source is parsed with tree-sitter's JavaScript grammar, which covers the
// full language including classes, template literals, regular expressions
// and JSX. The syntax tree is then walked once by the binder, which
// extracts the import and export declarations and resolves every
// identifier against its lexical scope. The tree itself is released before
// Parse returns.
package parser

import (
	"fmt"
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"
	javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"

	"github.com/lex00/kitsplit/ast"
	kerrors "github.com/lex00/kitsplit/errors"
)

var language = sitter.NewLanguage(javascript.Language())

// ParseFile reads and parses a single source file.
func ParseFile(path string) (*ast.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, src)
}

// Parse parses src as a module. The name is used for error messages only.
// Source with any syntax error is rejected with a parse error locating the
// first one.
func Parse(name string, src []byte) (*ast.Program, error) {
	p := sitter.NewParser()
	defer p.Close()
	if err := p.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to load the JavaScript grammar: %w", err)
	}

	tree := p.Parse(src, nil)
	if tree == nil {
		return nil, kerrors.Parse(name, 0, 0, "parser produced no syntax tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		bad := firstError(root)
		l := loc(bad)
		return nil, kerrors.Parse(name, l.Line, l.Column, syntaxError(bad, src))
	}

	prog := &ast.Program{Name: name, Source: src}
	bind(prog, root)
	return prog, nil
}

// firstError returns the first ERROR or MISSING node under n in source
// order, or n itself when only its own flag is set.
func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && (child.HasError() || child.IsMissing()) {
			return firstError(child)
		}
	}
	return n
}

func syntaxError(n *sitter.Node, src []byte) string {
	if n.IsMissing() {
		return fmt.Sprintf("missing %q", n.Kind())
	}
	text := n.Utf8Text(src)
	if i := indexLineBreak(text); i >= 0 {
		text = text[:i]
	}
	if len(text) > 24 {
		text = text[:24] + "..."
	}
	if text == "" {
		return "unexpected end of input"
	}
	return fmt.Sprintf("unexpected %q", text)
}

func indexLineBreak(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' || s[i] == '\r' {
			return i
		}
	}
	return -1
}

func loc(n *sitter.Node) ast.Loc {
	p := n.StartPosition()
	return ast.Loc{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func span(n *sitter.Node) ast.Span {
	return ast.Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

// namedChildren lists the named children of n, skipping comments, which
// tree-sitter attaches wherever they occur.
func namedChildren(n *sitter.Node) []*sitter.Node {
	count := n.NamedChildCount()
	out := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if child := n.NamedChild(i); child != nil && child.Kind() != "comment" {
			out = append(out, child)
		}
	}
	return out
}

func sameNode(a, b *sitter.Node) bool {
	return a != nil && b != nil && a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}
