// Package printer produces rewritten source by splicing edits into the
// original text.
//
// Everything outside the edited ranges is copied through byte for byte, so
// comments, blank lines, quoting style and annotations such as
// /*#__PURE__*/ survive a rewrite.
package printer

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/lex00/kitsplit/ast"
)

// Edit replaces the bytes of Span with Text. An empty span inserts.
type Edit struct {
	Span ast.Span
	Text string
}

// Replace returns an edit replacing span with text.
func Replace(span ast.Span, text string) Edit {
	return Edit{Span: span, Text: text}
}

// Insert returns an edit inserting text at offset pos.
func Insert(pos int, text string) Edit {
	return Edit{Span: ast.Span{Start: pos, End: pos}, Text: text}
}

// Delete returns an edit removing span.
func Delete(span ast.Span) Edit {
	return Edit{Span: span}
}

// Apply returns src with edits applied. Edits may come in any order; an
// insertion runs before a replacement starting at the same offset, and
// insertions at one offset keep their relative order. Overlapping edits
// are an error.
func Apply(src []byte, edits []Edit) ([]byte, error) {
	sorted := append([]Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Span, sorted[j].Span
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Len() == 0 && b.Len() != 0
	})

	var out bytes.Buffer
	out.Grow(len(src))
	pos := 0
	for _, e := range sorted {
		if e.Span.Start < pos || e.Span.Start > e.Span.End || e.Span.End > len(src) {
			return nil, fmt.Errorf("edit [%d,%d) overlaps a previous edit or lies outside the source", e.Span.Start, e.Span.End)
		}
		out.Write(src[pos:e.Span.Start])
		out.WriteString(e.Text)
		pos = e.Span.End
	}
	out.Write(src[pos:])
	return out.Bytes(), nil
}

// StatementSpan widens the span of a statement being deleted to its whole
// line, line break included, when nothing else shares the line. Otherwise
// only trailing blanks are added, so a comment after the statement stays
// where it was.
func StatementSpan(src []byte, span ast.Span) ast.Span {
	start, end := span.Start, span.End
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	lineStart := start
	for lineStart > 0 && (src[lineStart-1] == ' ' || src[lineStart-1] == '\t') {
		lineStart--
	}
	if lineStart > 0 && src[lineStart-1] != '\n' {
		return ast.Span{Start: start, End: end}
	}

	switch {
	case end == len(src):
		return ast.Span{Start: lineStart, End: end}
	case src[end] == '\n':
		return ast.Span{Start: lineStart, End: end + 1}
	case src[end] == '\r' && end+1 < len(src) && src[end+1] == '\n':
		return ast.Span{Start: lineStart, End: end + 2}
	}
	return ast.Span{Start: start, End: end}
}

// LineEnding returns the line terminator src uses, "\n" by default.
func LineEnding(src []byte) string {
	if i := bytes.IndexByte(src, '\n'); i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// DefaultImport prints `import local from "path";`.
func DefaultImport(local, path string) string {
	return "import " + local + " from " + Quote(path) + ";"
}

// ExportSpecifier prints one export clause entry binding local under the
// exported name.
func ExportSpecifier(local, exported string) string {
	if local == exported {
		return local
	}
	return local + " as " + ModuleExportName(exported)
}

// ExportClause prints `export { a, b as c };` from printed specifiers.
func ExportClause(specifiers []string) string {
	return "export { " + strings.Join(specifiers, ", ") + " };"
}
