package lsp

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lex00/kitsplit/ast"
	kerrors "github.com/lex00/kitsplit/errors"
	"github.com/lex00/kitsplit/lint"
	"github.com/lex00/kitsplit/rewrite"
)

// MemberLister enumerates the members of a library.
type MemberLister interface {
	Members(lib string) ([]string, error)
}

// Provider answers editor requests for one aggregate library.
type Provider struct {
	Lib      string
	Resolver rewrite.Resolver
	Members  MemberLister
	Rules    []lint.Rule
	Lint     *lint.Config
	Docs     *Documents
}

// Diagnose lints the document. A syntax error becomes a single diagnostic
// rather than a request failure.
func (p *Provider) Diagnose(_ context.Context, uri string) ([]Diagnostic, error) {
	src, err := p.Docs.Text(uri)
	if err != nil {
		return nil, err
	}

	issues, err := lint.LintBytes(src, uriName(uri), p.Rules, p.Lint)
	if err != nil {
		var kerr *kerrors.Error
		if errors.As(err, &kerr) && kerr.Code == kerrors.ErrParse {
			pos := toPosition(kerr.Line, kerr.Column)
			return []Diagnostic{{
				Range:    Range{Start: pos, End: pos},
				Severity: SeverityError,
				Code:     string(kerr.Code),
				Source:   "kitsplit",
				Message:  kerr.Message,
			}}, nil
		}
		return nil, err
	}

	diags := make([]Diagnostic, 0, len(issues))
	for _, issue := range issues {
		start := toPosition(issue.Line, issue.Column)
		end := start
		end.Character = wordEnd(lineAt(src, start.Line), start.Character)
		diags = append(diags, Diagnostic{
			Range:    Range{Start: start, End: end},
			Severity: severity(issue.Severity),
			Code:     issue.Rule,
			Source:   "kitsplit",
			Message:  issue.Message,
		})
	}
	return diags, nil
}

var (
	memberAccess = regexp.MustCompile(`([A-Za-z_$][\w$]*)\.([\w$]*)$`)
	openBrace    = regexp.MustCompile(`^\s*(import|export)\b[^}]*\{[^}]*?([\w$]*)$`)
)

// Complete offers library members after "kit." on a whole-library binding
// and inside the braces of an import or re-export from the library.
func (p *Provider) Complete(_ context.Context, uri string, pos Position) ([]CompletionItem, error) {
	if p.Members == nil {
		return []CompletionItem{}, nil
	}
	src, err := p.Docs.Text(uri)
	if err != nil {
		return nil, err
	}
	line := lineAt(src, pos.Line)
	prefix := line[:min(max(pos.Character, 0), len(line))]

	partial, ok := "", false
	if m := memberAccess.FindStringSubmatch(prefix); m != nil {
		if prog, err := p.Docs.Program(uri); err == nil && p.libraryLocals(prog)[m[1]] {
			partial, ok = m[2], true
		}
	}
	if !ok {
		if m := openBrace.FindStringSubmatch(prefix); m != nil && p.fromLibrary(line) {
			partial, ok = m[2], true
		}
	}
	if !ok {
		return []CompletionItem{}, nil
	}

	members, err := p.Members.Members(p.Lib)
	if err != nil {
		return nil, err
	}
	items := []CompletionItem{}
	for _, m := range members {
		if !strings.HasPrefix(m, partial) {
			continue
		}
		item := CompletionItem{Label: m, Kind: CompletionKindModule}
		if path, err := p.Resolver.Resolve(p.Lib, m); err == nil {
			item.Detail = path
		}
		items = append(items, item)
	}
	return items, nil
}

func (p *Provider) fromLibrary(line string) bool {
	return strings.Contains(line, `"`+p.Lib+`"`) || strings.Contains(line, `'`+p.Lib+`'`)
}

// libraryLocals returns the default and namespace import names bound to
// the whole library.
func (p *Provider) libraryLocals(prog *ast.Program) map[string]bool {
	locals := map[string]bool{}
	for _, imp := range ast.ImportsOf(prog, p.Lib) {
		for _, item := range imp.Items {
			if item.Kind != ast.ImportNamed {
				locals[item.Local] = true
			}
		}
	}
	return locals
}

// namedLocals maps named import locals to the member they import.
func (p *Provider) namedLocals(prog *ast.Program) map[string]string {
	named := map[string]string{}
	for _, imp := range ast.ImportsOf(prog, p.Lib) {
		for _, item := range imp.Items {
			if item.Kind == ast.ImportNamed {
				named[item.Local] = item.Imported
			}
		}
	}
	return named
}

// Hover shows the submodule a member reference resolves to.
func (p *Provider) Hover(_ context.Context, uri string, pos Position) (*Hover, error) {
	src, err := p.Docs.Text(uri)
	if err != nil {
		return nil, err
	}
	prog, err := p.Docs.Program(uri)
	if err != nil {
		return nil, nil
	}

	line := lineAt(src, pos.Line)
	start, end := wordStart(line, pos.Character), wordEnd(line, pos.Character)
	if start == end {
		return nil, nil
	}
	word := line[start:end]
	rng := &Range{
		Start: Position{Line: pos.Line, Character: start},
		End:   Position{Line: pos.Line, Character: end},
	}

	member := ""
	if m := memberAccess.FindStringSubmatch(line[:end]); m != nil && m[2] == word && p.libraryLocals(prog)[m[1]] {
		member = word
	} else if imported, ok := p.namedLocals(prog)[word]; ok {
		member = imported
	} else if p.libraryLocals(prog)[word] {
		return &Hover{
			Contents: markdown(fmt.Sprintf("`%s` binds the whole `%s` library; member accesses become submodule imports.", word, p.Lib)),
			Range:    rng,
		}, nil
	} else {
		return nil, nil
	}

	path, err := p.Resolver.Resolve(p.Lib, member)
	if err != nil {
		return &Hover{Contents: markdown(fmt.Sprintf("`%s` is not provided by `%s`.", member, p.Lib)), Range: rng}, nil
	}
	return &Hover{
		Contents: markdown(fmt.Sprintf("```js\nimport _%s from %q;\n```", member, path)),
		Range:    rng,
	}, nil
}

func markdown(s string) MarkupContent {
	return MarkupContent{Kind: "markdown", Value: s}
}

func severity(s lint.Severity) DiagnosticSeverity {
	switch s {
	case lint.SeverityError:
		return SeverityError
	case lint.SeverityWarning:
		return SeverityWarning
	default:
		return SeverityInformation
	}
}

// toPosition converts a 1-based source location.
func toPosition(line, column int) Position {
	return Position{Line: max(line-1, 0), Character: max(column-1, 0)}
}

// lineAt returns line n (0-based) of src without its terminator.
func lineAt(src []byte, n int) string {
	lines := strings.Split(string(src), "\n")
	if n < 0 || n >= len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[n], "\r")
}

func isWordByte(c byte) bool {
	return c == '_' || c == '$' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func wordStart(line string, i int) int {
	i = min(max(i, 0), len(line))
	for i > 0 && isWordByte(line[i-1]) {
		i--
	}
	return i
}

func wordEnd(line string, i int) int {
	i = min(max(i, 0), len(line))
	for i < len(line) && isWordByte(line[i]) {
		i++
	}
	return i
}
