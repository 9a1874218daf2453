package lsp

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/lex00/kitsplit/lint"
	"github.com/lex00/kitsplit/modules"
)

type mockDiagnosticProvider struct {
	diagnostics []Diagnostic
	called      bool
}

func (m *mockDiagnosticProvider) Diagnose(ctx context.Context, uri string) ([]Diagnostic, error) {
	m.called = true
	return m.diagnostics, nil
}

func TestNewServer(t *testing.T) {
	server := NewServer(Config{Name: "kitsplit"})
	assert.NotNil(t, server)
	assert.Equal(t, "kitsplit", server.Name())
}

func TestServerWithDiagnostics(t *testing.T) {
	provider := &mockDiagnosticProvider{
		diagnostics: []Diagnostic{{Severity: SeverityError, Message: "test error"}},
	}
	server := NewServer(Config{Name: "kitsplit", Linter: provider})

	diags, err := server.Diagnose(context.Background(), "file:///a.js")
	require.NoError(t, err)
	assert.True(t, provider.called)
	require.Len(t, diags, 1)
	assert.Equal(t, "test error", diags[0].Message)
}

func TestServerNilProviders(t *testing.T) {
	server := NewServer(Config{Name: "kitsplit"})
	ctx := context.Background()

	diags, err := server.Diagnose(ctx, "file:///a.js")
	require.NoError(t, err)
	assert.Empty(t, diags)

	items, err := server.Complete(ctx, "file:///a.js", Position{})
	require.NoError(t, err)
	assert.Empty(t, items)

	hover, err := server.Hover(ctx, "file:///a.js", Position{})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func TestURIConversion(t *testing.T) {
	path, err := URIToPath("file:///tmp/app/a.js")
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/tmp/app/a.js"), path)

	_, err = URIToPath("untitled:Untitled-1")
	assert.Error(t, err)

	assert.Equal(t, "file:///tmp/app/a%20b.js", PathToURI("/tmp/app/a b.js"))
}

// newProvider lays out an installed "kit" with map and filter members.
func newProvider(t *testing.T) (*Provider, string) {
	t.Helper()
	root := t.TempDir()
	pkg := filepath.Join(root, "node_modules", "kit")
	require.NoError(t, os.MkdirAll(filepath.Join(pkg, "es", "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, "package.json"), []byte(`{"name": "kit"}`), 0644))
	for _, m := range []string{"map", "filter", "find"} {
		require.NoError(t, os.WriteFile(filepath.Join(pkg, "es", "src", m+".js"), []byte("export default 1;\n"), 0644))
	}

	resolver := modules.NewDefaultResolver(root, "", "")
	return &Provider{
		Lib:      "kit",
		Resolver: resolver,
		Members:  resolver.Registry(),
		Rules:    lint.DefaultRules("kit", resolver, resolver.Registry()),
		Docs:     NewDocuments(),
	}, root
}

func TestProviderDiagnose(t *testing.T) {
	p, root := newProvider(t)
	uri := PathToURI(filepath.Join(root, "a.js"))
	ctx := context.Background()

	p.Docs.Open(uri, []byte("import { map, nope } from \"kit\";\nmap();\n"))
	diags, err := p.Diagnose(ctx, uri)
	require.NoError(t, err)

	codes := map[string]Diagnostic{}
	for _, d := range diags {
		codes[d.Code] = d
		assert.Equal(t, "kitsplit", d.Source)
	}
	require.Contains(t, codes, "KIT001")
	require.Contains(t, codes, "KIT003")
	assert.Equal(t, SeverityWarning, codes["KIT001"].Severity)
	assert.Equal(t, SeverityError, codes["KIT003"].Severity)
	assert.Equal(t, 0, codes["KIT001"].Range.Start.Line)

	p.Docs.Update(uri, []byte("import { map } from \"kit\";\nmap(\n"))
	diags, err = p.Diagnose(ctx, uri)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "parse", diags[0].Code)
}

func TestProviderCompleteNamespace(t *testing.T) {
	p, root := newProvider(t)
	uri := PathToURI(filepath.Join(root, "a.js"))
	ctx := context.Background()

	p.Docs.Open(uri, []byte("import * as kit from \"kit\";\nkit.map(xs);\n"))
	// the edit leaves the text unparsable; the last good parse is used
	p.Docs.Update(uri, []byte("import * as kit from \"kit\";\nkit.f(\n"))

	items, err := p.Complete(ctx, uri, Position{Line: 1, Character: 5})
	require.NoError(t, err)
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	assert.Equal(t, []string{"filter", "find"}, labels)
	assert.Equal(t, "kit/es/src/filter", items[0].Detail)

	items, err = p.Complete(ctx, uri, Position{Line: 1, Character: 0})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestProviderCompleteImportBraces(t *testing.T) {
	p, root := newProvider(t)
	uri := PathToURI(filepath.Join(root, "a.js"))
	line := "import { map, fi } from \"kit\";"
	p.Docs.Open(uri, []byte(line+"\n"))

	items, err := p.Complete(context.Background(), uri, Position{Line: 0, Character: 16})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	p.Docs.Open(uri, []byte("import { fi } from \"other\";\n"))
	items, err = p.Complete(context.Background(), uri, Position{Line: 0, Character: 11})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestProviderHover(t *testing.T) {
	p, root := newProvider(t)
	uri := PathToURI(filepath.Join(root, "a.js"))
	ctx := context.Background()
	p.Docs.Open(uri, []byte("import kit, { filter as keep } from \"kit\";\nkit.map(keep(xs));\nkit.nope();\n"))

	hover, err := p.Hover(ctx, uri, Position{Line: 1, Character: 5})
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Contains(t, hover.Contents.Value, `import _map from "kit/es/src/map";`)
	assert.Equal(t, Range{Start: Position{Line: 1, Character: 4}, End: Position{Line: 1, Character: 7}}, *hover.Range)

	hover, err = p.Hover(ctx, uri, Position{Line: 1, Character: 9})
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Contains(t, hover.Contents.Value, "kit/es/src/filter")

	hover, err = p.Hover(ctx, uri, Position{Line: 1, Character: 1})
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Contains(t, hover.Contents.Value, "whole `kit` library")

	hover, err = p.Hover(ctx, uri, Position{Line: 2, Character: 6})
	require.NoError(t, err)
	require.NotNil(t, hover)
	assert.Contains(t, hover.Contents.Value, "`nope` is not provided by `kit`")

	hover, err = p.Hover(ctx, uri, Position{Line: 1, Character: 14})
	require.NoError(t, err)
	assert.Nil(t, hover)
}

func frame(body string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func readFrames(t *testing.T, out []byte) []gjson.Result {
	t.Helper()
	r := textproto.NewReader(bufio.NewReader(bytes.NewReader(out)))
	var msgs []gjson.Result
	for {
		body, err := readMessage(r)
		if err != nil {
			break
		}
		msgs = append(msgs, gjson.ParseBytes(body))
	}
	return msgs
}

func TestServe(t *testing.T) {
	p, root := newProvider(t)
	uri := PathToURI(filepath.Join(root, "a.js"))
	server := NewServer(Config{Name: "kitsplit", Documents: p.Docs, Linter: p, Completer: p, HoverDocs: p})

	open := fmt.Sprintf(`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":%q,"text":"import * as kit from \"kit\";\nkit.map();\n"}}}`, uri)
	var in bytes.Buffer
	in.WriteString(frame(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`))
	in.WriteString(frame(`{"jsonrpc":"2.0","method":"initialized","params":{}}`))
	in.WriteString(frame(open))
	in.WriteString(frame(fmt.Sprintf(`{"jsonrpc":"2.0","id":2,"method":"textDocument/completion","params":{"textDocument":{"uri":%q},"position":{"line":1,"character":5}}}`, uri)))
	in.WriteString(frame(fmt.Sprintf(`{"jsonrpc":"2.0","id":3,"method":"textDocument/hover","params":{"textDocument":{"uri":%q},"position":{"line":1,"character":0}}}`, uri)))
	in.WriteString(frame(`{"jsonrpc":"2.0","id":4,"method":"workspace/symbol","params":{}}`))
	in.WriteString(frame(`{"jsonrpc":"2.0","id":5,"method":"shutdown"}`))
	in.WriteString(frame(`{"jsonrpc":"2.0","method":"exit"}`))

	var out bytes.Buffer
	require.NoError(t, server.Serve(context.Background(), &in, &out))

	msgs := readFrames(t, out.Bytes())
	require.Len(t, msgs, 6)

	assert.Equal(t, int64(1), msgs[0].Get("id").Int())
	assert.True(t, msgs[0].Get("result.capabilities.hoverProvider").Bool())

	assert.Equal(t, "textDocument/publishDiagnostics", msgs[1].Get("method").String())
	assert.Equal(t, uri, msgs[1].Get("params.uri").String())
	assert.Equal(t, "KIT001", msgs[1].Get("params.diagnostics.0.code").String())

	assert.Equal(t, int64(2), msgs[2].Get("id").Int())
	assert.Equal(t, "map", msgs[2].Get("result.items.0.label").String())

	assert.Equal(t, int64(3), msgs[3].Get("id").Int())
	assert.Contains(t, msgs[3].Get("result.contents.value").String(), "whole `kit` library")

	assert.Equal(t, int64(-32601), msgs[4].Get("error.code").Int())

	assert.Equal(t, int64(5), msgs[5].Get("id").Int())
	assert.True(t, msgs[5].Get("result").Exists())
	assert.Equal(t, gjson.Null, msgs[5].Get("result").Type)
}

func TestServeEndOfInput(t *testing.T) {
	server := NewServer(Config{Name: "kitsplit"})
	var out bytes.Buffer
	require.NoError(t, server.Serve(context.Background(), bytes.NewReader(nil), &out))
	assert.Empty(t, out.String())
}
