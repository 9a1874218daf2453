package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lex00/kitsplit/ast"
	"github.com/lex00/kitsplit/parser"
)

// Documents holds the text of the documents open in the editor. Closed
// documents are read from disk.
type Documents struct {
	mu   sync.Mutex
	open map[string]*document
}

type document struct {
	text []byte
	// prog is the last successful parse; it survives edits that leave the
	// text unparsable, such as a half typed "kit.".
	prog *ast.Program
}

// NewDocuments returns an empty document store.
func NewDocuments() *Documents {
	return &Documents{open: make(map[string]*document)}
}

// Open records the editor's text for uri. Update is the same operation
// under the full sync mode the server announces.
func (d *Documents) Open(uri string, text []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, ok := d.open[uri]
	if !ok {
		doc = &document{}
		d.open[uri] = doc
	}
	doc.text = text
	if prog, err := parser.Parse(uriName(uri), text); err == nil {
		doc.prog = prog
	}
}

// Update replaces the text of uri.
func (d *Documents) Update(uri string, text []byte) {
	d.Open(uri, text)
}

// Close forgets uri.
func (d *Documents) Close(uri string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.open, uri)
}

// Text returns the current text of uri.
func (d *Documents) Text(uri string) ([]byte, error) {
	d.mu.Lock()
	doc, ok := d.open[uri]
	d.mu.Unlock()
	if ok {
		return doc.text, nil
	}

	path, err := URIToPath(uri)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Program returns the latest parse of uri that succeeded.
func (d *Documents) Program(uri string) (*ast.Program, error) {
	d.mu.Lock()
	doc, ok := d.open[uri]
	d.mu.Unlock()
	if ok {
		if doc.prog == nil {
			_, err := parser.Parse(uriName(uri), doc.text)
			return nil, err
		}
		return doc.prog, nil
	}

	path, err := URIToPath(uri)
	if err != nil {
		return nil, err
	}
	return parser.ParseFile(path)
}

// URIToPath converts a file:// URI to a local path.
func URIToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid document URI %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported document URI %q", uri)
	}
	return filepath.FromSlash(u.Path), nil
}

// PathToURI converts a local path to a file:// URI.
func PathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// uriName is the file name used in parse errors.
func uriName(uri string) string {
	if path, err := URIToPath(uri); err == nil {
		return path
	}
	return strings.TrimPrefix(uri, "file://")
}
