package lsp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// JSON-RPC error codes used by the server.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInternalError  = -32603
)

// Config configures the LSP server.
type Config struct {
	// Name is the server name reported on initialize.
	Name    string
	Version string

	// Documents holds the open documents. Required for Serve.
	Documents *Documents

	// Linter provides diagnostics for documents
	Linter DiagnosticProvider

	// Completer provides completion items
	Completer CompletionProvider

	// HoverDocs provides hover documentation
	HoverDocs HoverProvider
}

// Server implements the LSP protocol.
type Server struct {
	config Config

	wmu sync.Mutex
	w   io.Writer
}

// NewServer creates a new LSP server with the given configuration.
func NewServer(config Config) *Server {
	if config.Documents == nil {
		config.Documents = NewDocuments()
	}
	return &Server{config: config}
}

// Name returns the server name.
func (s *Server) Name() string {
	return s.config.Name
}

// Diagnose runs diagnostics on the specified document.
func (s *Server) Diagnose(ctx context.Context, uri string) ([]Diagnostic, error) {
	if s.config.Linter == nil {
		return []Diagnostic{}, nil
	}
	return s.config.Linter.Diagnose(ctx, uri)
}

// Complete returns completion items at the specified position.
func (s *Server) Complete(ctx context.Context, uri string, pos Position) ([]CompletionItem, error) {
	if s.config.Completer == nil {
		return []CompletionItem{}, nil
	}
	return s.config.Completer.Complete(ctx, uri, pos)
}

// Hover returns hover information at the specified position.
func (s *Server) Hover(ctx context.Context, uri string, pos Position) (*Hover, error) {
	if s.config.HoverDocs == nil {
		return nil, nil
	}
	return s.config.HoverDocs.Hover(ctx, uri, pos)
}

// errExit ends Serve after the client's exit notification.
var errExit = errors.New("exit")

// Serve reads Content-Length framed requests from r and writes responses
// and notifications to w until the client exits, r ends or ctx is
// canceled.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.w = w
	reader := textproto.NewReader(bufio.NewReader(r))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := readMessage(reader)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.handle(ctx, body); err != nil {
			if err == errExit {
				return nil
			}
			return err
		}
	}
}

func readMessage(r *textproto.Reader) ([]byte, error) {
	header, err := r.ReadMIMEHeader()
	if err != nil {
		if err == io.EOF || (len(header) == 0 && errors.Is(err, io.ErrUnexpectedEOF)) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read message header: %w", err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(header.Get("Content-Length")))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("invalid Content-Length %q", header.Get("Content-Length"))
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(r.R, body); err != nil {
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}
	return body, nil
}

func (s *Server) handle(ctx context.Context, body []byte) error {
	if !gjson.ValidBytes(body) {
		return s.replyError(`null`, codeParseError, "Parse error")
	}
	msg := gjson.ParseBytes(body)
	method := msg.Get("method").String()
	id := msg.Get("id")
	params := msg.Get("params")

	switch method {
	case "initialize":
		return s.reply(id.Raw, map[string]any{
			"capabilities": map[string]any{
				"textDocumentSync":   1,
				"completionProvider": map[string]any{"triggerCharacters": []string{".", "{", ","}},
				"hoverProvider":      true,
			},
			"serverInfo": map[string]any{"name": s.config.Name, "version": s.config.Version},
		})
	case "shutdown":
		return s.reply(id.Raw, nil)
	case "exit":
		return errExit

	case "textDocument/didOpen":
		uri := params.Get("textDocument.uri").String()
		s.config.Documents.Open(uri, []byte(params.Get("textDocument.text").String()))
		return s.publish(ctx, uri)
	case "textDocument/didChange":
		uri := params.Get("textDocument.uri").String()
		changes := params.Get("contentChanges").Array()
		if len(changes) > 0 {
			s.config.Documents.Update(uri, []byte(changes[len(changes)-1].Get("text").String()))
		}
		return s.publish(ctx, uri)
	case "textDocument/didSave":
		return s.publish(ctx, params.Get("textDocument.uri").String())
	case "textDocument/didClose":
		uri := params.Get("textDocument.uri").String()
		s.config.Documents.Close(uri)
		return s.notify("textDocument/publishDiagnostics", map[string]any{"uri": uri, "diagnostics": []Diagnostic{}})

	case "textDocument/completion":
		items, err := s.Complete(ctx, params.Get("textDocument.uri").String(), position(params))
		if err != nil {
			return s.replyError(id.Raw, codeInternalError, err.Error())
		}
		return s.reply(id.Raw, map[string]any{"isIncomplete": false, "items": items})
	case "textDocument/hover":
		hover, err := s.Hover(ctx, params.Get("textDocument.uri").String(), position(params))
		if err != nil {
			return s.replyError(id.Raw, codeInternalError, err.Error())
		}
		if hover == nil {
			return s.reply(id.Raw, nil)
		}
		return s.reply(id.Raw, hover)
	}

	if !id.Exists() {
		return nil
	}
	return s.replyError(id.Raw, codeMethodNotFound, fmt.Sprintf("Method not found: %s", method))
}

func position(params gjson.Result) Position {
	return Position{
		Line:      int(params.Get("position.line").Int()),
		Character: int(params.Get("position.character").Int()),
	}
}

// publish sends the diagnostics of uri. Lint failures are reported as an
// empty set so stale diagnostics are cleared.
func (s *Server) publish(ctx context.Context, uri string) error {
	diags, err := s.Diagnose(ctx, uri)
	if err != nil {
		diags = []Diagnostic{}
	}
	return s.notify("textDocument/publishDiagnostics", map[string]any{"uri": uri, "diagnostics": diags})
}

func (s *Server) reply(idRaw string, result any) error {
	msg, err := sjson.SetRawBytes([]byte(`{"jsonrpc":"2.0"}`), "id", []byte(idRaw))
	if err != nil {
		return err
	}
	if result == nil {
		msg, err = sjson.SetRawBytes(msg, "result", []byte("null"))
	} else {
		msg, err = sjson.SetBytes(msg, "result", result)
	}
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return s.write(msg)
}

func (s *Server) replyError(idRaw string, code int, message string) error {
	if idRaw == "" {
		idRaw = "null"
	}
	msg, err := sjson.SetRawBytes([]byte(`{"jsonrpc":"2.0"}`), "id", []byte(idRaw))
	if err == nil {
		msg, err = sjson.SetBytes(msg, "error.code", code)
	}
	if err == nil {
		msg, err = sjson.SetBytes(msg, "error.message", message)
	}
	if err != nil {
		return fmt.Errorf("failed to encode error: %w", err)
	}
	return s.write(msg)
}

func (s *Server) notify(method string, params any) error {
	msg, err := sjson.SetBytes([]byte(`{"jsonrpc":"2.0"}`), "method", method)
	if err == nil {
		msg, err = sjson.SetBytes(msg, "params", params)
	}
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	return s.write(msg)
}

func (s *Server) write(msg []byte) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if _, err := fmt.Fprintf(s.w, "Content-Length: %d\r\n\r\n%s", len(msg), msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}
