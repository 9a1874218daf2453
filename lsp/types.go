// Package lsp provides a Language Server Protocol server that shows
// kitsplit lint results in editors, completes library members and
// explains which submodule a member resolves to.
//
// Providers implement DiagnosticProvider, CompletionProvider and
// HoverProvider; Server handles the protocol over stdio.
package lsp

import "context"

// Position represents a position in a text document (0-based line and character).
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Range represents a range in a text document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// DiagnosticSeverity represents the severity of a diagnostic.
type DiagnosticSeverity int

const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

// Diagnostic represents a diagnostic (error, warning, info, hint).
type Diagnostic struct {
	Range    Range              `json:"range"`
	Severity DiagnosticSeverity `json:"severity"`
	Code     string             `json:"code,omitempty"`
	Source   string             `json:"source,omitempty"`
	Message  string             `json:"message"`
}

// CompletionItemKind represents the kind of completion item.
type CompletionItemKind int

const (
	CompletionKindText     CompletionItemKind = 1
	CompletionKindFunction CompletionItemKind = 3
	CompletionKindModule   CompletionItemKind = 9
	CompletionKindValue    CompletionItemKind = 10
)

// CompletionItem represents a completion suggestion.
type CompletionItem struct {
	Label         string             `json:"label"`
	Kind          CompletionItemKind `json:"kind,omitempty"`
	Detail        string             `json:"detail,omitempty"`
	Documentation string             `json:"documentation,omitempty"`
	InsertText    string             `json:"insertText,omitempty"`
}

// MarkupContent is formatted hover text.
type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// Hover represents hover information.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// DiagnosticProvider provides diagnostics for a document.
type DiagnosticProvider interface {
	Diagnose(ctx context.Context, uri string) ([]Diagnostic, error)
}

// CompletionProvider provides completion items at a position.
type CompletionProvider interface {
	Complete(ctx context.Context, uri string, pos Position) ([]CompletionItem, error)
}

// HoverProvider provides hover information at a position.
type HoverProvider interface {
	Hover(ctx context.Context, uri string, pos Position) (*Hover, error)
}
