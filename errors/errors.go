// Package errors defines the failure taxonomy of the kitsplit rewrite.
//
// Every failure is fatal for the compilation unit being processed. Callers
// match on the code with Is / errors.Is, or unwrap to *Error with errors.As
// to get at the library, member and location.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies a rewrite failure.
type ErrorCode string

const (
	// ErrConfiguration indicates the target library name is missing.
	ErrConfiguration ErrorCode = "config"
	// ErrUnknownMember indicates a name used from the library has no submodule.
	ErrUnknownMember ErrorCode = "unknown-member"
	// ErrUnsupportedPattern indicates a construct the rewrite refuses to handle,
	// such as a wildcard re-export of the library.
	ErrUnsupportedPattern ErrorCode = "unsupported-pattern"
	// ErrParse indicates the source file could not be parsed.
	ErrParse ErrorCode = "parse"
	// ErrLocate indicates the library installation could not be found or listed.
	ErrLocate ErrorCode = "locate"
)

// Error is a rewrite failure with optional library, member and source location.
type Error struct {
	Code    ErrorCode
	Message string
	Library string
	Member  string
	File    string
	Line    int
	Column  int
	Err     error
}

// Error formats the failure for display.
func (e *Error) Error() string {
	if e == nil {
		return "kitsplit <nil>"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))
	if e.File != "" {
		b.WriteString(" in " + e.File)
		if e.Line > 0 {
			b.WriteString(fmt.Sprintf(":%d:%d", e.Line, e.Column))
		}
	} else if e.Line > 0 {
		b.WriteString(fmt.Sprintf(" at line %d, column %d", e.Line, e.Column))
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code, so that
// errors.Is(err, &Error{Code: ErrUnknownMember}) matches any unknown member.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t != nil && t.Code == e.Code
}

// Configuration reports that no library name was configured.
func Configuration(msg string) *Error {
	return &Error{Code: ErrConfiguration, Message: msg}
}

// UnknownMember reports that member is not a submodule of library.
func UnknownMember(library, member string) *Error {
	return &Error{
		Code:    ErrUnknownMember,
		Message: fmt.Sprintf("method %q does not exist in %s; check the import statement", member, library),
		Library: library,
		Member:  member,
	}
}

// UnsupportedPattern reports a construct that cannot be rewritten soundly.
func UnsupportedPattern(library, msg string) *Error {
	return &Error{Code: ErrUnsupportedPattern, Message: msg, Library: library}
}

// Locate reports a failure to find or list the library installation.
func Locate(library string, err error) *Error {
	return &Error{
		Code:    ErrLocate,
		Message: fmt.Sprintf("cannot locate %s", library),
		Library: library,
		Err:     err,
	}
}

// Parse reports a syntax error at a source position.
func Parse(file string, line, column int, msg string) *Error {
	return &Error{Code: ErrParse, Message: msg, File: file, Line: line, Column: column}
}

// HasCode reports whether err wraps an *Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// WithFile attaches a file path to err when it is an *Error without one.
// Other errors are returned unchanged.
func WithFile(err error, file string) error {
	var e *Error
	if errors.As(err, &e) && e.File == "" {
		e.File = file
	}
	return err
}
