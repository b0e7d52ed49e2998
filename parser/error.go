package parser

import (
	"errors"
	"fmt"
)

// ErrorKind classifies front end failures.
type ErrorKind int

const (
	IllegalCharacter ErrorKind = iota
	ExpectedCharacter
	InvalidSyntax
)

func (k ErrorKind) String() string {
	switch k {
	case IllegalCharacter:
		return "Illegal Character"
	case ExpectedCharacter:
		return "Expected Character"
	case InvalidSyntax:
		return "Invalid Syntax"
	default:
		return "Error"
	}
}

// Error is a lexing or parsing failure anchored to a source span.
type Error struct {
	Kind    ErrorKind
	Details string
	Span    Span

	// Incomplete is set when the failure happened at end of input, so more
	// text could still turn the source into a valid program.
	Incomplete bool
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return Diagnose(e.Kind.String(), e.Details, e.Span.Start) + "\n" + e.Span.Start.SourceLine()
}

// Diagnose renders the header shared by every diagnostic: the error name,
// its details and the file/line it points at.
func Diagnose(name, details string, pos Position) string {
	return fmt.Sprintf("%s: %s\nFile %s, line %d", name, details, pos.Filename, pos.Line+1)
}

func newError(kind ErrorKind, span Span, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Details: fmt.Sprintf(format, args...),
		Span:    span,
	}
}

// IsIncomplete reports whether the supplied error represents incomplete input.
func IsIncomplete(err error) bool {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Incomplete
	}
	return false
}
