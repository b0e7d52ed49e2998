package lang

import (
	"fmt"
	"strings"

	"github.com/sergev/hashlang/parser"
)

// RuntimeError is raised while evaluating a program. Its context chain is
// rendered as a traceback.
type RuntimeError struct {
	Details string
	Span    parser.Span
	Ctx     *Context
}

// NewRuntimeError formats a runtime error anchored at span.
func NewRuntimeError(span parser.Span, ctx *Context, format string, args ...interface{}) *RuntimeError {
	details := format
	if len(args) > 0 {
		details = fmt.Sprintf(format, args...)
	}
	return &RuntimeError{Details: details, Span: span, Ctx: ctx}
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(parser.Diagnose("Runtime Error", e.Details, e.Span.Start))
	b.WriteString(e.Traceback())
	b.WriteString("\n")
	b.WriteString(e.Span.Start.SourceLine())
	return b.String()
}

// Traceback renders one line per context, innermost first.
func (e *RuntimeError) Traceback() string {
	var b strings.Builder
	pos := e.Span.Start
	for ctx := e.Ctx; ctx != nil; ctx = ctx.Parent {
		fmt.Fprintf(&b, "\nFile %s, line %d, in %s", pos.Filename, pos.Line+1, ctx.Name)
		if ctx.Entry != nil {
			pos = *ctx.Entry
		}
	}
	return b.String()
}
