package parser

import (
	"fmt"
	"strings"
)

// Position is a cursor into a source file.
type Position struct {
	Index    int    // zero-based byte offset
	Line     int    // zero-based line number
	Column   int    // zero-based column number
	Filename string // name shown in diagnostics
	Text     string // full source text, kept for excerpts
}

// NewPosition returns the position of the first character of text.
func NewPosition(filename, text string) Position {
	return Position{
		Filename: filename,
		Text:     text,
	}
}

// Advance returns the position following a character c.
func (p Position) Advance(c byte) Position {
	p.Index++
	p.Column++
	if c == '\n' {
		p.Line++
		p.Column = 0
	}
	return p
}

// GoString renders the position as file:line:column in AST dumps.
func (p Position) GoString() string {
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line+1, p.Column+1)
}

// SourceLine returns the source line the position points into.
func (p Position) SourceLine() string {
	if p.Text == "" {
		return ""
	}
	idx := p.Index
	if idx > len(p.Text) {
		idx = len(p.Text)
	}
	if idx < 0 {
		idx = 0
	}
	start := strings.LastIndexByte(p.Text[:idx], '\n') + 1
	end := strings.IndexByte(p.Text[start:], '\n')
	if end < 0 {
		return p.Text[start:]
	}
	return p.Text[start : start+end]
}

// Span is the half-open source range [Start, End) of a token or node.
type Span struct {
	Start Position
	End   Position
}

// Cover returns the smallest span containing both a and b.
func Cover(a, b Span) Span {
	out := a
	if b.Start.Index < out.Start.Index {
		out.Start = b.Start
	}
	if b.End.Index > out.End.Index {
		out.End = b.End
	}
	return out
}
