package parser

import (
	"errors"
	"strings"
	"testing"
)

func TestParseStringProducesBlock(t *testing.T) {
	src := `
var answer = 41
answer + 1
`
	node, err := ParseString("<test>", src)
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	block, ok := node.(*BlockExpr)
	if !ok {
		t.Fatalf("expected *BlockExpr, got %T", node)
	}
	if len(block.Stmts) != 2 {
		t.Fatalf("expected two statements, got %d", len(block.Stmts))
	}
	assign, ok := block.Stmts[0].(*VarAssignExpr)
	if !ok || assign.Name != "answer" {
		t.Fatalf("expected assignment to answer, got %#v", block.Stmts[0])
	}
	num, ok := assign.Value.(*NumberExpr)
	if !ok || !num.Tok.Matches(TokenInt, int64(41)) {
		t.Fatalf("expected initializer 41, got %#v", assign.Value)
	}
}

func TestParseStringPropagatesLexerErrors(t *testing.T) {
	_, err := ParseString("<test>", "var a = $")
	var perr *Error
	if !errors.As(err, &perr) || perr.Kind != IllegalCharacter {
		t.Fatalf("expected lexer error to reach the caller, got %v", err)
	}
}

func TestParseStringPropagatesSyntaxErrors(t *testing.T) {
	if _, err := ParseString("<test>", "var = 1"); err == nil || !strings.Contains(err.Error(), "Expected identifier") {
		t.Fatalf("expected syntax error for malformed var declaration, got %v", err)
	}
}

func TestParseWithoutTrailingEOF(t *testing.T) {
	tokens, err := Tokenize("<test>", "1 + 2")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	node, err := Parse(tokens[:len(tokens)-1])
	if err != nil {
		t.Fatalf("Parse without EOF: %v", err)
	}
	if n := len(node.(*BlockExpr).Stmts); n != 1 {
		t.Fatalf("expected one statement, got %d", n)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestParseReaderPropagatesReadErrors(t *testing.T) {
	_, err := ParseReader("script.hash", failingReader{})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected read error, got %v", err)
	}
	if !strings.Contains(err.Error(), "script.hash") {
		t.Fatalf("expected filename in read error, got %v", err)
	}
}

func TestParseReaderParsesSource(t *testing.T) {
	node, err := ParseReader("<reader>", strings.NewReader("output(\"hi\")\n"))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	block := node.(*BlockExpr)
	if _, ok := block.Stmts[0].(*CallExpr); !ok {
		t.Fatalf("expected call statement, got %T", block.Stmts[0])
	}
	if got := block.Stmts[0].Pos().Start.Filename; got != "<reader>" {
		t.Fatalf("expected filename <reader>, got %q", got)
	}
}
