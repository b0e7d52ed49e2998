package parser

import (
	"fmt"
	"sort"
)

// TokenKind enumerates lexical categories recognised by the lexer.
type TokenKind int

const (
	TokenEOF TokenKind = iota

	TokenInt
	TokenFloat
	TokenString
	TokenIdentifier
	TokenKeyword

	TokenPlus     // +
	TokenMinus    // -
	TokenMultiply // *
	TokenDivide   // /
	TokenPow      // ^
	TokenEquals   // =
	TokenEE       // ==
	TokenNE       // !=
	TokenLT       // <
	TokenGT       // >
	TokenLTE      // <=
	TokenGTE      // >=
	TokenLParen   // (
	TokenRParen   // )
	TokenLSquare  // [
	TokenRSquare  // ]
	TokenComma    // ,
	TokenArrow    // ->
	TokenNewline
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenInt:
		return "INT"
	case TokenFloat:
		return "FLOAT"
	case TokenString:
		return "STRING"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenKeyword:
		return "KEYWORD"
	case TokenPlus:
		return "PLUS"
	case TokenMinus:
		return "MINUS"
	case TokenMultiply:
		return "MULTIPLY"
	case TokenDivide:
		return "DIVIDE"
	case TokenPow:
		return "POW"
	case TokenEquals:
		return "EQUALS"
	case TokenEE:
		return "EE"
	case TokenNE:
		return "NE"
	case TokenLT:
		return "LT"
	case TokenGT:
		return "GT"
	case TokenLTE:
		return "LTE"
	case TokenGTE:
		return "GTE"
	case TokenLParen:
		return "LPAREN"
	case TokenRParen:
		return "RPAREN"
	case TokenLSquare:
		return "LSQUARE"
	case TokenRSquare:
		return "RSQUARE"
	case TokenComma:
		return "COMMA"
	case TokenArrow:
		return "ARROW"
	case TokenNewline:
		return "NEWLINE"
	default:
		return "unknown"
	}
}

// Keywords reserved by the language.
const (
	KeywordVar      = "var"
	KeywordAnd      = "and"
	KeywordOr       = "or"
	KeywordNot      = "not"
	KeywordIf       = "if"
	KeywordElseIf   = "elseif"
	KeywordElse     = "else"
	KeywordThen     = "then"
	KeywordFor      = "for"
	KeywordTo       = "to"
	KeywordStep     = "step"
	KeywordWhile    = "while"
	KeywordFunc     = "func"
	KeywordEnd      = "end"
	KeywordReturn   = "return"
	KeywordContinue = "continue"
	KeywordBreak    = "break"
)

var keywords = map[string]bool{
	KeywordVar:      true,
	KeywordAnd:      true,
	KeywordOr:       true,
	KeywordNot:      true,
	KeywordIf:       true,
	KeywordElseIf:   true,
	KeywordElse:     true,
	KeywordThen:     true,
	KeywordFor:      true,
	KeywordTo:       true,
	KeywordStep:     true,
	KeywordWhile:    true,
	KeywordFunc:     true,
	KeywordEnd:      true,
	KeywordReturn:   true,
	KeywordContinue: true,
	KeywordBreak:    true,
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for word := range keywords {
		out = append(out, word)
	}
	sort.Strings(out)
	return out
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool {
	return keywords[word]
}

// Token is a single lexical unit produced by the lexer.
type Token struct {
	Kind  TokenKind
	Value interface{} // int64, float64 or string for literals, identifiers and keywords
	Span  Span
}

// Matches reports whether the token has the given kind and value.
func (t Token) Matches(kind TokenKind, value interface{}) bool {
	return t.Kind == kind && t.Value == value
}

// Keyword reports whether the token is the given keyword.
func (t Token) Keyword(word string) bool {
	return t.Matches(TokenKeyword, word)
}

func (t Token) String() string {
	if t.Value == nil {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s:%v", t.Kind, t.Value)
}
