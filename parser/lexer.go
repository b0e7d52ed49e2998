package parser

import (
	"strconv"
	"strings"
)

type lexer struct {
	src  string
	pos  Position
	char byte // current character, 0 at end of input
	eof  bool
}

func newLexer(filename, src string) *lexer {
	lx := &lexer{
		src: src,
		pos: NewPosition(filename, src),
	}
	lx.load()
	return lx
}

func (lx *lexer) load() {
	if lx.pos.Index >= len(lx.src) {
		lx.char = 0
		lx.eof = true
		return
	}
	lx.char = lx.src[lx.pos.Index]
	lx.eof = false
}

func (lx *lexer) advance() {
	if lx.eof {
		return
	}
	lx.pos = lx.pos.Advance(lx.char)
	lx.load()
}

// Tokenize converts source text into tokens terminated by an EOF token.
// On failure no tokens are returned.
func Tokenize(filename, src string) ([]Token, error) {
	lx := newLexer(filename, src)
	tokens, err := lx.tokens()
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

func (lx *lexer) tokens() ([]Token, error) {
	var tokens []Token
	for !lx.eof {
		switch c := lx.char; {
		case c == ' ' || c == '\t' || c == '\r':
			lx.advance()
		case c == '\n':
			tokens = append(tokens, lx.single(TokenNewline))
		case isLetter(c):
			tokens = append(tokens, lx.scanIdentifier())
		case isDigit(c):
			tokens = append(tokens, lx.scanNumber())
		case c == '"':
			tok, err := lx.scanString()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case c == '+':
			tokens = append(tokens, lx.single(TokenPlus))
		case c == '*':
			tokens = append(tokens, lx.single(TokenMultiply))
		case c == '/':
			tokens = append(tokens, lx.single(TokenDivide))
		case c == '^':
			tokens = append(tokens, lx.single(TokenPow))
		case c == '(':
			tokens = append(tokens, lx.single(TokenLParen))
		case c == ')':
			tokens = append(tokens, lx.single(TokenRParen))
		case c == '[':
			tokens = append(tokens, lx.single(TokenLSquare))
		case c == ']':
			tokens = append(tokens, lx.single(TokenRSquare))
		case c == ',':
			tokens = append(tokens, lx.single(TokenComma))
		case c == '-':
			tokens = append(tokens, lx.pair('>', TokenMinus, TokenArrow))
		case c == '=':
			tokens = append(tokens, lx.pair('=', TokenEquals, TokenEE))
		case c == '<':
			tokens = append(tokens, lx.pair('=', TokenLT, TokenLTE))
		case c == '>':
			tokens = append(tokens, lx.pair('=', TokenGT, TokenGTE))
		case c == '!':
			tok, err := lx.scanNotEquals()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		default:
			start := lx.pos
			lx.advance()
			return nil, newError(IllegalCharacter, Span{Start: start, End: lx.pos}, "'%c'", c)
		}
	}
	tokens = append(tokens, Token{
		Kind: TokenEOF,
		Span: Span{Start: lx.pos, End: lx.pos},
	})
	return tokens, nil
}

// single consumes one character and returns a token of the given kind.
func (lx *lexer) single(kind TokenKind) Token {
	start := lx.pos
	lx.advance()
	return Token{Kind: kind, Span: Span{Start: start, End: lx.pos}}
}

// pair consumes one character and, when the next one is second, that one
// too. It returns alone or combined accordingly.
func (lx *lexer) pair(second byte, alone, combined TokenKind) Token {
	start := lx.pos
	lx.advance()
	kind := alone
	if !lx.eof && lx.char == second {
		lx.advance()
		kind = combined
	}
	return Token{Kind: kind, Span: Span{Start: start, End: lx.pos}}
}

func (lx *lexer) scanNotEquals() (Token, error) {
	start := lx.pos
	lx.advance()
	if !lx.eof && lx.char == '=' {
		lx.advance()
		return Token{Kind: TokenNE, Span: Span{Start: start, End: lx.pos}}, nil
	}
	lx.advance()
	return Token{}, newError(ExpectedCharacter, Span{Start: start, End: lx.pos}, "'=' (after '!')")
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (lx *lexer) scanIdentifier() Token {
	start := lx.pos
	var builder strings.Builder
	for !lx.eof && (isLetter(lx.char) || isDigit(lx.char) || lx.char == '_') {
		builder.WriteByte(lx.char)
		lx.advance()
	}
	word := builder.String()
	kind := TokenIdentifier
	if IsKeyword(word) {
		kind = TokenKeyword
	}
	return Token{
		Kind:  kind,
		Value: word,
		Span:  Span{Start: start, End: lx.pos},
	}
}

func (lx *lexer) scanNumber() Token {
	start := lx.pos
	var builder strings.Builder
	seenDot := false
	for !lx.eof && (isDigit(lx.char) || lx.char == '.') {
		if lx.char == '.' {
			if seenDot {
				break
			}
			seenDot = true
		}
		builder.WriteByte(lx.char)
		lx.advance()
	}
	span := Span{Start: start, End: lx.pos}
	lexeme := builder.String()
	if !seenDot {
		if i, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
			return Token{Kind: TokenInt, Value: i, Span: span}
		}
	}
	f, _ := strconv.ParseFloat(lexeme, 64)
	return Token{Kind: TokenFloat, Value: f, Span: span}
}

var escapeCharacters = map[byte]byte{
	'n': '\n',
	't': '\t',
}

func (lx *lexer) scanString() (Token, error) {
	start := lx.pos
	var builder strings.Builder
	escaped := false
	lx.advance()
	for !lx.eof && (lx.char != '"' || escaped) {
		if escaped {
			if repl, ok := escapeCharacters[lx.char]; ok {
				builder.WriteByte(repl)
			} else {
				builder.WriteByte(lx.char)
			}
			escaped = false
		} else if lx.char == '\\' {
			escaped = true
		} else {
			builder.WriteByte(lx.char)
		}
		lx.advance()
	}
	if lx.eof {
		err := newError(ExpectedCharacter, Span{Start: start, End: lx.pos}, "'\"'")
		err.Incomplete = true
		return Token{}, err
	}
	lx.advance()
	return Token{
		Kind:  TokenString,
		Value: builder.String(),
		Span:  Span{Start: start, End: lx.pos},
	}, nil
}
