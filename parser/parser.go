package parser

// Parse builds the AST of a whole program from a token stream produced by
// Tokenize. The root is always a *BlockExpr.
func Parse(tokens []Token) (Node, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		var end Span
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1].Span.End
			end = Span{Start: last, End: last}
		}
		tokens = append(tokens, Token{Kind: TokenEOF, Span: end})
	}
	p := &parser{tokens: tokens}
	p.reset(0)

	p.skipNewlines()
	if p.curr.Kind == TokenEOF {
		return &BlockExpr{Posn: p.curr.Span}, nil
	}
	p.reset(0)

	block, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if p.curr.Kind != TokenEOF {
		return nil, p.errorf("Token cannot appear after previous tokens")
	}
	return block, nil
}

type parser struct {
	tokens []Token
	idx    int
	curr   Token

	// truncated is set once a trailing statement was dropped because the
	// input ended inside it. Errors raised afterwards are incomplete too.
	truncated bool
}

func (p *parser) advance() {
	p.reset(p.idx + 1)
}

// mark returns a checkpoint that reset can rewind to.
func (p *parser) mark() int {
	return p.idx
}

func (p *parser) reset(idx int) {
	if idx >= len(p.tokens) {
		idx = len(p.tokens) - 1
	}
	p.idx = idx
	p.curr = p.tokens[idx]
}

// prevEnd is the end of the last consumed token.
func (p *parser) prevEnd() Position {
	if p.idx == 0 {
		return p.curr.Span.Start
	}
	return p.tokens[p.idx-1].Span.End
}

func (p *parser) spanFrom(start Token) Span {
	return Span{Start: start.Span.Start, End: p.prevEnd()}
}

func (p *parser) skipNewlines() int {
	n := 0
	for p.curr.Kind == TokenNewline {
		p.advance()
		n++
	}
	return n
}

func (p *parser) errorf(format string, args ...interface{}) error {
	err := newError(InvalidSyntax, p.curr.Span, format, args...)
	if p.curr.Kind == TokenEOF || p.truncated {
		err.Incomplete = true
	}
	return err
}

// general replaces err with a broader expectation message, but only when
// nothing was consumed since start: a failure deeper inside a construct is
// more precise and wins.
func (p *parser) general(start int, err error, format string, args ...interface{}) error {
	if p.idx == start {
		return p.errorf(format, args...)
	}
	return err
}

func (p *parser) expectKeyword(word string) (Token, error) {
	if !p.curr.Keyword(word) {
		return Token{}, p.errorf("Expected '%s'", word)
	}
	tok := p.curr
	p.advance()
	return tok, nil
}

func (p *parser) expect(kind TokenKind, what string) (Token, error) {
	if p.curr.Kind != kind {
		return Token{}, p.errorf("Expected %s", what)
	}
	tok := p.curr
	p.advance()
	return tok, nil
}

func (p *parser) parseStatements() (*BlockExpr, error) {
	startTok := p.curr
	p.skipNewlines()

	first, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	stmts := []Node{first}
	for {
		if p.skipNewlines() == 0 {
			break
		}
		checkpoint := p.mark()
		stmt, err := p.parseStatement()
		if err != nil {
			if IsIncomplete(err) {
				p.truncated = true
			}
			p.reset(checkpoint)
			break
		}
		stmts = append(stmts, stmt)
	}
	return &BlockExpr{
		Stmts: stmts,
		Posn:  Span{Start: startTok.Span.Start, End: stmts[len(stmts)-1].Pos().End},
	}, nil
}

func (p *parser) parseStatement() (Node, error) {
	tok := p.curr
	switch {
	case tok.Keyword(KeywordReturn):
		p.advance()
		checkpoint := p.mark()
		result, err := p.parseExpr()
		if err != nil {
			p.reset(checkpoint)
			return &ReturnStmt{Posn: tok.Span}, nil
		}
		return &ReturnStmt{
			Result: result,
			Posn:   Cover(tok.Span, result.Pos()),
		}, nil
	case tok.Keyword(KeywordContinue):
		p.advance()
		return &ContinueStmt{Posn: tok.Span}, nil
	case tok.Keyword(KeywordBreak):
		p.advance()
		return &BreakStmt{Posn: tok.Span}, nil
	}

	start := p.mark()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, p.general(start, err,
			"Expected 'return', 'continue', 'break', 'var', 'if', 'for', 'while', 'func', int, float, identifier, '+', '-', '(', '[' or 'not'")
	}
	return expr, nil
}

func (p *parser) parseExpr() (Node, error) {
	if p.curr.Keyword(KeywordVar) {
		varTok := p.curr
		p.advance()
		nameTok, err := p.expect(TokenIdentifier, "identifier")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenEquals, "'='"); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &VarAssignExpr{
			Name:  nameTok.Value.(string),
			Value: value,
			Posn:  Cover(varTok.Span, value.Pos()),
		}, nil
	}

	start := p.mark()
	node, err := p.binaryOp(p.parseCompExpr, p.parseCompExpr, keywordOps(KeywordAnd, KeywordOr))
	if err != nil {
		return nil, p.general(start, err,
			"Expected 'var', 'if', 'for', 'while', 'func', int, float, identifier, '+', '-', '(', '[' or 'not'")
	}
	return node, nil
}

func (p *parser) parseCompExpr() (Node, error) {
	if p.curr.Keyword(KeywordNot) {
		opTok := p.curr
		p.advance()
		operand, err := p.parseCompExpr()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{
			Op:      opTok,
			Operand: operand,
			Posn:    Cover(opTok.Span, operand.Pos()),
		}, nil
	}

	start := p.mark()
	node, err := p.binaryOp(p.parseArithExpr, p.parseArithExpr,
		kindOps(TokenEE, TokenNE, TokenLT, TokenGT, TokenLTE, TokenGTE))
	if err != nil {
		return nil, p.general(start, err,
			"Expected int, float, identifier, '+', '-', '(', '[', 'if', 'for', 'while', 'func' or 'not'")
	}
	return node, nil
}

func (p *parser) parseArithExpr() (Node, error) {
	return p.binaryOp(p.parseTerm, p.parseTerm, kindOps(TokenPlus, TokenMinus))
}

func (p *parser) parseTerm() (Node, error) {
	return p.binaryOp(p.parseFactor, p.parseFactor, kindOps(TokenMultiply, TokenDivide))
}

func (p *parser) parseFactor() (Node, error) {
	if p.curr.Kind == TokenPlus || p.curr.Kind == TokenMinus {
		opTok := p.curr
		p.advance()
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{
			Op:      opTok,
			Operand: operand,
			Posn:    Cover(opTok.Span, operand.Pos()),
		}, nil
	}
	return p.parsePower()
}

func (p *parser) parsePower() (Node, error) {
	return p.binaryOp(p.parseCall, p.parseFactor, kindOps(TokenPow))
}

// operator matches a binary operator token either by kind or, for the
// logical operators, by keyword.
type operator struct {
	kind    TokenKind
	keyword string
}

func (o operator) matches(tok Token) bool {
	if o.keyword != "" {
		return tok.Keyword(o.keyword)
	}
	return tok.Kind == o.kind
}

func kindOps(kinds ...TokenKind) []operator {
	ops := make([]operator, len(kinds))
	for i, k := range kinds {
		ops[i] = operator{kind: k}
	}
	return ops
}

func keywordOps(words ...string) []operator {
	ops := make([]operator, len(words))
	for i, w := range words {
		ops[i] = operator{kind: TokenKeyword, keyword: w}
	}
	return ops
}

func matchesAny(ops []operator, tok Token) bool {
	for _, op := range ops {
		if op.matches(tok) {
			return true
		}
	}
	return false
}

// binaryOp folds left-associative chains: left (op right)*.
func (p *parser) binaryOp(left, right func() (Node, error), ops []operator) (Node, error) {
	lhs, err := left()
	if err != nil {
		return nil, err
	}
	for matchesAny(ops, p.curr) {
		opTok := p.curr
		p.advance()
		rhs, err := right()
		if err != nil {
			return nil, err
		}
		lhs = &BinaryExpr{
			Left:  lhs,
			Op:    opTok,
			Right: rhs,
			Posn:  Cover(lhs.Pos(), rhs.Pos()),
		}
	}
	return lhs, nil
}

func (p *parser) parseCall() (Node, error) {
	callee, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.curr.Kind != TokenLParen {
		return callee, nil
	}
	p.advance()

	var args []Node
	if p.curr.Kind == TokenRParen {
		p.advance()
	} else {
		start := p.mark()
		arg, err := p.parseExpr()
		if err != nil {
			return nil, p.general(start, err,
				"Expected ')', 'var', 'if', 'for', 'while', 'func', int, float, identifier, '+', '-', '(', '[' or 'not'")
		}
		args = append(args, arg)
		for p.curr.Kind == TokenComma {
			p.advance()
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if _, err := p.expect(TokenRParen, "',' or ')'"); err != nil {
			return nil, err
		}
	}
	return &CallExpr{
		Callee: callee,
		Args:   args,
		Posn:   Span{Start: callee.Pos().Start, End: p.prevEnd()},
	}, nil
}

func (p *parser) parseAtom() (Node, error) {
	tok := p.curr
	switch {
	case tok.Kind == TokenInt || tok.Kind == TokenFloat:
		p.advance()
		return &NumberExpr{Tok: tok, Posn: tok.Span}, nil
	case tok.Kind == TokenString:
		p.advance()
		return &StringExpr{Tok: tok, Posn: tok.Span}, nil
	case tok.Kind == TokenIdentifier:
		p.advance()
		return &VarAccessExpr{Name: tok.Value.(string), Posn: tok.Span}, nil
	case tok.Kind == TokenLParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenRParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case tok.Kind == TokenLSquare:
		return p.parseListExpr()
	case tok.Keyword(KeywordIf):
		return p.parseIfExpr()
	case tok.Keyword(KeywordFor):
		return p.parseForExpr()
	case tok.Keyword(KeywordWhile):
		return p.parseWhileExpr()
	case tok.Keyword(KeywordFunc):
		return p.parseFuncDef()
	}
	return nil, p.errorf("Expected int, float, identifier, '+', '-', '(', '[', 'if', 'for', 'while' or 'func'")
}

func (p *parser) parseListExpr() (Node, error) {
	startTok, err := p.expect(TokenLSquare, "'['")
	if err != nil {
		return nil, err
	}
	var elems []Node
	if p.curr.Kind == TokenRSquare {
		p.advance()
	} else {
		start := p.mark()
		elem, err := p.parseExpr()
		if err != nil {
			return nil, p.general(start, err,
				"Expected ']', 'var', 'if', 'for', 'while', 'func', int, float, identifier, '+', '-', '(', '[' or 'not'")
		}
		elems = append(elems, elem)
		for p.curr.Kind == TokenComma {
			p.advance()
			elem, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		if _, err := p.expect(TokenRSquare, "',' or ']'"); err != nil {
			return nil, err
		}
	}
	return &ListExpr{
		Elements: elems,
		Posn:     p.spanFrom(startTok),
	}, nil
}

func (p *parser) parseIfExpr() (Node, error) {
	startTok := p.curr
	cases, elseCase, err := p.parseIfCases(KeywordIf)
	if err != nil {
		return nil, err
	}
	return &IfExpr{
		Cases: cases,
		Else:  elseCase,
		Posn:  p.spanFrom(startTok),
	}, nil
}

// parseIfCases parses one `if`/`elseif` case and whatever continues it.
// elseif recurses into the same rule, else is terminal.
func (p *parser) parseIfCases(keyword string) ([]IfCase, *ElseCase, error) {
	if _, err := p.expectKeyword(keyword); err != nil {
		return nil, nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	if _, err := p.expectKeyword(KeywordThen); err != nil {
		return nil, nil, err
	}

	if p.curr.Kind == TokenNewline {
		p.advance()
		body, err := p.parseStatements()
		if err != nil {
			return nil, nil, err
		}
		cases := []IfCase{{Cond: cond, Body: body, Suppress: true}}
		if p.curr.Keyword(KeywordEnd) {
			p.advance()
			return cases, nil, nil
		}
		if !p.curr.Keyword(KeywordElseIf) && !p.curr.Keyword(KeywordElse) {
			return nil, nil, p.errorf("Expected 'end', 'elseif' or 'else'")
		}
		more, elseCase, err := p.parseIfTail()
		if err != nil {
			return nil, nil, err
		}
		return append(cases, more...), elseCase, nil
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, nil, err
	}
	cases := []IfCase{{Cond: cond, Body: body}}
	more, elseCase, err := p.parseIfTail()
	if err != nil {
		return nil, nil, err
	}
	return append(cases, more...), elseCase, nil
}

func (p *parser) parseIfTail() ([]IfCase, *ElseCase, error) {
	if p.curr.Keyword(KeywordElseIf) {
		return p.parseIfCases(KeywordElseIf)
	}
	if !p.curr.Keyword(KeywordElse) {
		return nil, nil, nil
	}
	p.advance()
	body, suppress, err := p.parseBody()
	if err != nil {
		return nil, nil, err
	}
	return nil, &ElseCase{Body: body, Suppress: suppress}, nil
}

// parseBody parses either a single statement or, after a newline, a
// statement block closed by `end`. suppress reports the block form.
func (p *parser) parseBody() (Node, bool, error) {
	if p.curr.Kind != TokenNewline {
		body, err := p.parseStatement()
		if err != nil {
			return nil, false, err
		}
		return body, false, nil
	}
	p.advance()
	body, err := p.parseStatements()
	if err != nil {
		return nil, false, err
	}
	if _, err := p.expectKeyword(KeywordEnd); err != nil {
		return nil, false, err
	}
	return body, true, nil
}

func (p *parser) parseForExpr() (Node, error) {
	startTok, err := p.expectKeyword(KeywordFor)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(TokenIdentifier, "identifier")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenEquals, "'='"); err != nil {
		return nil, err
	}
	from, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(KeywordTo); err != nil {
		return nil, err
	}
	to, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var step Node
	if p.curr.Keyword(KeywordStep) {
		p.advance()
		step, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expectKeyword(KeywordThen); err != nil {
		return nil, err
	}
	body, suppress, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &ForExpr{
		Var:      nameTok.Value.(string),
		Start:    from,
		End:      to,
		Step:     step,
		Body:     body,
		Suppress: suppress,
		Posn:     p.spanFrom(startTok),
	}, nil
}

func (p *parser) parseWhileExpr() (Node, error) {
	startTok, err := p.expectKeyword(KeywordWhile)
	if err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword(KeywordThen); err != nil {
		return nil, err
	}
	body, suppress, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &WhileExpr{
		Cond:     cond,
		Body:     body,
		Suppress: suppress,
		Posn:     p.spanFrom(startTok),
	}, nil
}

func (p *parser) parseFuncDef() (Node, error) {
	startTok, err := p.expectKeyword(KeywordFunc)
	if err != nil {
		return nil, err
	}
	var name string
	if p.curr.Kind == TokenIdentifier {
		name = p.curr.Value.(string)
		p.advance()
	}
	if _, err := p.expect(TokenLParen, "'('"); err != nil {
		return nil, err
	}
	params, err := p.parseParamNames()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(TokenArrow, "'->'"); err != nil {
		return nil, err
	}
	body, suppress, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &FuncExpr{
		Name:       name,
		Params:     params,
		Body:       body,
		AutoReturn: !suppress,
		Posn:       p.spanFrom(startTok),
	}, nil
}

// parseParamNames consumes a parameter list up to and including ')'.
func (p *parser) parseParamNames() ([]string, error) {
	var params []string
	if p.curr.Kind != TokenIdentifier {
		if _, err := p.expect(TokenRParen, "identifier or ')'"); err != nil {
			return nil, err
		}
		return params, nil
	}
	params = append(params, p.curr.Value.(string))
	p.advance()
	for p.curr.Kind == TokenComma {
		p.advance()
		tok, err := p.expect(TokenIdentifier, "identifier")
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Value.(string))
	}
	if _, err := p.expect(TokenRParen, "',' or ')'"); err != nil {
		return nil, err
	}
	return params, nil
}
