package parser

// Node represents any AST node with a source span.
type Node interface {
	Pos() Span
	node()
}

// NumberExpr is an integer or floating literal.
type NumberExpr struct {
	Tok  Token
	Posn Span
}

func (e *NumberExpr) Pos() Span { return e.Posn }
func (*NumberExpr) node()       {}

// StringExpr is a double-quoted string literal.
type StringExpr struct {
	Tok  Token
	Posn Span
}

func (e *StringExpr) Pos() Span { return e.Posn }
func (*StringExpr) node()       {}

// ListExpr is a literal list [a, b, ...].
type ListExpr struct {
	Elements []Node
	Posn     Span
}

func (e *ListExpr) Pos() Span { return e.Posn }
func (*ListExpr) node()       {}

// VarAccessExpr refers to a variable or function name.
type VarAccessExpr struct {
	Name string
	Posn Span
}

func (e *VarAccessExpr) Pos() Span { return e.Posn }
func (*VarAccessExpr) node()       {}

// VarAssignExpr binds Name in the current scope.
type VarAssignExpr struct {
	Name  string
	Value Node
	Posn  Span
}

func (e *VarAssignExpr) Pos() Span { return e.Posn }
func (*VarAssignExpr) node()       {}

// BinaryExpr represents infix operator application. Op is either an
// operator token or an and/or keyword token.
type BinaryExpr struct {
	Left  Node
	Op    Token
	Right Node
	Posn  Span
}

func (e *BinaryExpr) Pos() Span { return e.Posn }
func (*BinaryExpr) node()       {}

// UnaryExpr represents prefix +, - or not.
type UnaryExpr struct {
	Op      Token
	Operand Node
	Posn    Span
}

func (e *UnaryExpr) Pos() Span { return e.Posn }
func (*UnaryExpr) node()       {}

// IfCase is one condition/body pair of an if chain. Suppress is set for
// multi-line bodies, which evaluate to null.
type IfCase struct {
	Cond     Node
	Body     Node
	Suppress bool
}

// ElseCase is the terminal branch of an if chain.
type ElseCase struct {
	Body     Node
	Suppress bool
}

// IfExpr evaluates the first case whose condition is truthy.
type IfExpr struct {
	Cases []IfCase
	Else  *ElseCase // may be nil
	Posn  Span
}

func (e *IfExpr) Pos() Span { return e.Posn }
func (*IfExpr) node()       {}

// ForExpr counts Var from Start towards End by Step.
type ForExpr struct {
	Var      string
	Start    Node
	End      Node
	Step     Node // may be nil
	Body     Node
	Suppress bool
	Posn     Span
}

func (e *ForExpr) Pos() Span { return e.Posn }
func (*ForExpr) node()       {}

// WhileExpr repeats while condition is truthy.
type WhileExpr struct {
	Cond     Node
	Body     Node
	Suppress bool
	Posn     Span
}

func (e *WhileExpr) Pos() Span { return e.Posn }
func (*WhileExpr) node()       {}

// FuncExpr defines a function, named or anonymous.
type FuncExpr struct {
	Name       string // empty for anonymous functions
	Params     []string
	Body       Node
	AutoReturn bool
	Posn       Span
}

func (e *FuncExpr) Pos() Span { return e.Posn }
func (*FuncExpr) node()       {}

// CallExpr invokes an expression with arguments.
type CallExpr struct {
	Callee Node
	Args   []Node
	Posn   Span
}

func (e *CallExpr) Pos() Span { return e.Posn }
func (*CallExpr) node()       {}

// ReturnStmt exits the current function, optionally with a value.
type ReturnStmt struct {
	Result Node // may be nil
	Posn   Span
}

func (s *ReturnStmt) Pos() Span { return s.Posn }
func (*ReturnStmt) node()       {}

// ContinueStmt skips to the next loop iteration.
type ContinueStmt struct {
	Posn Span
}

func (s *ContinueStmt) Pos() Span { return s.Posn }
func (*ContinueStmt) node()       {}

// BreakStmt leaves the innermost loop.
type BreakStmt struct {
	Posn Span
}

func (s *BreakStmt) Pos() Span { return s.Posn }
func (*BreakStmt) node()       {}

// BlockExpr is a newline-separated statement sequence. It evaluates to a
// list of its statements' values.
type BlockExpr struct {
	Stmts []Node
	Posn  Span
}

func (b *BlockExpr) Pos() Span { return b.Posn }
func (*BlockExpr) node()       {}
