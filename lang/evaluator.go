package lang

import (
	"fmt"

	"github.com/sergev/hashlang/parser"
)

// Evaluator walks an AST and executes it.
type Evaluator struct {
	Global *Env
}

// NewEvaluator constructs an evaluator rooted at a new global environment
// holding the null, true and false constants.
func NewEvaluator() *Evaluator {
	global := NewEnv(nil)
	DefineConstants(global)
	return &Evaluator{Global: global}
}

// DefineConstants binds the language constants in env.
func DefineConstants(env *Env) {
	env.Set("null", Null)
	env.Set("true", BoolValue(true))
	env.Set("false", BoolValue(false))
}

// Run evaluates a whole program in a fresh root context over the global
// environment. A top-level return yields its value; break and continue
// outside of a loop yield null.
func (ev *Evaluator) Run(node parser.Node) (Value, error) {
	ctx := NewRootContext(ev.Global)
	res := ev.Eval(node, ctx)
	switch res.Kind {
	case Failed:
		return Value{}, res.Err
	case Break, Continue:
		return Null.At(node.Pos(), ctx), nil
	}
	return res.Value, nil
}

// Eval evaluates node in ctx.
func (ev *Evaluator) Eval(node parser.Node, ctx *Context) Result {
	switch n := node.(type) {
	case *parser.NumberExpr:
		return ev.evalNumber(n, ctx)
	case *parser.StringExpr:
		return success(StringValue(n.Tok.Value.(string)).At(n.Posn, ctx))
	case *parser.ListExpr:
		return ev.evalList(n, ctx)
	case *parser.VarAccessExpr:
		return ev.evalVarAccess(n, ctx)
	case *parser.VarAssignExpr:
		return ev.evalVarAssign(n, ctx)
	case *parser.BinaryExpr:
		return ev.evalBinary(n, ctx)
	case *parser.UnaryExpr:
		return ev.evalUnary(n, ctx)
	case *parser.IfExpr:
		return ev.evalIf(n, ctx)
	case *parser.ForExpr:
		return ev.evalFor(n, ctx)
	case *parser.WhileExpr:
		return ev.evalWhile(n, ctx)
	case *parser.FuncExpr:
		return ev.evalFuncDef(n, ctx)
	case *parser.CallExpr:
		return ev.evalCall(n, ctx)
	case *parser.ReturnStmt:
		return ev.evalReturn(n, ctx)
	case *parser.ContinueStmt:
		return Result{Kind: Continue}
	case *parser.BreakStmt:
		return Result{Kind: Break}
	case *parser.BlockExpr:
		return ev.evalBlock(n, ctx)
	case nil:
		return success(Null)
	default:
		return failure(NewRuntimeError(node.Pos(), ctx, "unsupported node %T", node))
	}
}

func (ev *Evaluator) evalNumber(n *parser.NumberExpr, ctx *Context) Result {
	var v Value
	switch x := n.Tok.Value.(type) {
	case int64:
		v = IntValue(x)
	case float64:
		v = FloatValue(x)
	default:
		return failure(NewRuntimeError(n.Posn, ctx, "malformed number literal %v", n.Tok.Value))
	}
	return success(v.At(n.Posn, ctx))
}

// evalNodes evaluates nodes left to right, stopping at the first
// interruption.
func (ev *Evaluator) evalNodes(nodes []parser.Node, ctx *Context) ([]Value, Result) {
	values := make([]Value, 0, len(nodes))
	for _, node := range nodes {
		res := ev.Eval(node, ctx)
		if res.Interrupted() {
			return nil, res
		}
		values = append(values, res.Value)
	}
	return values, Result{}
}

func (ev *Evaluator) evalList(n *parser.ListExpr, ctx *Context) Result {
	elems, res := ev.evalNodes(n.Elements, ctx)
	if res.Interrupted() {
		return res
	}
	return success(ListValue(NewList(elems...)).At(n.Posn, ctx))
}

func (ev *Evaluator) evalBlock(n *parser.BlockExpr, ctx *Context) Result {
	values, res := ev.evalNodes(n.Stmts, ctx)
	if res.Interrupted() {
		return res
	}
	return success(ListValue(NewList(values...)).At(n.Posn, ctx))
}

func (ev *Evaluator) evalVarAccess(n *parser.VarAccessExpr, ctx *Context) Result {
	val, ok := ctx.Env.Get(n.Name)
	if !ok {
		return failure(NewRuntimeError(n.Posn, ctx, "'%s' is not defined", n.Name))
	}
	return success(val.At(n.Posn, ctx))
}

func (ev *Evaluator) evalVarAssign(n *parser.VarAssignExpr, ctx *Context) Result {
	res := ev.Eval(n.Value, ctx)
	if res.Interrupted() {
		return res
	}
	ctx.Env.Set(n.Name, res.Value)
	return res
}

func (ev *Evaluator) evalBinary(n *parser.BinaryExpr, ctx *Context) Result {
	left := ev.Eval(n.Left, ctx)
	if left.Interrupted() {
		return left
	}
	right := ev.Eval(n.Right, ctx)
	if right.Interrupted() {
		return right
	}
	l, r := left.Value, right.Value

	var (
		out Value
		err error
	)
	switch op := n.Op; {
	case op.Kind == parser.TokenPlus:
		out, err = l.Add(r)
	case op.Kind == parser.TokenMinus:
		out, err = l.Sub(r)
	case op.Kind == parser.TokenMultiply:
		out, err = l.Mul(r)
	case op.Kind == parser.TokenDivide:
		out, err = l.Div(r)
	case op.Kind == parser.TokenPow:
		out, err = l.Pow(r)
	case op.Keyword(parser.KeywordAnd):
		out, err = l.And(r)
	case op.Keyword(parser.KeywordOr):
		out, err = l.Or(r)
	default:
		out, err = l.Compare(op.Kind, r)
	}
	if err != nil {
		return failure(err)
	}
	return success(out.At(n.Posn, out.Ctx))
}

func (ev *Evaluator) evalUnary(n *parser.UnaryExpr, ctx *Context) Result {
	res := ev.Eval(n.Operand, ctx)
	if res.Interrupted() {
		return res
	}
	v := res.Value

	var (
		out Value
		err error
	)
	switch {
	case n.Op.Kind == parser.TokenMinus:
		out, err = v.Negate()
	case n.Op.Keyword(parser.KeywordNot):
		out, err = v.Not()
	case v.Type == TypeNumber:
		out = v
	default:
		err = v.illegal(v)
	}
	if err != nil {
		return failure(err)
	}
	return success(out.At(n.Posn, out.Ctx))
}

// branch returns the value of an evaluated body, or null for bodies in
// block form.
func branch(res Result, suppress bool, span parser.Span, ctx *Context) Result {
	if res.Interrupted() {
		return res
	}
	if suppress {
		return success(Null.At(span, ctx))
	}
	return res
}

func (ev *Evaluator) evalIf(n *parser.IfExpr, ctx *Context) Result {
	for _, c := range n.Cases {
		cond := ev.Eval(c.Cond, ctx)
		if cond.Interrupted() {
			return cond
		}
		if cond.Value.Truthy() {
			return branch(ev.Eval(c.Body, ctx), c.Suppress, n.Posn, ctx)
		}
	}
	if n.Else != nil {
		return branch(ev.Eval(n.Else.Body, ctx), n.Else.Suppress, n.Posn, ctx)
	}
	return success(Null.At(n.Posn, ctx))
}

// evalNumberOperand evaluates node and requires a Number.
func (ev *Evaluator) evalNumberOperand(node parser.Node, ctx *Context) Result {
	res := ev.Eval(node, ctx)
	if res.Interrupted() {
		return res
	}
	if res.Value.Type != TypeNumber {
		return failure(NewRuntimeError(node.Pos(), ctx, ErrIllegalOperation))
	}
	return res
}

// loopBody runs one iteration and reports whether the loop should go on.
// A non-nil Result means the loop must return it.
func (ev *Evaluator) loopBody(body parser.Node, ctx *Context, values *[]Value) (bool, *Result) {
	res := ev.Eval(body, ctx)
	switch res.Kind {
	case Continue:
		return true, nil
	case Break:
		return false, nil
	case Return, Failed:
		return false, &res
	}
	*values = append(*values, res.Value)
	return true, nil
}

func (ev *Evaluator) loopResult(values []Value, suppress bool, span parser.Span, ctx *Context) Result {
	if suppress {
		return success(Null.At(span, ctx))
	}
	return success(ListValue(NewList(values...)).At(span, ctx))
}

func (ev *Evaluator) evalFor(n *parser.ForExpr, ctx *Context) Result {
	start := ev.evalNumberOperand(n.Start, ctx)
	if start.Interrupted() {
		return start
	}
	end := ev.evalNumberOperand(n.End, ctx)
	if end.Interrupted() {
		return end
	}
	step := success(IntValue(1))
	if n.Step != nil {
		step = ev.evalNumberOperand(n.Step, ctx)
		if step.Interrupted() {
			return step
		}
	}

	i, limit, by := start.Value.Copy(), end.Value.Copy(), step.Value.Copy()
	ascending := by.Float() >= 0
	var values []Value
	for {
		c := compareNumbers(i, limit)
		if (ascending && c >= 0) || (!ascending && c <= 0) {
			break
		}
		ctx.Env.Set(n.Var, i)
		i, _ = i.Add(by)

		more, ret := ev.loopBody(n.Body, ctx, &values)
		if ret != nil {
			return *ret
		}
		if !more {
			break
		}
	}
	return ev.loopResult(values, n.Suppress, n.Posn, ctx)
}

func (ev *Evaluator) evalWhile(n *parser.WhileExpr, ctx *Context) Result {
	var values []Value
	for {
		cond := ev.Eval(n.Cond, ctx)
		if cond.Interrupted() {
			return cond
		}
		if !cond.Value.Truthy() {
			break
		}
		more, ret := ev.loopBody(n.Body, ctx, &values)
		if ret != nil {
			return *ret
		}
		if !more {
			break
		}
	}
	return ev.loopResult(values, n.Suppress, n.Posn, ctx)
}

func (ev *Evaluator) evalFuncDef(n *parser.FuncExpr, ctx *Context) Result {
	name := n.Name
	if name == "" {
		name = AnonymousName
	}
	fn := FunctionValue(&Function{
		Name:       name,
		Params:     n.Params,
		Body:       n.Body,
		AutoReturn: n.AutoReturn,
		Env:        ctx.Env,
	}).At(n.Posn, ctx)
	if n.Name != "" {
		ctx.Env.Set(n.Name, fn)
	}
	return success(fn)
}

func (ev *Evaluator) evalCall(n *parser.CallExpr, ctx *Context) Result {
	callee := ev.Eval(n.Callee, ctx)
	if callee.Interrupted() {
		return callee
	}
	fn := callee.Value.At(n.Posn, callee.Value.Ctx)

	args, res := ev.evalNodes(n.Args, ctx)
	if res.Interrupted() {
		return res
	}

	out := ev.Call(fn, args)
	if out.Interrupted() {
		return out
	}
	return success(out.Value.At(n.Posn, ctx))
}

func (ev *Evaluator) evalReturn(n *parser.ReturnStmt, ctx *Context) Result {
	if n.Result == nil {
		return Result{Kind: Return, Value: Null.At(n.Posn, ctx)}
	}
	res := ev.Eval(n.Result, ctx)
	if res.Interrupted() {
		return res
	}
	return Result{Kind: Return, Value: res.Value}
}

// Call invokes fn with already evaluated arguments. fn's span and context
// identify the call site.
func (ev *Evaluator) Call(fn Value, args []Value) Result {
	switch fn.Type {
	case TypeFunction:
		return ev.callFunction(fn, fn.Function(), args)
	case TypeBuiltin:
		return ev.callBuiltin(fn, fn.Builtin(), args)
	default:
		return failure(NewRuntimeError(fn.Span, fn.Ctx, ErrIllegalOperation))
	}
}

// bindArgs checks arity and binds each argument in the call context.
func bindArgs(fn Value, params []string, args []Value, exec *Context) error {
	switch {
	case len(args) > len(params):
		return NewRuntimeError(fn.Span, fn.Ctx, "%d too many args passed into %s", len(args)-len(params), fn)
	case len(args) < len(params):
		return NewRuntimeError(fn.Span, fn.Ctx, "%d too few args passed into %s", len(params)-len(args), fn)
	}
	for i, name := range params {
		arg := args[i]
		arg.Ctx = exec
		exec.Env.Set(name, arg)
	}
	return nil
}

func (ev *Evaluator) callFunction(callee Value, fn *Function, args []Value) Result {
	exec := ev.callContext(callee, fn.Name, NewEnv(fn.Env))
	if err := bindArgs(callee, fn.Params, args, exec); err != nil {
		return failure(err)
	}

	res := ev.Eval(fn.Body, exec)
	switch res.Kind {
	case Failed:
		return res
	case Return:
		return success(res.Value)
	case Normal:
		if fn.AutoReturn {
			return success(res.Value)
		}
	}
	return success(Null.At(callee.Span, exec))
}

func (ev *Evaluator) callBuiltin(callee Value, b *Builtin, args []Value) Result {
	exec := ev.callContext(callee, b.Name, NewEnv(nil))
	if err := bindArgs(callee, b.Params, args, exec); err != nil {
		return failure(err)
	}
	call := &NativeCall{Name: b.Name, Span: callee.Span, Ctx: exec}
	out, err := b.Fn(ev, call)
	if err != nil {
		return failure(err)
	}
	return success(out)
}

func (ev *Evaluator) callContext(callee Value, name string, env *Env) *Context {
	parent := callee.Ctx
	if parent == nil {
		parent = NewRootContext(ev.Global)
	}
	return parent.Child(name, callee.Span.Start, env)
}

// NativeCall describes one invocation of a built-in function.
type NativeCall struct {
	Name string
	Span parser.Span // the call expression
	Ctx  *Context    // the built-in's own context; arguments live in Ctx.Env
}

// Arg returns the argument bound to the parameter name.
func (c *NativeCall) Arg(name string) Value {
	v, _ := c.Ctx.Env.Get(name)
	return v
}

// Errorf builds a runtime error pointing at the call expression.
func (c *NativeCall) Errorf(format string, args ...interface{}) error {
	return NewRuntimeError(c.Span, c.Ctx, format, args...)
}

// Wrap reports err as a runtime error at the call expression, prefixed by a
// description of what failed.
func (c *NativeCall) Wrap(err error, format string, args ...interface{}) error {
	return NewRuntimeError(c.Span, c.Ctx, "%s\n%s", fmt.Sprintf(format, args...), err.Error())
}
