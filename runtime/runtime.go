package runtime

import (
	"log/slog"

	"github.com/sergev/hashlang/lang"
	"github.com/sergev/hashlang/parser"
)

// Interpreter runs hash programs against one persistent global environment.
// Built-ins reach the outside world only through its Host.
type Interpreter struct {
	host     Host
	log      *slog.Logger
	ev       *lang.Evaluator
	builtins []lang.Value
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for debug tracing of script execution.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		in.log = logger
	}
}

// New constructs an interpreter with the standard built-ins installed.
func New(host Host, opts ...Option) *Interpreter {
	in := &Interpreter{
		host: host,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.builtins = in.makeBuiltins()
	in.ev = &lang.Evaluator{Global: in.NewGlobalEnv()}
	return in
}

// NewGlobalEnv returns a fresh global environment holding the constants and
// the interpreter's built-in functions.
func (in *Interpreter) NewGlobalEnv() *lang.Env {
	env := lang.NewEnv(nil)
	lang.DefineConstants(env)
	for _, b := range in.builtins {
		env.Set(b.Builtin().Name, b)
	}
	return env
}

// Evaluator exposes the evaluator that owns the persistent global scope.
func (in *Interpreter) Evaluator() *lang.Evaluator {
	return in.ev
}

// Globals returns the persistent global environment.
func (in *Interpreter) Globals() *lang.Env {
	return in.ev.Global
}

// Run lexes, parses and evaluates src in the persistent global environment.
// The result of a program is the list of its statement values.
func (in *Interpreter) Run(filename, src string) (lang.Value, error) {
	return in.run(in.ev, filename, src)
}

// RunFile executes the script at path under a fresh global environment that
// shares the built-ins.
func (in *Interpreter) RunFile(path string) (lang.Value, error) {
	data, err := in.host.ReadFile(path)
	if err != nil {
		return lang.Value{}, err
	}
	return in.runIsolated(path, string(data))
}

func (in *Interpreter) runIsolated(filename, src string) (lang.Value, error) {
	return in.run(&lang.Evaluator{Global: in.NewGlobalEnv()}, filename, src)
}

func (in *Interpreter) run(ev *lang.Evaluator, filename, src string) (lang.Value, error) {
	node, err := parser.ParseString(filename, src)
	if err != nil {
		in.log.Debug("parse failed", "file", filename, "error", err)
		return lang.Value{}, err
	}
	if block, ok := node.(*parser.BlockExpr); ok {
		in.log.Debug("evaluating", "file", filename, "statements", len(block.Stmts))
	}
	val, err := ev.Run(node)
	if err != nil {
		in.log.Debug("evaluation failed", "file", filename)
		return lang.Value{}, err
	}
	return val, nil
}
