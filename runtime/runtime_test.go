package runtime

import (
	"bytes"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	"github.com/sergev/hashlang/lang"
	"github.com/sergev/hashlang/parser"
)

// memHost serves scripts from memory and console I/O from buffers.
type memHost struct {
	*Console
	files map[string]string
}

func (h *memHost) ReadFile(path string) ([]byte, error) {
	src, ok := h.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(src), nil
}

func newTestInterpreter(input string, files map[string]string) (*Interpreter, *bytes.Buffer) {
	var out bytes.Buffer
	host := &memHost{
		Console: NewConsole(strings.NewReader(input), &out),
		files:   files,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(host, WithLogger(logger)), &out
}

func lastValue(t *testing.T, in *Interpreter, src string) lang.Value {
	t.Helper()
	val, err := in.Run("<test>", src)
	require.NoError(t, err)
	require.Equal(t, lang.TypeList, val.Type)
	elems := val.List().Elements
	require.NotEmpty(t, elems)
	return elems[len(elems)-1]
}

func runError(t *testing.T, in *Interpreter, src string) error {
	t.Helper()
	_, err := in.Run("<test>", src)
	require.Error(t, err)
	return err
}

func TestOutputWritesDisplayForm(t *testing.T) {
	in, out := newTestInterpreter("", nil)
	val := lastValue(t, in, `output("hi")
output(1 + 2)
output(7 / 2)
output([1, "a", [2]])`)
	require.True(t, val.Equal(lang.Null))
	require.Equal(t, "hi\n3\n3.5\n1, a, 2\n", out.String())
}

func TestEchoReturnsString(t *testing.T) {
	in, out := newTestInterpreter("", nil)
	val := lastValue(t, in, `echo([1, 2]) + "!"`)
	require.Equal(t, lang.TypeString, val.Type)
	require.Equal(t, "1, 2!", val.Str())
	require.Empty(t, out.String())
}

func TestGetline(t *testing.T) {
	in, _ := newTestInterpreter("first line\r\nsecond\n", nil)
	val := lastValue(t, in, "var a = getline()\nvar b = getline()\n[a, b]")
	require.Equal(t, "[first line, second]", val.String())

	err := runError(t, in, "getline()")
	require.Contains(t, err.Error(), "read input")
}

func TestGetnumReprompts(t *testing.T) {
	in, out := newTestInterpreter("abc\n 42 \n", nil)
	val := lastValue(t, in, "getnum() + 1")
	require.True(t, val.IsInt())
	require.Equal(t, int64(43), val.Int())
	require.Equal(t, "'abc' must be an integer. Try again!\n", out.String())
}

func TestClearWritesEscapeSequence(t *testing.T) {
	in, out := newTestInterpreter("", nil)
	lastValue(t, in, "clear()")
	require.Equal(t, "\x1b[2J\x1b[H", out.String())
}

func TestTypePredicates(t *testing.T) {
	in, _ := newTestInterpreter("", nil)
	val := lastValue(t, in, `func f() -> 1
var nums = [isnum(1), isnum(1.5), isnum("1")]
var strs = [isstr("s"), isstr(1)]
var lists = [islist([]), islist("[]")]
var funcs = [isfunc(f), isfunc(output), isfunc(func () -> 1), isfunc(1)]
nums * strs * lists * funcs`)
	require.Equal(t, "[1, 1, 0, 1, 0, 1, 0, 1, 1, 1, 0]", val.String())
}

func TestAppendMutatesSharedList(t *testing.T) {
	in, _ := newTestInterpreter("", nil)
	val := lastValue(t, in, `var a = [1, 2]
var b = a
append(b, 3)
length(a)`)
	require.Equal(t, int64(3), val.Int())

	a, ok := in.Globals().Get("a")
	require.True(t, ok)
	require.Equal(t, "[1, 2, 3]", a.String())
}

func TestPopAndExtend(t *testing.T) {
	in, _ := newTestInterpreter("", nil)
	val := lastValue(t, in, `var xs = [1, 2, 3, 4]
var last = pop(xs, -1)
var first = pop(xs, 0)
extend(xs, [9, 8])
[first, last] * xs`)
	require.Equal(t, "[1, 4, 2, 3, 9, 8]", val.String())
}

func TestListBuiltinErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`append(1, 2)`, "First argument must be list"},
		{`pop("x", 0)`, "First argument must be list"},
		{`pop([1], "0")`, "Second argument must be number"},
		{`pop([1], 1)`, lang.ErrRemoveOutOfRange},
		{`pop([1], 0.5)`, lang.ErrRemoveOutOfRange},
		{`extend(1, [])`, "First argument must be list"},
		{`extend([], 1)`, "Second argument must be list"},
		{`length("abc")`, "Argument must be list"},
		{`run(1)`, "Argument must be string"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			in, _ := newTestInterpreter("", nil)
			err := runError(t, in, tt.src)
			var rerr *lang.RuntimeError
			require.ErrorAs(t, err, &rerr)
			require.Equal(t, tt.want, rerr.Details)
		})
	}
}

func TestBuiltinDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		files map[string]string
	}{
		{
			name: "pop_out_of_range",
			src:  "var xs = [1]\npop(xs, 5)",
		},
		{
			name: "arity_in_argument",
			src:  "func greet(name) -> \"hi \" + name\n\noutput(greet(\"a\", \"b\"))",
		},
		{
			name:  "run_exec_failure",
			src:   `run("lib.hash")`,
			files: map[string]string{"lib.hash": "var a = 1\nq"},
		},
		{
			name: "run_load_failure",
			src:  `run("missing.hash")`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, _ := newTestInterpreter("", tt.files)
			err := runError(t, in, tt.src)
			golden.Assert(t, err.Error()+"\n", tt.name+".golden")
		})
	}
}

func TestRunUsesFreshGlobals(t *testing.T) {
	files := map[string]string{
		"lib.hash":  "var shared = 5\noutput(\"lib ran\")",
		"peek.hash": "output(secret)",
	}
	in, out := newTestInterpreter("", files)

	val := lastValue(t, in, `run("lib.hash")`)
	require.True(t, val.Equal(lang.Null))
	require.Equal(t, "lib ran\n", out.String())

	err := runError(t, in, "shared")
	require.Contains(t, err.Error(), "'shared' is not defined")

	err = runError(t, in, "var secret = 1\nrun(\"peek.hash\")")
	require.Contains(t, err.Error(), "Failed to finish executing script \"peek.hash\"")
	require.Contains(t, err.Error(), "'secret' is not defined")
}

func TestRunReportsSyntaxErrors(t *testing.T) {
	in, _ := newTestInterpreter("", map[string]string{"bad.hash": "var = 2"})
	err := runError(t, in, `run("bad.hash")`)
	require.Contains(t, err.Error(), "Failed to finish executing script \"bad.hash\"\nInvalid Syntax: Expected identifier\nFile bad.hash, line 1")
}

func TestRunFile(t *testing.T) {
	in, out := newTestInterpreter("", map[string]string{
		"main.hash": "var x = 20\noutput(x * 2)\nx + 1",
	})
	val, err := in.RunFile("main.hash")
	require.NoError(t, err)
	require.Equal(t, "[20, 0, 21]", val.String())
	require.Equal(t, "40\n", out.String())

	// RunFile does not touch the persistent globals.
	_, ok := in.Globals().Get("x")
	require.False(t, ok)

	_, err = in.RunFile("nope.hash")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestGlobalsPersistAcrossRuns(t *testing.T) {
	in, _ := newTestInterpreter("", nil)
	lastValue(t, in, "var counter = 1")
	lastValue(t, in, "var counter = counter + 1")
	val := lastValue(t, in, "counter")
	require.Equal(t, int64(2), val.Int())
	require.Same(t, in.Globals(), in.Evaluator().Global)
}

func TestNewGlobalEnvSharesBuiltins(t *testing.T) {
	in, _ := newTestInterpreter("", nil)
	a, b := in.NewGlobalEnv(), in.NewGlobalEnv()
	for _, name := range []string{"output", "echo", "getline", "getnum", "clear",
		"isnum", "isstr", "islist", "isfunc", "append", "pop", "extend", "length", "run",
		"null", "true", "false"} {
		va, ok := a.Get(name)
		require.True(t, ok, name)
		vb, ok := b.Get(name)
		require.True(t, ok, name)
		require.True(t, va.Equal(vb), name)
	}

	a.Set("x", lang.IntValue(1))
	_, ok := b.Get("x")
	require.False(t, ok)
}

func TestBuiltinDisplay(t *testing.T) {
	in, _ := newTestInterpreter("", nil)
	val := lastValue(t, in, "output")
	require.Equal(t, "<built-in function output>", val.String())
}

func TestRunParseErrorIsIncomplete(t *testing.T) {
	in, _ := newTestInterpreter("", nil)
	_, err := in.Run("<stdin>", "if 1 then\n")
	require.Error(t, err)
	require.True(t, parser.IsIncomplete(err))
}
