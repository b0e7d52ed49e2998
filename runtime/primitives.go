package runtime

import (
	"github.com/sergev/hashlang/lang"
)

type primitive struct {
	name   string
	params []string
	fn     lang.NativeFunc
}

func (in *Interpreter) primitives() []primitive {
	return []primitive{
		{"output", []string{"value"}, in.primOutput},
		{"echo", []string{"value"}, primEcho},
		{"getline", nil, in.primGetline},
		{"getnum", nil, in.primGetnum},
		{"clear", nil, in.primClear},

		{"isnum", []string{"value"}, isType(lang.TypeNumber)},
		{"isstr", []string{"value"}, isType(lang.TypeString)},
		{"islist", []string{"value"}, isType(lang.TypeList)},
		{"isfunc", []string{"value"}, primIsFunc},

		{"append", []string{"list", "value"}, primAppend},
		{"pop", []string{"list", "index"}, primPop},
		{"extend", []string{"listA", "listB"}, primExtend},
		{"length", []string{"list"}, primLength},

		{"run", []string{"fn"}, in.primRun},
	}
}

func (in *Interpreter) makeBuiltins() []lang.Value {
	prims := in.primitives()
	out := make([]lang.Value, len(prims))
	for i, p := range prims {
		out[i] = lang.BuiltinValue(p.name, p.params, p.fn)
	}
	return out
}

// hostError reports a failed host operation as a runtime error of call.
func hostError(call *lang.NativeCall, err error) error {
	return call.Errorf("%s", err.Error())
}

func (in *Interpreter) primOutput(_ *lang.Evaluator, call *lang.NativeCall) (lang.Value, error) {
	if err := in.host.WriteLine(call.Arg("value").Display()); err != nil {
		return lang.Value{}, hostError(call, err)
	}
	return lang.Null, nil
}

func primEcho(_ *lang.Evaluator, call *lang.NativeCall) (lang.Value, error) {
	return lang.StringValue(call.Arg("value").Display()), nil
}

func (in *Interpreter) primGetline(_ *lang.Evaluator, call *lang.NativeCall) (lang.Value, error) {
	line, err := in.host.ReadLine()
	if err != nil {
		return lang.Value{}, hostError(call, err)
	}
	return lang.StringValue(line), nil
}

func (in *Interpreter) primGetnum(_ *lang.Evaluator, call *lang.NativeCall) (lang.Value, error) {
	n, err := in.host.ReadInteger()
	if err != nil {
		return lang.Value{}, hostError(call, err)
	}
	return lang.IntValue(n), nil
}

func (in *Interpreter) primClear(_ *lang.Evaluator, call *lang.NativeCall) (lang.Value, error) {
	if err := in.host.ClearScreen(); err != nil {
		return lang.Value{}, hostError(call, err)
	}
	return lang.Null, nil
}

func isType(typ lang.ValueType) lang.NativeFunc {
	return func(_ *lang.Evaluator, call *lang.NativeCall) (lang.Value, error) {
		return lang.BoolValue(call.Arg("value").Type == typ), nil
	}
}

func primIsFunc(_ *lang.Evaluator, call *lang.NativeCall) (lang.Value, error) {
	return lang.BoolValue(call.Arg("value").IsCallable()), nil
}

func primAppend(_ *lang.Evaluator, call *lang.NativeCall) (lang.Value, error) {
	list := call.Arg("list")
	if list.Type != lang.TypeList {
		return lang.Value{}, call.Errorf("First argument must be list")
	}
	list.List().Append(call.Arg("value"))
	return lang.Null, nil
}

func primPop(_ *lang.Evaluator, call *lang.NativeCall) (lang.Value, error) {
	list, index := call.Arg("list"), call.Arg("index")
	if list.Type != lang.TypeList {
		return lang.Value{}, call.Errorf("First argument must be list")
	}
	if index.Type != lang.TypeNumber {
		return lang.Value{}, call.Errorf("Second argument must be number")
	}
	if !index.IsInt() {
		return lang.Value{}, call.Errorf(lang.ErrRemoveOutOfRange)
	}
	elem, ok := list.List().Remove(index.Int())
	if !ok {
		return lang.Value{}, call.Errorf(lang.ErrRemoveOutOfRange)
	}
	return elem, nil
}

func primExtend(_ *lang.Evaluator, call *lang.NativeCall) (lang.Value, error) {
	a, b := call.Arg("listA"), call.Arg("listB")
	if a.Type != lang.TypeList {
		return lang.Value{}, call.Errorf("First argument must be list")
	}
	if b.Type != lang.TypeList {
		return lang.Value{}, call.Errorf("Second argument must be list")
	}
	a.List().Extend(b.List())
	return lang.Null, nil
}

func primLength(_ *lang.Evaluator, call *lang.NativeCall) (lang.Value, error) {
	list := call.Arg("list")
	if list.Type != lang.TypeList {
		return lang.Value{}, call.Errorf("Argument must be list")
	}
	return lang.IntValue(int64(list.List().Len())), nil
}

// primRun executes another script under its own global scope.
func (in *Interpreter) primRun(_ *lang.Evaluator, call *lang.NativeCall) (lang.Value, error) {
	fn := call.Arg("fn")
	if fn.Type != lang.TypeString {
		return lang.Value{}, call.Errorf("Argument must be string")
	}
	path := fn.Str()

	data, err := in.host.ReadFile(path)
	if err != nil {
		return lang.Value{}, call.Wrap(err, "Failed to load script \"%s\"", path)
	}
	in.log.Debug("running script", "path", path)
	if _, err := in.runIsolated(path, string(data)); err != nil {
		return lang.Value{}, call.Wrap(err, "Failed to finish executing script \"%s\"", path)
	}
	return lang.Null, nil
}
