package lang

import (
	"math"
	"strconv"
	"strings"

	"github.com/sergev/hashlang/parser"
)

// ValueType enumerates the different runtime value categories.
type ValueType int

const (
	TypeNumber ValueType = iota
	TypeString
	TypeList
	TypeFunction
	TypeBuiltin
)

func (t ValueType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeFunction:
		return "function"
	case TypeBuiltin:
		return "built-in function"
	default:
		return "unknown"
	}
}

// Value represents any runtime object in the interpreter.
//
// Span and Ctx record where the value was last produced. They are used for
// diagnostics only and are replaced, never merged, each time a value crosses
// a node boundary.
type Value struct {
	Type    ValueType
	payload interface{}

	Span parser.Span
	Ctx  *Context
}

// List is the shared handle behind every List value. Values that hold the
// same *List observe each other's in-place mutations.
type List struct {
	Elements []Value
}

// NewList returns a list handle owning elems.
func NewList(elems ...Value) *List {
	return &List{Elements: elems}
}

// Len reports the number of elements.
func (l *List) Len() int {
	return len(l.Elements)
}

// Append adds v at the end of the list in place.
func (l *List) Append(v Value) {
	l.Elements = append(l.Elements, v)
}

// Extend appends every element of other in place.
func (l *List) Extend(other *List) {
	l.Elements = append(l.Elements, other.Elements...)
}

// clone returns a new handle over a copy of the element slice. Elements
// themselves are not copied.
func (l *List) clone() *List {
	elems := make([]Value, len(l.Elements), len(l.Elements)+1)
	copy(elems, l.Elements)
	return &List{Elements: elems}
}

// index resolves a possibly negative index against the list length.
func (l *List) index(i int64) (int, bool) {
	n := int64(len(l.Elements))
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, false
	}
	return int(i), true
}

// Get returns the element at i. Negative indices count from the end.
func (l *List) Get(i int64) (Value, bool) {
	idx, ok := l.index(i)
	if !ok {
		return Value{}, false
	}
	return l.Elements[idx], true
}

// Remove deletes the element at i in place and returns it. Negative indices
// count from the end.
func (l *List) Remove(i int64) (Value, bool) {
	idx, ok := l.index(i)
	if !ok {
		return Value{}, false
	}
	v := l.Elements[idx]
	l.Elements = append(l.Elements[:idx], l.Elements[idx+1:]...)
	return v, true
}

// Function is a user-defined function. Env is the environment the function
// was defined in; calls run in a child of it.
type Function struct {
	Name       string
	Params     []string
	Body       parser.Node
	AutoReturn bool
	Env        *Env
}

// NativeFunc implements a built-in function. Arguments are bound by name in
// call.Ctx.Env.
type NativeFunc func(ev *Evaluator, call *NativeCall) (Value, error)

// Builtin is a function implemented in Go with a fixed parameter list.
type Builtin struct {
	Name   string
	Params []string
	Fn     NativeFunc
}

// AnonymousName is the display name of functions defined without a name.
const AnonymousName = "<anonymous>"

// Null is the language level null. It is the same value as false.
var Null = IntValue(0)

// IntValue constructs an integer Number.
func IntValue(i int64) Value {
	return Value{Type: TypeNumber, payload: i}
}

// FloatValue constructs a floating point Number.
func FloatValue(f float64) Value {
	return Value{Type: TypeNumber, payload: f}
}

// BoolValue returns 1 for true and 0 for false.
func BoolValue(b bool) Value {
	if b {
		return IntValue(1)
	}
	return IntValue(0)
}

// StringValue constructs a String value.
func StringValue(s string) Value {
	return Value{Type: TypeString, payload: s}
}

// ListValue wraps a list handle.
func ListValue(l *List) Value {
	if l == nil {
		l = NewList()
	}
	return Value{Type: TypeList, payload: l}
}

// FunctionValue wraps a user-defined function.
func FunctionValue(fn *Function) Value {
	return Value{Type: TypeFunction, payload: fn}
}

// BuiltinValue wraps a native function.
func BuiltinValue(name string, params []string, fn NativeFunc) Value {
	return Value{
		Type:    TypeBuiltin,
		payload: &Builtin{Name: name, Params: params, Fn: fn},
	}
}

// IsInt reports whether v is a Number with an integer payload.
func (v Value) IsInt() bool {
	_, ok := v.payload.(int64)
	return v.Type == TypeNumber && ok
}

func (v Value) Int() int64 {
	switch n := v.payload.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

func (v Value) Float() float64 {
	switch n := v.payload.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func (v Value) Str() string {
	if s, ok := v.payload.(string); ok {
		return s
	}
	return ""
}

func (v Value) List() *List {
	if l, ok := v.payload.(*List); ok {
		return l
	}
	return nil
}

func (v Value) Function() *Function {
	if f, ok := v.payload.(*Function); ok {
		return f
	}
	return nil
}

func (v Value) Builtin() *Builtin {
	if b, ok := v.payload.(*Builtin); ok {
		return b
	}
	return nil
}

// IsCallable reports whether v is a user or built-in function.
func (v Value) IsCallable() bool {
	return v.Type == TypeFunction || v.Type == TypeBuiltin
}

// Copy returns a clone of v detached from its position and context. List
// values keep sharing their handle.
func (v Value) Copy() Value {
	return Value{Type: v.Type, payload: v.payload}
}

// At returns a copy of v stamped with span and ctx.
func (v Value) At(span parser.Span, ctx *Context) Value {
	out := v.Copy()
	out.Span = span
	out.Ctx = ctx
	return out
}

// Truthy reports the truthiness used by conditions and logical operators.
func (v Value) Truthy() bool {
	switch v.Type {
	case TypeNumber:
		return v.Float() != 0
	case TypeString:
		return v.Str() != ""
	case TypeList:
		return v.List().Len() > 0
	default:
		return true
	}
}

// Equal reports structural equality. Lists compare element-wise and
// functions by identity.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case TypeNumber:
		if v.IsInt() && o.IsInt() {
			return v.Int() == o.Int()
		}
		return v.Float() == o.Float()
	case TypeString:
		return v.Str() == o.Str()
	case TypeList:
		a, b := v.List(), o.List()
		if a.Len() != b.Len() {
			return false
		}
		for i := range a.Elements {
			if !a.Elements[i].Equal(b.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return v.payload == o.payload
	}
}

// String returns the representation printed by the REPL. Strings are
// quoted.
func (v Value) String() string {
	switch v.Type {
	case TypeString:
		return `"` + v.Str() + `"`
	case TypeList:
		return "[" + v.Display() + "]"
	default:
		return v.Display()
	}
}

// Display returns the form written by output and echo. Strings are raw and
// lists are their comma separated elements.
func (v Value) Display() string {
	switch v.Type {
	case TypeNumber:
		if v.IsInt() {
			return strconv.FormatInt(v.Int(), 10)
		}
		return formatFloat(v.Float())
	case TypeString:
		return v.Str()
	case TypeList:
		parts := make([]string, len(v.List().Elements))
		for i, elem := range v.List().Elements {
			parts[i] = elem.Display()
		}
		return strings.Join(parts, ", ")
	case TypeFunction:
		return "<function " + v.Function().Name + ">"
	case TypeBuiltin:
		return "<built-in function " + v.Builtin().Name + ">"
	default:
		return "<unknown>"
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case f == math.Trunc(f) && math.Abs(f) < 1e16:
		return strconv.FormatFloat(f, 'f', -1, 64) + ".0"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
