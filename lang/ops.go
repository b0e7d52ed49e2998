package lang

import (
	"math"
	"strings"

	"github.com/sergev/hashlang/parser"
)

// Messages of runtime errors raised by operators and shared with built-ins.
const (
	ErrIllegalOperation = "Illegal Operation"
	ErrDivisionByZero   = "Division by zero"
	ErrRemoveOutOfRange = "Element at this index could not be removed from list because index is out of bounds"
	ErrGetOutOfRange    = "Element at this index could not be retrieved from list because index is out of bounds"
)

// illegal reports an operation v does not support with o.
func (v Value) illegal(o Value) error {
	return NewRuntimeError(parser.Cover(v.Span, o.Span), v.Ctx, ErrIllegalOperation)
}

// derived stamps the result of an operation with v's context.
func (v Value) derived(out Value) Value {
	out.Ctx = v.Ctx
	return out
}

type intOp func(a, b int64) int64
type floatOp func(a, b float64) float64

func arith(v, o Value, i intOp, f floatOp) Value {
	if v.IsInt() && o.IsInt() {
		return v.derived(IntValue(i(v.Int(), o.Int())))
	}
	return v.derived(FloatValue(f(v.Float(), o.Float())))
}

// Add implements +.
func (v Value) Add(o Value) (Value, error) {
	switch v.Type {
	case TypeNumber:
		if o.Type == TypeNumber {
			return arith(v, o,
				func(a, b int64) int64 { return a + b },
				func(a, b float64) float64 { return a + b }), nil
		}
	case TypeString:
		if o.Type == TypeString {
			return v.derived(StringValue(v.Str() + o.Str())), nil
		}
	case TypeList:
		l := v.List().clone()
		l.Append(o)
		return v.derived(ListValue(l)), nil
	}
	return Value{}, v.illegal(o)
}

// Sub implements -. On lists it removes the element at index o.
func (v Value) Sub(o Value) (Value, error) {
	switch v.Type {
	case TypeNumber:
		if o.Type == TypeNumber {
			return arith(v, o,
				func(a, b int64) int64 { return a - b },
				func(a, b float64) float64 { return a - b }), nil
		}
	case TypeList:
		if o.Type == TypeNumber {
			l := v.List().clone()
			if !o.IsInt() {
				return Value{}, NewRuntimeError(o.Span, v.Ctx, ErrRemoveOutOfRange)
			}
			if _, ok := l.Remove(o.Int()); !ok {
				return Value{}, NewRuntimeError(o.Span, v.Ctx, ErrRemoveOutOfRange)
			}
			return v.derived(ListValue(l)), nil
		}
	}
	return Value{}, v.illegal(o)
}

// Mul implements *. Strings repeat and lists concatenate.
func (v Value) Mul(o Value) (Value, error) {
	switch v.Type {
	case TypeNumber:
		if o.Type == TypeNumber {
			return arith(v, o,
				func(a, b int64) int64 { return a * b },
				func(a, b float64) float64 { return a * b }), nil
		}
	case TypeString:
		if o.IsInt() {
			s, n := v.Str(), o.Int()
			if n < 0 || s == "" {
				n = 0
			}
			if n > 0 && n > int64(math.MaxInt/len(s)) {
				return Value{}, v.illegal(o)
			}
			return v.derived(StringValue(strings.Repeat(s, int(n)))), nil
		}
	case TypeList:
		if o.Type == TypeList {
			l := v.List().clone()
			l.Extend(o.List())
			return v.derived(ListValue(l)), nil
		}
	}
	return Value{}, v.illegal(o)
}

// Div implements /. Numbers always divide to a float; on lists it returns
// the element at index o.
func (v Value) Div(o Value) (Value, error) {
	switch v.Type {
	case TypeNumber:
		if o.Type == TypeNumber {
			if o.Float() == 0 {
				return Value{}, NewRuntimeError(o.Span, v.Ctx, ErrDivisionByZero)
			}
			return v.derived(FloatValue(v.Float() / o.Float())), nil
		}
	case TypeList:
		if o.Type == TypeNumber {
			elem, ok := v.List().Get(o.Int())
			if !ok || !o.IsInt() {
				return Value{}, NewRuntimeError(o.Span, v.Ctx, ErrGetOutOfRange)
			}
			return elem, nil
		}
	}
	return Value{}, v.illegal(o)
}

// Pow implements ^. An integer raised to a non-negative integer stays an
// integer.
func (v Value) Pow(o Value) (Value, error) {
	if v.Type != TypeNumber || o.Type != TypeNumber {
		return Value{}, v.illegal(o)
	}
	if v.IsInt() && o.IsInt() && o.Int() >= 0 {
		return v.derived(IntValue(ipow(v.Int(), o.Int()))), nil
	}
	if v.Float() == 0 && o.Float() < 0 {
		return Value{}, NewRuntimeError(o.Span, v.Ctx, ErrDivisionByZero)
	}
	return v.derived(FloatValue(math.Pow(v.Float(), o.Float()))), nil
}

func ipow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

// compareNumbers returns -1, 0 or 1 for numeric operands.
func compareNumbers(a, b Value) int {
	if a.IsInt() && b.IsInt() {
		switch x, y := a.Int(), b.Int(); {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	switch x, y := a.Float(), b.Float(); {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

// Compare applies one of the comparison operator tokens. The result is the
// Number 1 or 0.
func (v Value) Compare(op parser.TokenKind, o Value) (Value, error) {
	if v.Type != TypeNumber || o.Type != TypeNumber {
		return Value{}, v.illegal(o)
	}
	c := compareNumbers(v, o)
	var result bool
	switch op {
	case parser.TokenEE:
		result = c == 0
	case parser.TokenNE:
		result = c != 0
	case parser.TokenLT:
		result = c < 0
	case parser.TokenGT:
		result = c > 0
	case parser.TokenLTE:
		result = c <= 0
	case parser.TokenGTE:
		result = c >= 0
	default:
		return Value{}, v.illegal(o)
	}
	return v.derived(BoolValue(result)), nil
}

// And implements the and keyword on Numbers.
func (v Value) And(o Value) (Value, error) {
	if v.Type != TypeNumber || o.Type != TypeNumber {
		return Value{}, v.illegal(o)
	}
	return v.derived(BoolValue(v.Truthy() && o.Truthy())), nil
}

// Or implements the or keyword on Numbers.
func (v Value) Or(o Value) (Value, error) {
	if v.Type != TypeNumber || o.Type != TypeNumber {
		return Value{}, v.illegal(o)
	}
	return v.derived(BoolValue(v.Truthy() || o.Truthy())), nil
}

// Not implements the not keyword: 0 becomes 1, anything else 0.
func (v Value) Not() (Value, error) {
	if v.Type != TypeNumber {
		return Value{}, v.illegal(v)
	}
	return v.derived(BoolValue(!v.Truthy())), nil
}

// Negate implements unary minus.
func (v Value) Negate() (Value, error) {
	if v.Type != TypeNumber {
		return Value{}, v.illegal(v)
	}
	if v.IsInt() {
		return v.derived(IntValue(-v.Int())), nil
	}
	return v.derived(FloatValue(-v.Float())), nil
}
