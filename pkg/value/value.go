package value

import (
	"errors"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

// ErrDivisionByZero is returned by Div when the divisor is zero.
var ErrDivisionByZero = errors.New("Division by zero")

// NumberKind tags which side of the Number union is live.
type NumberKind uint8

const (
	KindInt NumberKind = iota
	KindFloat
)

func (k NumberKind) String() string {
	if k == KindFloat {
		return "float"
	}
	return "int"
}

// Number is the language's only value type: an integer or a float.
// Operations between two integers stay integral (except division); any
// float operand promotes the result to float.
type Number struct {
	kind NumberKind
	i    int64
	f    float64
}

// Constructors

func Int(i int64) Number     { return Number{kind: KindInt, i: i} }
func Float(f float64) Number { return Number{kind: KindFloat, f: f} }

// Bool maps true to Int(1) and false to Int(0).
func Bool(b bool) Number {
	if b {
		return Int(1)
	}
	return Int(0)
}

// Type checks and accessors

func (n Number) Kind() NumberKind { return n.kind }
func (n Number) IsInt() bool      { return n.kind == KindInt }
func (n Number) IsFloat() bool    { return n.kind == KindFloat }

// AsInt returns the integer payload; floats are truncated toward zero.
func (n Number) AsInt() int64 {
	if n.kind == KindFloat {
		return int64(n.f)
	}
	return n.i
}

// AsFloat returns the value widened to float64.
func (n Number) AsFloat() float64 {
	if n.kind == KindFloat {
		return n.f
	}
	return float64(n.i)
}

// IsTrue reports whether the number is nonzero.
func (n Number) IsTrue() bool {
	if n.kind == KindFloat {
		return n.f != 0
	}
	return n.i != 0
}

// IsZero reports whether the number equals zero.
func (n Number) IsZero() bool { return !n.IsTrue() }

func bothInt(a, b Number) bool { return a.kind == KindInt && b.kind == KindInt }

// --- Arithmetic ---

// Integer results that do not fit in int64 are promoted to float, the same
// way the lexer treats out-of-range integer literals.

func (n Number) Add(o Number) Number {
	if bothInt(n, o) {
		if sum, ok := addInt(n.i, o.i); ok {
			return Int(sum)
		}
	}
	return Float(n.AsFloat() + o.AsFloat())
}

func (n Number) Sub(o Number) Number {
	if bothInt(n, o) {
		if diff, ok := subInt(n.i, o.i); ok {
			return Int(diff)
		}
	}
	return Float(n.AsFloat() - o.AsFloat())
}

func (n Number) Mul(o Number) Number {
	if bothInt(n, o) {
		if prod, ok := mulInt(n.i, o.i); ok {
			return Int(prod)
		}
	}
	return Float(n.AsFloat() * o.AsFloat())
}

// Div always produces a float. A zero divisor yields ErrDivisionByZero.
func (n Number) Div(o Number) (Number, error) {
	if o.IsZero() {
		return Number{}, ErrDivisionByZero
	}
	return Float(n.AsFloat() / o.AsFloat()), nil
}

// Pow raises n to the power o. Integer bases with non-negative integer
// exponents stay integral while the result fits; everything else goes
// through math.Pow.
func (n Number) Pow(o Number) Number {
	if bothInt(n, o) && o.i >= 0 {
		if p, ok := ipow(n.i, o.i); ok {
			return Int(p)
		}
	}
	return Float(math.Pow(n.AsFloat(), o.AsFloat()))
}

func addInt(a, b int64) (int64, bool) {
	s := a + b
	return s, (s > a) == (b > 0)
}

func subInt(a, b int64) (int64, bool) {
	d := a - b
	return d, (d < a) == (b > 0)
}

func mulInt(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	hi, lo := bits.Mul64(uabs(a), uabs(b))
	if hi != 0 {
		return 0, false
	}
	if (a < 0) != (b < 0) {
		if lo > 1<<63 {
			return 0, false
		}
		return -int64(lo), true
	}
	if lo > math.MaxInt64 {
		return 0, false
	}
	return int64(lo), true
}

func uabs(i int64) uint64 {
	if i < 0 {
		return uint64(-i)
	}
	return uint64(i)
}

// ipow is exponentiation by squaring; ok is false once the result
// overflows int64.
func ipow(base, exp int64) (int64, bool) {
	result := int64(1)
	for {
		if exp&1 == 1 {
			r, ok := mulInt(result, base)
			if !ok {
				return 0, false
			}
			result = r
		}
		exp >>= 1
		if exp == 0 {
			return result, true
		}
		b, ok := mulInt(base, base)
		if !ok {
			return 0, false
		}
		base = b
	}
}

// Neg is unary minus, defined as multiplication by Int(-1).
func (n Number) Neg() Number { return n.Mul(Int(-1)) }

// --- Comparison and logic (all yield Int 0/1) ---

func (n Number) compare(o Number) int {
	if bothInt(n, o) {
		switch {
		case n.i < o.i:
			return -1
		case n.i > o.i:
			return 1
		}
		return 0
	}
	a, b := n.AsFloat(), o.AsFloat()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	}
	return 2 // unordered (NaN)
}

func (n Number) Eq(o Number) Number  { return Bool(n.compare(o) == 0) }
func (n Number) Neq(o Number) Number { return Bool(n.compare(o) != 0) }
func (n Number) Lt(o Number) Number  { return Bool(n.compare(o) == -1) }
func (n Number) Gt(o Number) Number  { return Bool(n.compare(o) == 1) }
func (n Number) Lte(o Number) Number {
	c := n.compare(o)
	return Bool(c == -1 || c == 0)
}
func (n Number) Gte(o Number) Number {
	c := n.compare(o)
	return Bool(c == 1 || c == 0)
}

func (n Number) And(o Number) Number { return Bool(n.IsTrue() && o.IsTrue()) }
func (n Number) Or(o Number) Number  { return Bool(n.IsTrue() || o.IsTrue()) }

// Not maps nonzero to 0 and zero to 1.
func (n Number) Not() Number { return Bool(n.IsZero()) }

// String formats integers plainly and floats the way the REPL prints them:
// always with a fractional part or exponent ("2.0", "0.5", "1e+16").
func (n Number) String() string {
	if n.kind == KindInt {
		return strconv.FormatInt(n.i, 10)
	}
	return formatFloat(n.f)
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}
