package runtime

import (
	"basic/pkg/errors"
	"basic/pkg/value"
)

// Value is a number stamped with the source range that produced it and the
// context it was produced in. Values are passed by value; re-stamping a copy
// never affects the binding it was read from.
type Value struct {
	Number  value.Number
	Start   errors.Position
	End     errors.Position
	Context *Context
}

// NewValue wraps n with no position or context.
func NewValue(n value.Number) Value {
	return Value{Number: n}
}

// SetPos returns v covering [start, end).
func (v Value) SetPos(start, end errors.Position) Value {
	v.Start = start
	v.End = end
	return v
}

// SetContext returns v attributed to ctx.
func (v Value) SetContext(ctx *Context) Value {
	v.Context = ctx
	return v
}

// Copy returns an identical Value.
func (v Value) Copy() Value {
	return v
}

// Span returns the source range of v.
func (v Value) Span() errors.Span {
	return errors.Span{Start: v.Start, End: v.End}
}

func (v Value) String() string {
	return v.Number.String()
}
