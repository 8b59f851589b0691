package parser

import (
	"bytes"

	"basic/pkg/errors"
	"basic/pkg/lexer"
)

// --- Interfaces ---

// Node is implemented by the six AST node types below and nothing else;
// the unexported marker keeps the set closed so evaluators can switch over it.
type Node interface {
	Start() errors.Position
	End() errors.Position
	String() string // Representation for debugging and AST dumps
	node()
}

// --- Expression Nodes ---

// NumberLiteral is an INT or FLOAT token.
type NumberLiteral struct {
	Token lexer.Token
}

func (n *NumberLiteral) node()                  {}
func (n *NumberLiteral) Start() errors.Position { return n.Token.Start }
func (n *NumberLiteral) End() errors.Position   { return n.Token.End }
func (n *NumberLiteral) String() string         { return n.Token.String() }

// VariableAccess reads a variable by name.
type VariableAccess struct {
	Name lexer.Token // IDENTIFIER
}

func (va *VariableAccess) node()                  {}
func (va *VariableAccess) Start() errors.Position { return va.Name.Start }
func (va *VariableAccess) End() errors.Position   { return va.Name.End }
func (va *VariableAccess) String() string         { return va.Name.String() }

// VariableAssign binds the value of an expression to a name.
// VAR <Name> = <Value>
type VariableAssign struct {
	Keyword lexer.Token // The VAR keyword
	Name    lexer.Token // IDENTIFIER
	Value   Node
}

func (vs *VariableAssign) node()                  {}
func (vs *VariableAssign) Start() errors.Position { return vs.Keyword.Start }
func (vs *VariableAssign) End() errors.Position   { return vs.Value.End() }
func (vs *VariableAssign) String() string {
	var out bytes.Buffer
	out.WriteString("(VAR ")
	out.WriteString(vs.Name.Literal)
	out.WriteString(" = ")
	out.WriteString(vs.Value.String())
	out.WriteString(")")
	return out.String()
}

// UnaryOp is a prefix '+', '-' or NOT applied to an operand.
type UnaryOp struct {
	Operator lexer.Token
	Operand  Node
}

func (u *UnaryOp) node()                  {}
func (u *UnaryOp) Start() errors.Position { return u.Operator.Start }
func (u *UnaryOp) End() errors.Position   { return u.Operand.End() }
func (u *UnaryOp) String() string {
	return "(" + u.Operator.String() + ", " + u.Operand.String() + ")"
}

// BinaryOp is an infix operation; the span runs from Left to Right.
type BinaryOp struct {
	Left     Node
	Operator lexer.Token
	Right    Node
}

func (b *BinaryOp) node()                  {}
func (b *BinaryOp) Start() errors.Position { return b.Left.Start() }
func (b *BinaryOp) End() errors.Position   { return b.Right.End() }
func (b *BinaryOp) String() string {
	return "(" + b.Left.String() + ", " + b.Operator.String() + ", " + b.Right.String() + ")"
}

// IfCase is one IF/ELIF arm.
type IfCase struct {
	Condition Node
	Body      Node
}

// Conditional is an IF ... THEN ... (ELIF ... THEN ...)* (ELSE ...)? chain.
// Else is nil when there is no ELSE arm.
type Conditional struct {
	Cases []IfCase
	Else  Node
}

func (c *Conditional) node()                  {}
func (c *Conditional) Start() errors.Position { return c.Cases[0].Condition.Start() }
func (c *Conditional) End() errors.Position {
	if c.Else != nil {
		return c.Else.End()
	}
	return c.Cases[len(c.Cases)-1].Body.End()
}
func (c *Conditional) String() string {
	var out bytes.Buffer
	for i, cs := range c.Cases {
		if i == 0 {
			out.WriteString("(IF ")
		} else {
			out.WriteString(" ELIF ")
		}
		out.WriteString(cs.Condition.String())
		out.WriteString(" THEN ")
		out.WriteString(cs.Body.String())
	}
	if c.Else != nil {
		out.WriteString(" ELSE ")
		out.WriteString(c.Else.String())
	}
	out.WriteString(")")
	return out.String()
}
