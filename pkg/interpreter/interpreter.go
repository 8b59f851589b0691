package interpreter

import (
	stderrors "errors"
	"fmt"

	"basic/pkg/errors"
	"basic/pkg/lexer"
	"basic/pkg/parser"
	"basic/pkg/runtime"
	"basic/pkg/value"
)

// --- Debug Flag ---
const debugInterpreter = false

func debugPrintf(format string, args ...interface{}) {
	if debugInterpreter {
		fmt.Printf("[Interpreter Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// Interpreter evaluates AST nodes directly. It holds no state of its own:
// variables live in the symbol table of the Context passed to Evaluate.
type Interpreter struct{}

// New creates an Interpreter.
func New() *Interpreter {
	return &Interpreter{}
}

// Evaluate evaluates node in ctx. A nil value with a nil error means the
// node produced no value (an IF with no matching arm and no ELSE).
func (in *Interpreter) Evaluate(node parser.Node, ctx *runtime.Context) (*runtime.Value, errors.BasicError) {
	if ctx == nil {
		panic("interpreter: Evaluate called with a nil context")
	}
	res := in.visit(node, ctx)
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Value, nil
}

func (in *Interpreter) visit(node parser.Node, ctx *runtime.Context) *runtime.Result {
	debugPrintf("visit %T %s", node, node)

	switch node := node.(type) {
	case *parser.NumberLiteral:
		return in.visitNumber(node, ctx)
	case *parser.VariableAccess:
		return in.visitAccess(node, ctx)
	case *parser.VariableAssign:
		return in.visitAssign(node, ctx)
	case *parser.UnaryOp:
		return in.visitUnary(node, ctx)
	case *parser.BinaryOp:
		return in.visitBinary(node, ctx)
	case *parser.Conditional:
		return in.visitConditional(node, ctx)
	default:
		panic(fmt.Sprintf("interpreter: unhandled node type %T", node))
	}
}

// operand evaluates node and requires it to produce a value.
func (in *Interpreter) operand(node parser.Node, ctx *runtime.Context) *runtime.Result {
	res := &runtime.Result{}
	v := res.Register(in.visit(node, ctx))
	if res.Err != nil {
		return res
	}
	if v == nil {
		return res.Failure(errors.NewRuntimeError(node.Start(), node.End(), "Expression has no value", ctx))
	}
	return res.Success(v)
}

func (in *Interpreter) visitNumber(node *parser.NumberLiteral, ctx *runtime.Context) *runtime.Result {
	v := runtime.NewValue(node.Token.Value).SetPos(node.Start(), node.End()).SetContext(ctx)
	return (&runtime.Result{}).Success(&v)
}

func (in *Interpreter) visitAccess(node *parser.VariableAccess, ctx *runtime.Context) *runtime.Result {
	res := &runtime.Result{}
	name := node.Name.Literal

	stored, ok := ctx.Lookup(name)
	if !ok {
		return res.Failure(errors.NewRuntimeError(node.Start(), node.End(), fmt.Sprintf("'%s' is not defined", name), ctx))
	}
	v := stored.Copy().SetPos(node.Start(), node.End())
	return res.Success(&v)
}

func (in *Interpreter) visitAssign(node *parser.VariableAssign, ctx *runtime.Context) *runtime.Result {
	res := &runtime.Result{}
	v := res.Register(in.operand(node.Value, ctx))
	if res.Err != nil {
		return res
	}
	if ctx.SymbolTable == nil {
		ctx.SymbolTable = runtime.NewSymbolTable(nil)
	}
	ctx.SymbolTable.Set(node.Name.Literal, *v)
	return res.Success(v)
}

func (in *Interpreter) visitUnary(node *parser.UnaryOp, ctx *runtime.Context) *runtime.Result {
	res := &runtime.Result{}
	v := res.Register(in.operand(node.Operand, ctx))
	if res.Err != nil {
		return res
	}

	n := v.Number
	switch {
	case node.Operator.Type == lexer.MINUS:
		n = n.Neg()
	case node.Operator.Matches(lexer.KEYWORD, "NOT"):
		n = n.Not()
	}

	out := runtime.NewValue(n).SetPos(node.Start(), node.End()).SetContext(ctx)
	return res.Success(&out)
}

func (in *Interpreter) visitBinary(node *parser.BinaryOp, ctx *runtime.Context) *runtime.Result {
	res := &runtime.Result{}
	left := res.Register(in.operand(node.Left, ctx))
	if res.Err != nil {
		return res
	}
	right := res.Register(in.operand(node.Right, ctx))
	if res.Err != nil {
		return res
	}

	n, err := apply(node.Operator, left.Number, right.Number)
	if err != nil {
		if stderrors.Is(err, value.ErrDivisionByZero) {
			return res.Failure(errors.NewRuntimeError(right.Start, right.End, err.Error(), ctx))
		}
		return res.Failure(errors.NewRuntimeError(node.Start(), node.End(), err.Error(), ctx))
	}

	out := runtime.NewValue(n).SetPos(node.Start(), node.End()).SetContext(ctx)
	return res.Success(&out)
}

// apply performs one binary operator on two numbers.
func apply(op lexer.Token, l, r value.Number) (value.Number, error) {
	switch op.Type {
	case lexer.PLUS:
		return l.Add(r), nil
	case lexer.MINUS:
		return l.Sub(r), nil
	case lexer.MUL:
		return l.Mul(r), nil
	case lexer.DIV:
		return l.Div(r)
	case lexer.POW:
		return l.Pow(r), nil
	case lexer.EEQ:
		return l.Eq(r), nil
	case lexer.NEQ:
		return l.Neq(r), nil
	case lexer.LT:
		return l.Lt(r), nil
	case lexer.GT:
		return l.Gt(r), nil
	case lexer.LTE:
		return l.Lte(r), nil
	case lexer.GTE:
		return l.Gte(r), nil
	case lexer.KEYWORD:
		switch op.Literal {
		case "AND":
			return l.And(r), nil
		case "OR":
			return l.Or(r), nil
		}
	}
	return value.Number{}, fmt.Errorf("Unsupported operator %s", op)
}

func (in *Interpreter) visitConditional(node *parser.Conditional, ctx *runtime.Context) *runtime.Result {
	res := &runtime.Result{}

	for _, c := range node.Cases {
		cond := res.Register(in.operand(c.Condition, ctx))
		if res.Err != nil {
			return res
		}
		if cond.Number.IsTrue() {
			v := res.Register(in.visit(c.Body, ctx))
			if res.Err != nil {
				return res
			}
			return res.Success(v)
		}
	}

	if node.Else != nil {
		v := res.Register(in.visit(node.Else, ctx))
		if res.Err != nil {
			return res
		}
		return res.Success(v)
	}

	return res.Success(nil)
}
