package parser

import (
	"fmt"
	"strings"
)

// FormatTree renders node one line per node, children indented by two
// spaces. The -ast switch prints it before evaluation.
func FormatTree(node Node) string {
	var b strings.Builder
	writeTree(&b, node, 0)
	return b.String()
}

func writeTree(b *strings.Builder, node Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n := node.(type) {
	case *NumberLiteral:
		fmt.Fprintf(b, "%sNumber %s\n", indent, n.Token.Literal)
	case *VariableAccess:
		fmt.Fprintf(b, "%sAccess %s\n", indent, n.Name.Literal)
	case *VariableAssign:
		fmt.Fprintf(b, "%sAssign %s\n", indent, n.Name.Literal)
		writeTree(b, n.Value, depth+1)
	case *UnaryOp:
		fmt.Fprintf(b, "%sUnary %s\n", indent, operatorText(n.Operator.Literal, string(n.Operator.Type)))
		writeTree(b, n.Operand, depth+1)
	case *BinaryOp:
		fmt.Fprintf(b, "%sBinary %s\n", indent, operatorText(n.Operator.Literal, string(n.Operator.Type)))
		writeTree(b, n.Left, depth+1)
		writeTree(b, n.Right, depth+1)
	case *Conditional:
		fmt.Fprintf(b, "%sIf\n", indent)
		for _, c := range n.Cases {
			fmt.Fprintf(b, "%s  Case\n", indent)
			writeTree(b, c.Condition, depth+2)
			writeTree(b, c.Body, depth+2)
		}
		if n.Else != nil {
			fmt.Fprintf(b, "%s  Else\n", indent)
			writeTree(b, n.Else, depth+2)
		}
	default:
		panic(fmt.Sprintf("parser: unhandled node type %T", node))
	}
}

func operatorText(literal, typ string) string {
	if literal != "" {
		return literal
	}
	return typ
}
