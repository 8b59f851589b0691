package parser

import (
	"fmt"

	"basic/pkg/errors"
	"basic/pkg/lexer"
)

// --- Debug Flag ---
const debugParser = false

func debugPrint(format string, args ...interface{}) {
	if debugParser {
		fmt.Printf("[Parser Debug] "+format+"\n", args...)
	}
}

// --- End Debug Flag ---

// ParseResult carries either a node or the first error of a parse attempt,
// plus how many tokens the attempt consumed.
type ParseResult struct {
	Node         Node
	Err          errors.BasicError
	advanceCount int
}

func (r *ParseResult) registerAdvancement() {
	r.advanceCount++
}

// register folds a sub-result into r and returns its node.
func (r *ParseResult) register(sub *ParseResult) Node {
	r.advanceCount += sub.advanceCount
	if sub.Err != nil {
		r.Err = sub.Err
	}
	return sub.Node
}

func (r *ParseResult) success(node Node) *ParseResult {
	r.Node = node
	return r
}

// failure records err unless a more specific error is already held: an
// existing error is only replaced when this attempt consumed no tokens.
func (r *ParseResult) failure(err errors.BasicError) *ParseResult {
	if r.Err == nil || r.advanceCount == 0 {
		r.Err = err
	}
	return r
}

// operator matches a token by type and, for keyword operators, by text.
type operator struct {
	typ     lexer.TokenType
	literal string
}

func (o operator) matches(tok lexer.Token) bool {
	return tok.Type == o.typ && (o.literal == "" || tok.Literal == o.literal)
}

var (
	logicalOps    = []operator{{lexer.KEYWORD, "AND"}, {lexer.KEYWORD, "OR"}}
	comparisonOps = []operator{{typ: lexer.EEQ}, {typ: lexer.NEQ}, {typ: lexer.LT}, {typ: lexer.GT}, {typ: lexer.LTE}, {typ: lexer.GTE}}
	sumOps        = []operator{{typ: lexer.PLUS}, {typ: lexer.MINUS}}
	productOps    = []operator{{typ: lexer.MUL}, {typ: lexer.DIV}}
	powerOps      = []operator{{typ: lexer.POW}}
)

// Parser is a recursive-descent parser over a token slice that ends in EOF.
type Parser struct {
	tokens   []lexer.Token
	index    int
	curToken lexer.Token
}

// NewParser creates a Parser. A missing trailing EOF token is supplied.
func NewParser(tokens []lexer.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != lexer.EOF {
		var end errors.Position
		if len(tokens) > 0 {
			end = tokens[len(tokens)-1].End
		}
		tokens = append(tokens, lexer.Token{Type: lexer.EOF, Start: end, End: end})
	}
	p := &Parser{tokens: tokens, index: -1}
	p.advance()
	return p
}

// Parse tokens into a single expression tree.
func Parse(tokens []lexer.Token) (Node, errors.BasicError) {
	return NewParser(tokens).Parse()
}

// advance moves to the next token. It never moves past EOF.
func (p *Parser) advance() {
	if p.index < len(p.tokens)-1 {
		p.index++
	}
	p.curToken = p.tokens[p.index]
	debugPrint("advance(): cur=%s", p.curToken)
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) curKeywordIs(keyword string) bool {
	return p.curToken.Matches(lexer.KEYWORD, keyword)
}

// syntaxError reports msg at the current token.
func (p *Parser) syntaxError(msg string) *errors.SyntaxError {
	return errors.NewSyntaxError(p.curToken.Start, p.curToken.End, msg)
}

// Parse parses one expression and requires that it consumes all input.
func (p *Parser) Parse() (Node, errors.BasicError) {
	res := p.expr()
	if res.Err == nil && !p.curTokenIs(lexer.EOF) {
		res.failure(p.syntaxError("Expected '+', '-', '*', '/', '^', '==', '!=', '<', '>', '<=', '>=', 'AND' or 'OR'"))
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Node, nil
}

// expr : KEYWORD:VAR IDENTIFIER EQ expr
//      | comp_expr ((KEYWORD:AND | KEYWORD:OR) comp_expr)*
func (p *Parser) expr() *ParseResult {
	res := &ParseResult{}

	if p.curKeywordIs("VAR") {
		keyword := p.curToken
		res.registerAdvancement()
		p.advance()

		if !p.curTokenIs(lexer.IDENTIFIER) {
			return res.failure(p.syntaxError("Expected identifier"))
		}
		name := p.curToken
		res.registerAdvancement()
		p.advance()

		if !p.curTokenIs(lexer.EQ) {
			return res.failure(p.syntaxError("Expected '='"))
		}
		res.registerAdvancement()
		p.advance()

		value := res.register(p.expr())
		if res.Err != nil {
			return res
		}
		return res.success(&VariableAssign{Keyword: keyword, Name: name, Value: value})
	}

	node := res.register(p.binaryOperation(p.compExpr, logicalOps, nil))
	if res.Err != nil {
		return res.failure(p.syntaxError("Expected 'VAR', int, float, identifier, '+', '-', '(' or 'NOT'"))
	}
	return res.success(node)
}

// comp_expr : NOT comp_expr
//           | arith_expr ((EEQ|NEQ|LT|GT|LTE|GTE) arith_expr)*
func (p *Parser) compExpr() *ParseResult {
	res := &ParseResult{}

	if p.curKeywordIs("NOT") {
		op := p.curToken
		res.registerAdvancement()
		p.advance()

		operand := res.register(p.compExpr())
		if res.Err != nil {
			return res
		}
		return res.success(&UnaryOp{Operator: op, Operand: operand})
	}

	node := res.register(p.binaryOperation(p.arithExpr, comparisonOps, nil))
	if res.Err != nil {
		return res.failure(p.syntaxError("Expected int, float, identifier, '+', '-', '(' or 'NOT'"))
	}
	return res.success(node)
}

// arith_expr : term ((PLUS|MINUS) term)*
func (p *Parser) arithExpr() *ParseResult {
	return p.binaryOperation(p.term, sumOps, nil)
}

// term : factor ((MUL|DIV) factor)*
func (p *Parser) term() *ParseResult {
	return p.binaryOperation(p.factor, productOps, nil)
}

// factor : (PLUS|MINUS) factor | power
func (p *Parser) factor() *ParseResult {
	res := &ParseResult{}
	tok := p.curToken

	if tok.Type == lexer.PLUS || tok.Type == lexer.MINUS {
		res.registerAdvancement()
		p.advance()
		operand := res.register(p.factor())
		if res.Err != nil {
			return res
		}
		return res.success(&UnaryOp{Operator: tok, Operand: operand})
	}

	return p.power()
}

// power : atom (POW factor)*
// The exponent is parsed with factor, which makes '^' right-associative.
func (p *Parser) power() *ParseResult {
	return p.binaryOperation(p.atom, powerOps, p.factor)
}

// atom : INT | FLOAT | IDENTIFIER | LPAREN expr RPAREN | if_expr
func (p *Parser) atom() *ParseResult {
	res := &ParseResult{}
	tok := p.curToken

	switch tok.Type {
	case lexer.INT, lexer.FLOAT:
		res.registerAdvancement()
		p.advance()
		return res.success(&NumberLiteral{Token: tok})

	case lexer.IDENTIFIER:
		res.registerAdvancement()
		p.advance()
		return res.success(&VariableAccess{Name: tok})

	case lexer.LPAREN:
		res.registerAdvancement()
		p.advance()
		inner := res.register(p.expr())
		if res.Err != nil {
			return res
		}
		if !p.curTokenIs(lexer.RPAREN) {
			return res.failure(p.syntaxError("Expected ')'"))
		}
		res.registerAdvancement()
		p.advance()
		return res.success(inner)
	}

	if tok.Matches(lexer.KEYWORD, "IF") {
		node := res.register(p.ifExpr())
		if res.Err != nil {
			return res
		}
		return res.success(node)
	}

	return res.failure(errors.NewSyntaxError(tok.Start, tok.End, "Expected int, float, identifier, '+', '-', '(' or 'IF'"))
}

// if_expr : IF expr THEN expr (ELIF expr THEN expr)* (ELSE expr)?
func (p *Parser) ifExpr() *ParseResult {
	res := &ParseResult{}
	cond := &Conditional{}

	if !p.curKeywordIs("IF") {
		return res.failure(p.syntaxError("Expected 'IF'"))
	}

	for {
		res.registerAdvancement()
		p.advance()

		condition := res.register(p.expr())
		if res.Err != nil {
			return res
		}
		if !p.curKeywordIs("THEN") {
			return res.failure(p.syntaxError("Expected 'THEN'"))
		}
		res.registerAdvancement()
		p.advance()

		body := res.register(p.expr())
		if res.Err != nil {
			return res
		}
		cond.Cases = append(cond.Cases, IfCase{Condition: condition, Body: body})

		if !p.curKeywordIs("ELIF") {
			break
		}
	}

	if p.curKeywordIs("ELSE") {
		res.registerAdvancement()
		p.advance()
		cond.Else = res.register(p.expr())
		if res.Err != nil {
			return res
		}
	}

	return res.success(cond)
}

// binaryOperation parses left-associative chains: left via parseLeft, then
// while the current token is one of ops, an operator and a right operand via
// parseRight (parseLeft when nil).
func (p *Parser) binaryOperation(parseLeft func() *ParseResult, ops []operator, parseRight func() *ParseResult) *ParseResult {
	if parseRight == nil {
		parseRight = parseLeft
	}

	res := &ParseResult{}
	left := res.register(parseLeft())
	if res.Err != nil {
		return res
	}

	for p.curMatchesAny(ops) {
		op := p.curToken
		res.registerAdvancement()
		p.advance()
		right := res.register(parseRight())
		if res.Err != nil {
			return res
		}
		left = &BinaryOp{Left: left, Operator: op, Right: right}
	}

	return res.success(left)
}

func (p *Parser) curMatchesAny(ops []operator) bool {
	for _, op := range ops {
		if op.matches(p.curToken) {
			return true
		}
	}
	return false
}
