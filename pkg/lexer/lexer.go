package lexer

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"basic/pkg/errors"
	"basic/pkg/source"
	"basic/pkg/value"
)

// --- Debug Flag ---
const debugLexer = false

func debugPrintf(format string, args ...interface{}) {
	if debugLexer {
		fmt.Printf("[Lexer Debug] "+format+"\n", args...)
	}
}

// TokenType represents the type of a token.
type TokenType string

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string       // The text of the token (lexeme); keyword tokens carry the keyword here
	Value   value.Number // Parsed value for INT and FLOAT tokens
	Start   errors.Position
	End     errors.Position // exclusive
}

// --- Token Types ---
const (
	EOF TokenType = "EOF" // End of input

	// Identifiers + Literals
	INT        TokenType = "INT"
	FLOAT      TokenType = "FLOAT"
	IDENTIFIER TokenType = "IDENTIFIER"
	KEYWORD    TokenType = "KEYWORD"

	// Operators
	EQ    TokenType = "="
	EEQ   TokenType = "=="
	NEQ   TokenType = "!="
	LT    TokenType = "<"
	GT    TokenType = ">"
	LTE   TokenType = "<="
	GTE   TokenType = ">="
	PLUS  TokenType = "+"
	MINUS TokenType = "-"
	MUL   TokenType = "*"
	DIV   TokenType = "/"
	POW   TokenType = "^"

	// Delimiters
	LPAREN TokenType = "("
	RPAREN TokenType = ")"
)

// Keywords are scanned as identifiers and re-tagged by membership in this set.
var keywords = map[string]struct{}{
	"VAR":  {},
	"AND":  {},
	"OR":   {},
	"NOT":  {},
	"IF":   {},
	"THEN": {},
	"ELIF": {},
	"ELSE": {},
}

// LookupIdent classifies scanned identifier text as KEYWORD or IDENTIFIER.
func LookupIdent(ident string) TokenType {
	if _, ok := keywords[ident]; ok {
		return KEYWORD
	}
	return IDENTIFIER
}

// Matches reports whether the token has the given type and literal text.
func (t Token) Matches(typ TokenType, literal string) bool {
	return t.Type == typ && t.Literal == literal
}

// Span returns the token's source range.
func (t Token) Span() errors.Span {
	return errors.Span{Start: t.Start, End: t.End}
}

func (t Token) String() string {
	switch t.Type {
	case INT, FLOAT:
		return fmt.Sprintf("%s:%s", t.Type, t.Value)
	case IDENTIFIER, KEYWORD:
		return fmt.Sprintf("%s:%s", t.Type, t.Literal)
	}
	return string(t.Type)
}

// Lexer holds the state of the scanner.
type Lexer struct {
	src   *source.SourceFile
	input string
	pos   errors.Position // position of ch
	ch    byte            // current char under examination
}

// NewLexer creates a new Lexer positioned on the first character of src.
func NewLexer(src *source.SourceFile) *Lexer {
	l := &Lexer{src: src, input: src.Content, pos: errors.Start(src)}
	l.readChar()
	return l
}

// NewRangeLexer creates a Lexer over src.Content[from:to]. Positions are
// reported relative to the whole of src, so line numbers stay correct when a
// file is evaluated one line at a time.
func NewRangeLexer(src *source.SourceFile, from, to int) *Lexer {
	l := &Lexer{src: src, input: src.Content[:to], pos: errors.Start(src)}
	for i := 0; i < from; i++ {
		l.pos = l.pos.Advance(l.ch)
		l.ch = src.Content[i]
	}
	l.readChar()
	return l
}

// Tokenize scans all of src. On success the returned slice always ends with
// an EOF token; on failure the slice is nil and lexing stops at the first error.
func Tokenize(src *source.SourceFile) ([]Token, errors.BasicError) {
	return tokenizeAll(NewLexer(src))
}

// TokenizeRange is Tokenize restricted to src.Content[from:to].
func TokenizeRange(src *source.SourceFile, from, to int) ([]Token, errors.BasicError) {
	return tokenizeAll(NewRangeLexer(src, from, to))
}

func tokenizeAll(l *Lexer) ([]Token, errors.BasicError) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) atEnd() bool {
	return l.pos.Offset >= len(l.input)
}

// readChar advances to the next character, keeping line and column current.
func (l *Lexer) readChar() {
	l.pos = l.pos.Advance(l.ch)
	if l.atEnd() {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos.Offset]
	}
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && (l.ch == ' ' || l.ch == '\t') {
		l.readChar()
	}
}

// NextToken scans the input and returns the next token.
func (l *Lexer) NextToken() (Token, errors.BasicError) {
	l.skipWhitespace()

	start := l.pos
	if l.atEnd() {
		return Token{Type: EOF, Start: start, End: start}, nil
	}

	var tok Token
	switch {
	case isDigit(l.ch):
		tok = l.readNumber()
	case isLetter(l.ch):
		tok = l.readIdentifier()
	default:
		switch l.ch {
		case '+':
			tok = l.single(PLUS)
		case '-':
			tok = l.single(MINUS)
		case '*':
			tok = l.single(MUL)
		case '/':
			tok = l.single(DIV)
		case '^':
			tok = l.single(POW)
		case '(':
			tok = l.single(LPAREN)
		case ')':
			tok = l.single(RPAREN)
		case '=':
			tok = l.withOptionalEquals(EQ, EEQ)
		case '<':
			tok = l.withOptionalEquals(LT, LTE)
		case '>':
			tok = l.withOptionalEquals(GT, GTE)
		case '!':
			l.readChar() // Consume '!'
			if !l.atEnd() && l.ch == '=' {
				l.readChar()
				tok = Token{Type: NEQ, Literal: "!=", Start: start, End: l.pos}
				break
			}
			if !l.atEnd() {
				l.readChar() // The offending character is part of the reported span
			}
			return Token{}, errors.NewExpectedCharError(start, l.pos, "'=' (after '!')")
		default:
			r, size := utf8.DecodeRuneInString(l.input[l.pos.Offset:])
			for i := 0; i < size; i++ {
				l.readChar()
			}
			return Token{}, errors.NewIllegalCharError(start, l.pos, "'"+string(r)+"'")
		}
	}

	debugPrintf("%s at %s", tok, tok.Start)
	return tok, nil
}

// single consumes one character and returns a token of the given type.
func (l *Lexer) single(typ TokenType) Token {
	start := l.pos
	literal := string(l.ch)
	l.readChar()
	return Token{Type: typ, Literal: literal, Start: start, End: l.pos}
}

// withOptionalEquals handles the one-character-lookahead operators
// '=', '<' and '>': a following '=' selects the two-character variant.
func (l *Lexer) withOptionalEquals(plain, withEq TokenType) Token {
	start := l.pos
	l.readChar()
	if !l.atEnd() && l.ch == '=' {
		l.readChar()
		return Token{Type: withEq, Literal: string(withEq), Start: start, End: l.pos}
	}
	return Token{Type: plain, Literal: string(plain), Start: start, End: l.pos}
}

// readNumber consumes digits and at most one '.'. A second '.' ends the
// number; the dot is left for the next token.
func (l *Lexer) readNumber() Token {
	start := l.pos
	dots := 0
	for !l.atEnd() && (isDigit(l.ch) || l.ch == '.') {
		if l.ch == '.' {
			if dots == 1 {
				break
			}
			dots++
		}
		l.readChar()
	}

	literal := l.input[start.Offset:l.pos.Offset]
	if dots == 0 {
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return Token{Type: INT, Literal: literal, Value: value.Int(i), Start: start, End: l.pos}
		}
		// Out of int64 range: keep the magnitude as a float.
	}
	f, _ := strconv.ParseFloat(literal, 64)
	return Token{Type: FLOAT, Literal: literal, Value: value.Float(f), Start: start, End: l.pos}
}

// readIdentifier consumes letters, digits and underscores.
func (l *Lexer) readIdentifier() Token {
	start := l.pos
	for !l.atEnd() && (isLetter(l.ch) || isDigit(l.ch) || l.ch == '_') {
		l.readChar()
	}
	literal := l.input[start.Offset:l.pos.Offset]
	return Token{Type: LookupIdent(literal), Literal: literal, Start: start, End: l.pos}
}

// isLetter checks if the character is an ASCII letter.
func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

// isDigit checks if the character is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
