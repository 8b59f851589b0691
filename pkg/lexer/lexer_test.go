package lexer

import (
	stderrors "errors"
	"strings"
	"testing"

	"basic/pkg/errors"
	"basic/pkg/source"
)

func TestNextToken(t *testing.T) {
	input := "VAR x = 12 + 3.5 * (y - 1) ^ 2 / z_2\tIF a == b THEN 1 ELIF a != b THEN 2 ELSE 3 AND c <= d OR c >= d < e > f NOT g"

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{KEYWORD, "VAR"},
		{IDENTIFIER, "x"},
		{EQ, "="},
		{INT, "12"},
		{PLUS, "+"},
		{FLOAT, "3.5"},
		{MUL, "*"},
		{LPAREN, "("},
		{IDENTIFIER, "y"},
		{MINUS, "-"},
		{INT, "1"},
		{RPAREN, ")"},
		{POW, "^"},
		{INT, "2"},
		{DIV, "/"},
		{IDENTIFIER, "z_2"},
		{KEYWORD, "IF"},
		{IDENTIFIER, "a"},
		{EEQ, "=="},
		{IDENTIFIER, "b"},
		{KEYWORD, "THEN"},
		{INT, "1"},
		{KEYWORD, "ELIF"},
		{IDENTIFIER, "a"},
		{NEQ, "!="},
		{IDENTIFIER, "b"},
		{KEYWORD, "THEN"},
		{INT, "2"},
		{KEYWORD, "ELSE"},
		{INT, "3"},
		{KEYWORD, "AND"},
		{IDENTIFIER, "c"},
		{LTE, "<="},
		{IDENTIFIER, "d"},
		{KEYWORD, "OR"},
		{IDENTIFIER, "c"},
		{GTE, ">="},
		{IDENTIFIER, "d"},
		{LT, "<"},
		{IDENTIFIER, "e"},
		{GT, ">"},
		{IDENTIFIER, "f"},
		{KEYWORD, "NOT"},
		{IDENTIFIER, "g"},
		{EOF, ""},
	}

	tokens, err := Tokenize(source.NewStdinSource(input))
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Render())
	}
	if len(tokens) != len(tests) {
		t.Fatalf("expected %d tokens, got %d: %v", len(tests), len(tokens), tokens)
	}

	for i, tt := range tests {
		tok := tokens[i]
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestTokenSpans(t *testing.T) {
	tokens, err := Tokenize(source.NewStdinSource("ab <= 10.25"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []struct {
		start, end int
	}{
		{0, 2},   // ab
		{3, 5},   // <=
		{6, 11},  // 10.25
		{11, 11}, // EOF, empty span at the final position
	}
	for i, e := range expected {
		tok := tokens[i]
		if tok.Start.Offset != e.start || tok.End.Offset != e.end {
			t.Errorf("token %d (%s) span = [%d,%d), want [%d,%d)", i, tok, tok.Start.Offset, tok.End.Offset, e.start, e.end)
		}
		if tok.Start.Line != 0 || tok.Start.Column != e.start {
			t.Errorf("token %d at line %d col %d", i, tok.Start.Line, tok.Start.Column)
		}
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input    string
		typ      TokenType
		expected string
	}{
		{"42", INT, "INT:42"},
		{"0", INT, "INT:0"},
		{"3.14", FLOAT, "FLOAT:3.14"},
		{"7.", FLOAT, "FLOAT:7.0"},
		{"99999999999999999999", FLOAT, "FLOAT:1e+20"},
	}
	for _, tt := range tests {
		tokens, err := Tokenize(source.NewStdinSource(tt.input))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.input, err)
		}
		if tokens[0].Type != tt.typ || tokens[0].String() != tt.expected {
			t.Errorf("%q lexed as %s, want %s", tt.input, tokens[0], tt.expected)
		}
	}
}

func TestSecondDotEndsNumber(t *testing.T) {
	l := NewLexer(source.NewStdinSource("1.2.3"))
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != FLOAT || tok.Literal != "1.2" {
		t.Fatalf("first token = %s %q, want FLOAT 1.2", tok.Type, tok.Literal)
	}

	// The leftover '.' cannot start a token.
	_, err = l.NextToken()
	var illegal *errors.IllegalCharError
	if !stderrors.As(err, &illegal) {
		t.Fatalf("expected IllegalCharError, got %v", err)
	}
	if illegal.Message() != "'.'" || illegal.Span().Start.Offset != 3 {
		t.Errorf("unexpected error %v", illegal)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		input      string
		kind       string
		message    string
		start, end int
	}{
		{"1 + @", "Illegal Character", "'@'", 4, 5},
		{"a\nb", "Illegal Character", "'\n'", 1, 2},
		{"VAR 你 = 1", "Illegal Character", "'你'", 4, 7},
		{"_x", "Illegal Character", "'_'", 0, 1},
		{"1 ! 2", "Expected Character", "'=' (after '!')", 2, 4},
		{"1 !", "Expected Character", "'=' (after '!')", 2, 3},
	}

	for _, tt := range tests {
		tokens, err := Tokenize(source.NewStdinSource(tt.input))
		if err == nil {
			t.Fatalf("%q: expected an error, got tokens %v", tt.input, tokens)
		}
		if tokens != nil {
			t.Errorf("%q: expected no tokens alongside the error", tt.input)
		}
		if err.Kind() != tt.kind || err.Message() != tt.message {
			t.Errorf("%q: got %s %s, want %s %s", tt.input, err.Kind(), err.Message(), tt.kind, tt.message)
		}
		span := err.Span()
		if span.Start.Offset != tt.start || span.End.Offset != tt.end {
			t.Errorf("%q: span [%d,%d), want [%d,%d)", tt.input, span.Start.Offset, span.End.Offset, tt.start, tt.end)
		}
	}
}

func TestLookupIdent(t *testing.T) {
	for _, kw := range []string{"VAR", "AND", "OR", "NOT", "IF", "THEN", "ELIF", "ELSE"} {
		if LookupIdent(kw) != KEYWORD {
			t.Errorf("%s should be a keyword", kw)
		}
	}
	for _, id := range []string{"var", "x", "IFX", "null"} {
		if LookupIdent(id) != IDENTIFIER {
			t.Errorf("%s should be an identifier", id)
		}
	}
	tok := Token{Type: KEYWORD, Literal: "AND"}
	if !tok.Matches(KEYWORD, "AND") || tok.Matches(KEYWORD, "OR") || tok.Matches(IDENTIFIER, "AND") {
		t.Errorf("Matches() misbehaves for %s", tok)
	}
}

func TestTokenizeRange(t *testing.T) {
	src := source.NewSourceFile("prog.bas", "prog.bas", "VAR a = 1\n  b @\n")

	tokens, err := TokenizeRange(src, 10, 13)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 || tokens[0].String() != "IDENTIFIER:b" || tokens[1].Type != EOF {
		t.Fatalf("unexpected tokens %v", tokens)
	}
	b := tokens[0].Start
	if b.Offset != 12 || b.Line != 1 || b.Column != 2 {
		t.Errorf("b at offset %d line %d col %d, want 12 1 2", b.Offset, b.Line, b.Column)
	}
	if tokens[1].Start.Offset != 13 {
		t.Errorf("EOF at offset %d, want 13", tokens[1].Start.Offset)
	}

	_, err = TokenizeRange(src, 10, 15)
	if err == nil {
		t.Fatal("expected an illegal character error")
	}
	if err.Span().Start.Offset != 14 || err.Span().Start.Line != 1 {
		t.Errorf("error at %s, want offset 14 on the second line", err.Span().Start)
	}
	if !strings.Contains(err.Render(), "File prog.bas, line 2") {
		t.Errorf("render should name line 2:\n%s", err.Render())
	}
}
