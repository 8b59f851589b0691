package errors

import (
	"bytes"
	"strings"
	"testing"

	"basic/pkg/source"
)

// at walks from the start of sf to the given byte offset.
func at(sf *source.SourceFile, offset int) Position {
	p := Start(sf).Advance(0)
	for p.Offset < offset {
		p = p.Advance(sf.Content[p.Offset])
	}
	return p
}

func TestPositionAdvance(t *testing.T) {
	sf := source.NewStdinSource("ab\ncd")
	p := at(sf, 4)
	if p.Line != 1 || p.Column != 1 {
		t.Fatalf("expected line 1 col 1, got %d:%d", p.Line, p.Column)
	}
	if got := p.String(); got != "<stdin>:2:2" {
		t.Errorf("String() = %q", got)
	}
	if n := (Span{Start: at(sf, 1), End: at(sf, 4)}).Len(); n != 3 {
		t.Errorf("Span.Len() = %d", n)
	}
}

func TestStringWithArrows(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		start, end int
		expected   string
	}{
		{"single char", "1 + @", 4, 5, "1 + @\n    ^"},
		{"multi char", "VAR abc = 1", 4, 7, "VAR abc = 1\n    ^^^"},
		{"zero width at end", "1 +", 3, 3, "1 +\n   ^"},
		{"wide rune", "VAR 你 = 1", 4, 7, "VAR 你 = 1\n    ^^"},
		{"wide prefix", "你 @", 4, 5, "你 @\n   ^"},
		{"tab prefix", "\t@", 1, 2, "\t@\n\t^"},
		{"two lines", "1 +\n2 @", 2, 7, "1 +\n  ^\n2 @\n^^^"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf := source.NewStdinSource(tt.input)
			got := StringWithArrows(at(sf, tt.start), at(sf, tt.end))
			if got != tt.expected {
				t.Errorf("StringWithArrows() =\n%q\nwant\n%q", got, tt.expected)
			}
		})
	}
}

func TestRenderLexicalAndSyntaxErrors(t *testing.T) {
	sf := source.NewStdinSource("1 + @")
	start, end := at(sf, 4), at(sf, 5)

	tests := []struct {
		err      BasicError
		expected string
	}{
		{NewIllegalCharError(start, end, "'@'"), "Illegal Character: '@'\nFile <stdin>, line 1\n\n1 + @\n    ^"},
		{NewExpectedCharError(start, end, "'=' (after '!')"), "Expected Character: '=' (after '!')\nFile <stdin>, line 1\n\n1 + @\n    ^"},
		{NewSyntaxError(start, end, "Expected ')'"), "Invalid Syntax: Expected ')'\nFile <stdin>, line 1\n\n1 + @\n    ^"},
	}

	for _, tt := range tests {
		if got := tt.err.Render(); got != tt.expected {
			t.Errorf("Render() =\n%s\nwant\n%s", got, tt.expected)
		}
		if !strings.HasPrefix(tt.err.Error(), tt.err.Kind()+": ") {
			t.Errorf("Error() = %q should start with kind", tt.err.Error())
		}
	}
}

type testFrame struct {
	name   string
	parent *testFrame
	entry  *Position
}

func (f *testFrame) FrameName() string { return f.name }
func (f *testFrame) ParentFrame() Frame {
	if f.parent == nil {
		return nil
	}
	return f.parent
}
func (f *testFrame) ParentEntry() (Position, bool) {
	if f.entry == nil {
		return Position{}, false
	}
	return *f.entry, true
}

func TestRuntimeErrorTraceback(t *testing.T) {
	sf := source.NewStdinSource("VAR a = 1\n1 / 0")
	entry := at(sf, 0)
	root := &testFrame{name: "<program>"}
	inner := &testFrame{name: "inner", parent: root, entry: &entry}

	err := NewRuntimeError(at(sf, 14), at(sf, 15), "Division by zero", inner)
	expected := "Traceback (most recent call last):\n" +
		" File <stdin>, line 1, in <program>\n" +
		" File <stdin>, line 2, in inner\n" +
		"Runtime Error: Division by zero\n\n" +
		"1 / 0\n    ^"
	if got := err.Render(); got != expected {
		t.Errorf("Render() =\n%s\nwant\n%s", got, expected)
	}
	if err.Message() != "Division by zero" {
		t.Errorf("Message() = %q", err.Message())
	}
}

func TestDisplayErrors(t *testing.T) {
	sf := source.NewStdinSource("@")
	var buf bytes.Buffer
	DisplayErrors(&buf, NewIllegalCharError(at(sf, 0), at(sf, 1), "'@'"), nil)
	if !strings.Contains(buf.String(), "Illegal Character: '@'") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
