package interpreter

import (
	"strings"
	"testing"

	"basic/pkg/errors"
	"basic/pkg/lexer"
	"basic/pkg/parser"
	"basic/pkg/runtime"
	"basic/pkg/source"
)

func newContext() *runtime.Context {
	ctx := runtime.NewContext("<program>", nil, nil)
	ctx.SymbolTable = runtime.NewSymbolTable(nil)
	return ctx
}

func eval(t *testing.T, ctx *runtime.Context, input string) (*runtime.Value, errors.BasicError) {
	t.Helper()
	tokens, err := lexer.Tokenize(source.NewStdinSource(input))
	if err != nil {
		t.Fatalf("lexer error for %q: %v", input, err)
	}
	node, err := parser.Parse(tokens)
	if err != nil {
		t.Fatalf("parse error for %q: %v", input, err)
	}
	return New().Evaluate(node, ctx)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2 + 3 * 4", "14"},
		{"2 ^ 3 ^ 2", "512"},
		{"(2 + 3) * 4", "20"},
		{"4 / 2", "2.0"},
		{"4 + 2", "6"},
		{"7 / 2", "3.5"},
		{"1.5 * 2", "3.0"},
		{"-2 ^ 2", "-4"},
		{"2 ^ -1", "0.5"},
		{"7 - -3", "10"},
		{"+5", "5"},
		{"10 - 2 - 3", "5"},
		{"NOT 0", "1"},
		{"NOT 5", "0"},
		{"NOT 0.0", "1"},
		{"3 < 5 AND 5 < 3", "0"},
		{"3 < 5 OR 5 < 3", "1"},
		{"1 == 1", "1"},
		{"1 == 1.0", "1"},
		{"1 != 2", "1"},
		{"2 <= 2", "1"},
		{"2 >= 3", "0"},
		{"2 > 1", "1"},
		{"9223372036854775807 + 1", "9.223372036854776e+18"},
		{"-9223372036854775807 - 2", "-9.223372036854776e+18"},
		{"3037000500 * 3037000500", "9.22337203700025e+18"},
		{"2 ^ 62", "4611686018427387904"},
		{"2 ^ 64", "1.8446744073709552e+19"},
		{"IF 0 THEN 1 ELIF 1 THEN 2 ELSE 3", "2"},
		{"IF 0 THEN 1 ELSE 3", "3"},
		{"IF 5 THEN 1", "1"},
		{"1 + IF 1 THEN 2 ELSE 3", "3"},
		{"VAR x = 5", "5"},
		{"VAR a = VAR b = 2 * 3", "6"},
	}

	for _, tt := range tests {
		v, err := eval(t, newContext(), tt.input)
		if err != nil {
			t.Errorf("%q: unexpected error: %s", tt.input, err.Render())
			continue
		}
		if v == nil {
			t.Errorf("%q: expected a value, got none", tt.input)
			continue
		}
		if v.String() != tt.expected {
			t.Errorf("%q = %s, want %s", tt.input, v, tt.expected)
		}
	}
}

func TestDivisionYieldsFloat(t *testing.T) {
	v, err := eval(t, newContext(), "4 / 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Number.IsFloat() {
		t.Errorf("4 / 2 should be a float, got %s", v.Number.Kind())
	}

	v, err = eval(t, newContext(), "4 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Number.IsInt() {
		t.Errorf("4 + 2 should stay an int, got %s", v.Number.Kind())
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		input      string
		message    string
		start, end int
	}{
		{"1 / 0", "Division by zero", 4, 5},
		{"1 / 0.0", "Division by zero", 4, 7},
		{"10 / (5 - 5)", "Division by zero", 6, 11},
		{"y", "'y' is not defined", 0, 1},
		{"1 + undefined", "'undefined' is not defined", 4, 13},
		{"1 + (IF 0 THEN 1)", "Expression has no value", 8, 16},
		{"VAR z = IF 0 THEN 1", "Expression has no value", 11, 19},
	}

	for _, tt := range tests {
		v, err := eval(t, newContext(), tt.input)
		if err == nil {
			t.Errorf("%q: expected an error, got %v", tt.input, v)
			continue
		}
		if v != nil {
			t.Errorf("%q: no value should accompany an error", tt.input)
		}
		if err.Kind() != "Runtime Error" {
			t.Errorf("%q: kind %q, want Runtime Error", tt.input, err.Kind())
		}
		if err.Message() != tt.message {
			t.Errorf("%q: message %q, want %q", tt.input, err.Message(), tt.message)
		}
		span := err.Span()
		if span.Start.Offset != tt.start || span.End.Offset != tt.end {
			t.Errorf("%q: span [%d,%d), want [%d,%d)", tt.input, span.Start.Offset, span.End.Offset, tt.start, tt.end)
		}
	}
}

func TestRuntimeErrorRender(t *testing.T) {
	_, err := eval(t, newContext(), "1 / 0")
	if err == nil {
		t.Fatal("expected an error")
	}
	expected := "Traceback (most recent call last):\n" +
		" File <stdin>, line 1, in <program>\n" +
		"Runtime Error: Division by zero\n\n" +
		"1 / 0\n" +
		"    ^"
	if got := err.Render(); got != expected {
		t.Errorf("Render():\n%q\nwant:\n%q", got, expected)
	}
}

func TestVariableRoundTrip(t *testing.T) {
	ctx := newContext()
	if _, err := eval(t, ctx, "VAR x = 5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := eval(t, ctx, "x + 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "6" {
		t.Errorf("x + 1 = %s, want 6", v)
	}

	// Reassignment replaces the binding.
	if _, err := eval(t, ctx, "VAR x = x * 10"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := eval(t, ctx, "x"); v.String() != "50" {
		t.Errorf("x = %s, want 50", v)
	}
}

func TestAccessRestampsCopy(t *testing.T) {
	ctx := newContext()
	if _, err := eval(t, ctx, "VAR x = 5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := eval(t, ctx, "   x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Start.Offset != 3 || v.End.Offset != 4 {
		t.Errorf("access span [%d,%d), want [3,4)", v.Start.Offset, v.End.Offset)
	}

	stored, _ := ctx.SymbolTable.Get("x")
	if stored.Start.Offset != 8 || stored.End.Offset != 9 {
		t.Errorf("stored binding was re-stamped: [%d,%d)", stored.Start.Offset, stored.End.Offset)
	}
}

func TestAssignWritesLocalTable(t *testing.T) {
	parent := runtime.NewSymbolTable(nil)
	ctx := newContext()
	ctx.SymbolTable = runtime.NewSymbolTable(parent)

	if _, err := eval(t, ctx, "VAR g = 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := parent.Get("g"); ok {
		t.Errorf("assignment leaked into the parent table")
	}
	if _, ok := ctx.SymbolTable.Get("g"); !ok {
		t.Errorf("assignment missing from the local table")
	}
}

func TestConditionalShortCircuits(t *testing.T) {
	ctx := newContext()
	v, err := eval(t, ctx, "IF VAR a = 0 THEN VAR b = 1 ELIF VAR c = 1 THEN VAR d = 2 ELIF VAR e = 1 THEN VAR f = 3 ELSE VAR g = 4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.String() != "2" {
		t.Errorf("result = %s, want 2", v)
	}

	for name, want := range map[string]bool{"a": true, "b": false, "c": true, "d": true, "e": false, "f": false, "g": false} {
		if _, ok := ctx.SymbolTable.Get(name); ok != want {
			t.Errorf("%s assigned=%v, want %v", name, ok, want)
		}
	}
}

func TestConditionalWithoutMatchHasNoValue(t *testing.T) {
	v, err := eval(t, newContext(), "IF 0 THEN 1 ELIF 0 THEN 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Errorf("expected no value, got %s", v)
	}
}

func TestLeftErrorSkipsRight(t *testing.T) {
	ctx := newContext()
	_, err := eval(t, ctx, "missing + (VAR side = 1)")
	if err == nil || !strings.Contains(err.Message(), "'missing'") {
		t.Fatalf("expected the left operand's error, got %v", err)
	}
	if _, ok := ctx.SymbolTable.Get("side"); ok {
		t.Errorf("right operand was evaluated after the left failed")
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	inputs := []string{"2 ^ 0.5", "1 / 3", "IF 1 < 2 THEN 7 / 2 ELSE 0", "q", "1 / (2 - 2)"}
	for _, input := range inputs {
		v1, err1 := eval(t, newContext(), input)
		v2, err2 := eval(t, newContext(), input)
		if (err1 == nil) != (err2 == nil) {
			t.Errorf("%q: error presence differs between runs", input)
			continue
		}
		if err1 != nil {
			if err1.Render() != err2.Render() {
				t.Errorf("%q: errors differ:\n%s\n%s", input, err1.Render(), err2.Render())
			}
			continue
		}
		if v1.String() != v2.String() || v1.Number.Kind() != v2.Number.Kind() {
			t.Errorf("%q: %s then %s", input, v1, v2)
		}
	}
}

func TestValuesCarryContext(t *testing.T) {
	ctx := newContext()
	v, err := eval(t, ctx, "1 + 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Context != ctx {
		t.Errorf("result should be attributed to the evaluating context")
	}
	if v.Start.Offset != 0 || v.End.Offset != 5 {
		t.Errorf("result span [%d,%d), want [0,5)", v.Start.Offset, v.End.Offset)
	}
}
