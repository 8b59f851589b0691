package source

import "testing"

func TestLines(t *testing.T) {
	sf := NewSourceFile("t.bas", "", "VAR a = 1\nVAR b = 2\n")
	lines := sf.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if sf.Line(1) != "VAR b = 2" {
		t.Errorf("Line(1) = %q", sf.Line(1))
	}
	if sf.Line(5) != "" || sf.Line(-1) != "" {
		t.Errorf("out of range lines should be empty")
	}
}

func TestDisplayPath(t *testing.T) {
	tests := []struct {
		sf       *SourceFile
		expected string
		isFile   bool
	}{
		{NewStdinSource("1"), "<stdin>", false},
		{NewEvalSource("1"), "<eval>", false},
		{FromFile("scripts/math.bas", "1"), "scripts/math.bas", true},
	}
	for _, tt := range tests {
		if got := tt.sf.DisplayPath(); got != tt.expected {
			t.Errorf("DisplayPath() = %q, want %q", got, tt.expected)
		}
		if tt.sf.IsFile() != tt.isFile {
			t.Errorf("IsFile() for %q = %v", tt.expected, !tt.isFile)
		}
	}
	if got := FromFile("scripts/math.bas", "").Name; got != "math.bas" {
		t.Errorf("FromFile name = %q", got)
	}
}
