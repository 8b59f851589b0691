package source

import (
	"path/filepath"
	"strings"
)

// SourceFile is a unit of program text together with the name it is reported under.
type SourceFile struct {
	Name    string   // Display name (e.g. "program.bas", "<stdin>")
	Path    string   // Full file path (empty for REPL/eval input)
	Content string   // The source text
	lines   []string // Cached split lines (lazy)
}

// NewSourceFile creates a new source file
func NewSourceFile(name, path, content string) *SourceFile {
	return &SourceFile{
		Name:    name,
		Path:    path,
		Content: content,
	}
}

// NewStdinSource creates a source file for a line read from the REPL
func NewStdinSource(content string) *SourceFile {
	return NewSourceFile("<stdin>", "", content)
}

// NewEvalSource creates a source file for -e input
func NewEvalSource(content string) *SourceFile {
	return NewSourceFile("<eval>", "", content)
}

// FromFile creates a SourceFile from a file path and content
func FromFile(filePath, content string) *SourceFile {
	return NewSourceFile(filepath.Base(filePath), filePath, content)
}

// Lines returns the source split into lines (cached)
func (sf *SourceFile) Lines() []string {
	if sf.lines == nil {
		sf.lines = strings.Split(sf.Content, "\n")
	}
	return sf.lines
}

// Line returns the 0-based line n, or "" when n is out of range.
func (sf *SourceFile) Line(n int) string {
	lines := sf.Lines()
	if n < 0 || n >= len(lines) {
		return ""
	}
	return lines[n]
}

// DisplayPath returns the best path for display (prefers Path, falls back to Name)
func (sf *SourceFile) DisplayPath() string {
	if sf.Path != "" {
		return sf.Path
	}
	return sf.Name
}

// IsFile returns true if this represents an actual file (has a path)
func (sf *SourceFile) IsFile() bool {
	return sf.Path != ""
}
