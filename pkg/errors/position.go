package errors

import (
	"fmt"

	"basic/pkg/source"
)

// Position is a cursor into a source file. Line and Column are 0-based;
// they are cached alongside Offset so diagnostics never rescan the text.
type Position struct {
	Offset int                // 0-based byte offset
	Line   int                // 0-based line number
	Column int                // 0-based column (byte index within the line)
	Source *source.SourceFile // Source the position points into
}

// Start returns the position just before the first character of src.
// Advancing it once yields offset 0, line 0, column 0.
func Start(src *source.SourceFile) Position {
	return Position{Offset: -1, Line: 0, Column: -1, Source: src}
}

// Advance returns the position one byte further along. prev is the byte
// being stepped over; crossing a newline moves to the next line.
func (p Position) Advance(prev byte) Position {
	p.Offset++
	p.Column++
	if prev == '\n' {
		p.Line++
		p.Column = 0
	}
	return p
}

// FileName is the name diagnostics report for this position.
func (p Position) FileName() string {
	if p.Source == nil {
		return "<unknown>"
	}
	return p.Source.DisplayPath()
}

// Text is the full source text the position belongs to.
func (p Position) Text() string {
	if p.Source == nil {
		return ""
	}
	return p.Source.Content
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.FileName(), p.Line+1, p.Column+1)
}

// Span is a half-open source range [Start, End).
type Span struct {
	Start Position
	End   Position
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	if s.End.Offset < s.Start.Offset {
		return 0
	}
	return s.End.Offset - s.Start.Offset
}
