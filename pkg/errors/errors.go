package errors

import (
	"fmt"
	"io"
	"strings"
)

// BasicError is the interface implemented by every diagnostic the pipeline produces.
type BasicError interface {
	error
	Kind() string    // e.g. "Illegal Character", "Invalid Syntax", "Runtime Error"
	Message() string // the message without position info
	Span() Span
	// Render returns the full user-facing report: header, location and an
	// arrowed excerpt of the offending source.
	Render() string
}

// Frame is one evaluation context in a runtime traceback. The runtime
// package's Context implements it.
type Frame interface {
	FrameName() string
	ParentFrame() Frame
	// ParentEntry is the position in the parent frame where this frame was
	// entered. ok is false for the outermost frame.
	ParentEntry() (pos Position, ok bool)
}

// diagnostic holds what every error kind shares.
type diagnostic struct {
	Start Position
	End   Position
	Msg   string
}

func (d diagnostic) Span() Span      { return Span{Start: d.Start, End: d.End} }
func (d diagnostic) Message() string { return d.Msg }

func (d diagnostic) format(kind string) string {
	return fmt.Sprintf("%s: %s (%s)", kind, d.Msg, d.Start)
}

func (d diagnostic) render(kind string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", kind, d.Msg)
	fmt.Fprintf(&b, "File %s, line %d", d.Start.FileName(), d.Start.Line+1)
	b.WriteString("\n\n")
	b.WriteString(StringWithArrows(d.Start, d.End))
	return b.String()
}

// --- Concrete Error Types ---

// IllegalCharError reports a character the lexer does not recognise.
type IllegalCharError struct{ diagnostic }

// NewIllegalCharError builds an IllegalCharError; info is the quoted character.
func NewIllegalCharError(start, end Position, info string) *IllegalCharError {
	return &IllegalCharError{diagnostic{Start: start, End: end, Msg: info}}
}

func (e *IllegalCharError) Kind() string   { return "Illegal Character" }
func (e *IllegalCharError) Error() string  { return e.format(e.Kind()) }
func (e *IllegalCharError) Render() string { return e.render(e.Kind()) }

// ExpectedCharError reports a multi-character operator missing its follow-up character.
type ExpectedCharError struct{ diagnostic }

func NewExpectedCharError(start, end Position, info string) *ExpectedCharError {
	return &ExpectedCharError{diagnostic{Start: start, End: end, Msg: info}}
}

func (e *ExpectedCharError) Kind() string   { return "Expected Character" }
func (e *ExpectedCharError) Error() string  { return e.format(e.Kind()) }
func (e *ExpectedCharError) Render() string { return e.render(e.Kind()) }

// SyntaxError represents a token sequence that matches no grammar rule.
type SyntaxError struct{ diagnostic }

func NewSyntaxError(start, end Position, info string) *SyntaxError {
	return &SyntaxError{diagnostic{Start: start, End: end, Msg: info}}
}

func (e *SyntaxError) Kind() string   { return "Invalid Syntax" }
func (e *SyntaxError) Error() string  { return e.format(e.Kind()) }
func (e *SyntaxError) Render() string { return e.render(e.Kind()) }

// RuntimeError represents a failure during evaluation. Context is the frame
// the failure happened in and is walked to build the traceback.
type RuntimeError struct {
	diagnostic
	Context Frame
}

func NewRuntimeError(start, end Position, info string, ctx Frame) *RuntimeError {
	return &RuntimeError{diagnostic: diagnostic{Start: start, End: end, Msg: info}, Context: ctx}
}

func (e *RuntimeError) Kind() string  { return "Runtime Error" }
func (e *RuntimeError) Error() string { return e.format(e.Kind()) }

func (e *RuntimeError) Render() string {
	var b strings.Builder
	b.WriteString(e.Traceback())
	fmt.Fprintf(&b, "%s: %s\n\n", e.Kind(), e.Msg)
	b.WriteString(StringWithArrows(e.Start, e.End))
	return b.String()
}

// Traceback lists the frames leading to the error, outermost first.
func (e *RuntimeError) Traceback() string {
	var frames []string
	pos := e.Start
	for ctx := e.Context; ctx != nil; ctx = ctx.ParentFrame() {
		frames = append(frames, fmt.Sprintf(" File %s, line %d, in %s\n", pos.FileName(), pos.Line+1, ctx.FrameName()))
		if entry, ok := ctx.ParentEntry(); ok {
			pos = entry
		}
	}

	var b strings.Builder
	b.WriteString("Traceback (most recent call last):\n")
	for i := len(frames) - 1; i >= 0; i-- {
		b.WriteString(frames[i])
	}
	return b.String()
}

// --- Error Reporting ---

// DisplayErrors writes the rendered form of each error to w, separated by blank lines.
func DisplayErrors(w io.Writer, errs ...BasicError) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		fmt.Fprintln(w, err.Render())
		fmt.Fprintln(w)
	}
}
