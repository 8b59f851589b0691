package driver

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"basic/pkg/errors"
	"basic/pkg/interpreter"
	"basic/pkg/lexer"
	"basic/pkg/parser"
	"basic/pkg/runtime"
	"basic/pkg/source"
	"basic/pkg/value"
)

const debugDriver = false

func debugPrintf(format string, args ...interface{}) {
	if debugDriver {
		fmt.Printf(format, args...)
	}
}

// RunOptions configures optional debugging output
type RunOptions struct {
	ShowTokens bool
	ShowAST    bool
}

// Session represents a persistent interpreter session.
// Variables assigned in one evaluation are visible to the next ones.
// Evaluations are serialized, so a Session may be shared between goroutines.
type Session struct {
	mu      sync.Mutex
	config  *Config
	table   *runtime.SymbolTable
	context *runtime.Context
	interp  *interpreter.Interpreter
	options RunOptions
	out     io.Writer // destination for token and AST dumps
}

// NewSession creates a session with the default configuration.
func NewSession() *Session {
	return NewSessionWithConfig(DefaultConfig())
}

// NewSessionWithConfig creates a session whose root symbol table holds
// null = 0 plus the globals from cfg.
func NewSessionWithConfig(cfg *Config) *Session {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	table := runtime.NewSymbolTable(nil)
	table.Set("null", runtime.NewValue(value.Int(0)))
	for name, g := range cfg.Globals {
		table.Set(name, runtime.NewValue(g.Number))
	}

	ctx := runtime.NewContext(cfg.ContextName, nil, nil)
	ctx.SymbolTable = table

	return &Session{
		config:  cfg,
		table:   table,
		context: ctx,
		interp:  interpreter.New(),
		out:     os.Stdout,
	}
}

// SetOptions replaces the debugging options used by later runs.
func (s *Session) SetOptions(options RunOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = options
}

// SetOutput sets where token and AST dumps are written.
func (s *Session) SetOutput(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out = w
}

// Config returns the configuration the session was created with.
func (s *Session) Config() *Config {
	return s.config
}

// Globals returns the root symbol table.
func (s *Session) Globals() *runtime.SymbolTable {
	return s.table
}

// Run lexes, parses and evaluates text, reporting positions under name.
// The value is nil when evaluation succeeded without producing one.
func (s *Session) Run(name, text string) (*runtime.Value, errors.BasicError) {
	return s.RunSource(source.NewSourceFile(name, "", text))
}

// RunSource is Run for an already constructed source file.
func (s *Session) RunSource(src *source.SourceFile) (*runtime.Value, errors.BasicError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runRange(src, 0, len(src.Content))
}

// RunLines evaluates every line of src in turn, skipping blank lines and
// lines whose first non-blank character is '#'. It stops at the first error
// and otherwise returns the value of the last line evaluated.
func (s *Session) RunLines(src *source.SourceFile) (*runtime.Value, errors.BasicError) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var last *runtime.Value
	offset := 0
	for _, line := range src.Lines() {
		start, end := offset, offset+len(strings.TrimRight(line, "\r"))
		offset += len(line) + 1

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		v, err := s.runRange(src, start, end)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

func (s *Session) runRange(src *source.SourceFile, from, to int) (*runtime.Value, errors.BasicError) {
	debugPrintf("// [Driver] run %s [%d:%d]\n", src.DisplayPath(), from, to)

	tokens, err := lexer.TokenizeRange(src, from, to)
	if err != nil {
		return nil, err
	}
	if s.options.ShowTokens {
		fmt.Fprintln(s.out, "=== Tokens ===")
		for _, tok := range tokens {
			fmt.Fprintf(s.out, "%-16s %s\n", tok, tok.Start)
		}
		fmt.Fprintln(s.out, "==============")
	}

	node, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}

	if s.options.ShowAST {
		fmt.Fprintln(s.out, "=== AST ===")
		fmt.Fprint(s.out, parser.FormatTree(node))
		fmt.Fprintln(s.out, "===========")
	}

	return s.interp.Evaluate(node, s.context)
}

// DisplayResult prints the rendered error or the value to w.
// Returns true if there was no error. A missing value prints nothing.
func (s *Session) DisplayResult(w io.Writer, v *runtime.Value, err errors.BasicError) bool {
	if err != nil {
		errors.DisplayErrors(w, err)
		return false
	}
	if v != nil {
		fmt.Fprintln(w, v.String())
	}
	return true
}

// Run evaluates text in a fresh session.
func Run(name, text string) (*runtime.Value, errors.BasicError) {
	return NewSession().Run(name, text)
}

// ReadSource loads filename as a source file.
func ReadSource(filename string) (*source.SourceFile, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return source.FromFile(filename, string(content)), nil
}
