package driver

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"basic/pkg/lexer"
	"basic/pkg/source"
	"basic/pkg/value"
)

// DefaultConfigFile is read by the CLI when -config is not given and the
// file exists in the working directory.
const DefaultConfigFile = "basic.yaml"

// Config holds the settings of a session and of the CLI around it.
type Config struct {
	Path string `yaml:"-"`

	Prompt      string            `yaml:"prompt"`
	SourceName  string            `yaml:"source_name"`
	ContextName string            `yaml:"context_name"`
	HistoryFile string            `yaml:"history_file,omitempty"`
	Globals     map[string]Global `yaml:"globals,omitempty"`
	Workers     int               `yaml:"workers"`
}

// Global is a number predefined in every session's root symbol table.
type Global struct {
	value.Number
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Prompt:      "basic > ",
		SourceName:  "<stdin>",
		ContextName: "<program>",
		Workers:     4,
	}
}

// LoadConfig reads a YAML config from path. Keys missing from the file keep
// their default values; unknown keys are an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg, err := DecodeConfig(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	cfg.Path = abs
	return cfg, nil
}

// DecodeConfig reads a YAML config from r on top of DefaultConfig.
func DecodeConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteConfig serialises cfg to path.
func WriteConfig(cfg *Config, path string) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config")
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("config: marshal %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("config: encoder close: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// GlobalNames returns the configured global names in sorted order.
func (c *Config) GlobalNames() []string {
	names := make([]string, 0, len(c.Globals))
	for name := range c.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if strings.TrimSpace(c.SourceName) == "" {
		return fmt.Errorf("source_name must not be empty")
	}
	if strings.TrimSpace(c.ContextName) == "" {
		return fmt.Errorf("context_name must not be empty")
	}
	for _, name := range c.GlobalNames() {
		if !isIdentifier(name) {
			return fmt.Errorf("global %q is not a valid identifier", name)
		}
		if f := c.Globals[name].AsFloat(); math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("global %q must be finite", name)
		}
	}
	return nil
}

// isIdentifier reports whether name scans as exactly one IDENTIFIER token.
func isIdentifier(name string) bool {
	tokens, err := lexer.Tokenize(source.NewSourceFile("<config>", "", name))
	if err != nil || len(tokens) != 2 {
		return false
	}
	return tokens[0].Type == lexer.IDENTIFIER && tokens[0].Literal == name
}

// UnmarshalYAML accepts an integer or float scalar.
func (g *Global) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: global must be a number", node.Line)
	}
	switch node.ShortTag() {
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return err
		}
		g.Number = value.Int(i)
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}
		g.Number = value.Float(f)
	default:
		return fmt.Errorf("line %d: global must be a number, got %q", node.Line, node.Value)
	}
	return nil
}

// MarshalYAML writes floats with a decimal point so they read back as floats.
func (g Global) MarshalYAML() (interface{}, error) {
	tag := "!!int"
	if g.IsFloat() {
		tag = "!!float"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: g.String()}, nil
}
