package scripts

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"basic/pkg/errors"
	"basic/pkg/runtime"
)

// ResultType says what a script is expected to produce.
type ResultType string

const (
	ResultValue ResultType = "value"
	ResultError ResultType = "error"
)

// patternTimeout bounds matching of user-supplied error patterns.
const patternTimeout = time.Second

// Expectation represents the expected outcome of a script.
type Expectation struct {
	ResultType ResultType
	Value      string // expected printed value, or the error pattern source
	Line       int    // 1-based line of the directive

	pattern *regexp2.Regexp
}

var expectRegex = regexp2.MustCompile(`^\s*#\s*(?<kind>expect(?:_error)?):[ \t]*(?<value>.*?)\s*$`, regexp2.None)

// ParseExpectation extracts the expectation from the script's comments.
// Looks for lines like:
//
//	# expect: 14
//	# expect_error: Division by zero
//
// The first directive wins.
func ParseExpectation(content string) (*Expectation, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		m, err := expectRegex.FindStringMatch(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if m == nil {
			continue
		}

		exp := &Expectation{
			Value: m.GroupByName("value").String(),
			Line:  lineNo,
		}
		switch m.GroupByName("kind").String() {
		case "expect":
			exp.ResultType = ResultValue
		case "expect_error":
			exp.ResultType = ResultError
			if exp.Value == "" {
				return nil, fmt.Errorf("line %d: expect_error needs a pattern", lineNo)
			}
			if _, err := exp.matcher(); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
		return exp, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading script content: %w", err)
	}
	return nil, ErrNoExpectation
}

// ErrNoExpectation is returned for scripts without an expect directive.
var ErrNoExpectation = stderrors.New("no expectation comment found (e.g., # expect: value)")

// Check compares an evaluation outcome against the expectation and
// describes the mismatch, if any. A missing value prints as "".
func (e *Expectation) Check(v *runtime.Value, runErr errors.BasicError) error {
	switch e.ResultType {
	case ResultValue:
		if runErr != nil {
			return fmt.Errorf("expected value %q, but got error:\n%s", e.Value, runErr.Render())
		}
		actual := ""
		if v != nil {
			actual = v.String()
		}
		if actual != e.Value {
			return fmt.Errorf("expected output %q, but got %q", e.Value, actual)
		}
		return nil

	case ResultError:
		if runErr == nil {
			actual := "nothing"
			if v != nil {
				actual = v.String()
			}
			return fmt.Errorf("expected error matching %q, but got %s", e.Value, actual)
		}
		re, err := e.matcher()
		if err != nil {
			return err
		}
		rendered := runErr.Render()
		ok, err := re.MatchString(rendered)
		if err != nil {
			return fmt.Errorf("matching %q: %w", e.Value, err)
		}
		if !ok {
			return fmt.Errorf("expected error matching %q, but got:\n%s", e.Value, rendered)
		}
		return nil
	}
	return fmt.Errorf("unexpected expectation type %q", e.ResultType)
}

// matcher compiles the error pattern on first use.
func (e *Expectation) matcher() (*regexp2.Regexp, error) {
	if e.pattern != nil {
		return e.pattern, nil
	}
	re, err := regexp2.Compile(e.Value, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("bad expect_error pattern %q: %w", e.Value, err)
	}
	re.MatchTimeout = patternTimeout
	e.pattern = re
	return re, nil
}
