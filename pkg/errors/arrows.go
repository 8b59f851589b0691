package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"
)

// StringWithArrows returns every source line touched by [start, end) with a
// marker line of '^' underneath the covered part. A zero-width span still
// gets a single caret so end-of-input errors remain visible.
func StringWithArrows(start, end Position) string {
	if start.Source == nil {
		return ""
	}
	if end.Line < start.Line {
		end = start
	}

	var b strings.Builder
	lineCount := end.Line - start.Line + 1
	for i := 0; i < lineCount; i++ {
		text := strings.TrimRight(start.Source.Line(start.Line+i), "\r")

		colStart := 0
		if i == 0 {
			colStart = clamp(start.Column, 0, len(text))
		}
		colEnd := len(text)
		if i == lineCount-1 {
			colEnd = clamp(end.Column, 0, len(text))
		}

		b.WriteString(text)
		b.WriteByte('\n')
		b.WriteString(padding(text[:colStart]))
		carets := 1
		if colEnd > colStart {
			carets = max(displayWidth(text[colStart:colEnd]), 1)
		}
		b.WriteString(strings.Repeat("^", carets))
		if i < lineCount-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// padding produces whitespace that occupies the same terminal columns as
// prefix. Tabs are kept as tabs so both lines expand them identically.
func padding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runeWidth(r)))
	}
	return b.String()
}

func displayWidth(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		n += runeWidth(r)
	}
	return n
}

func runeWidth(r rune) int {
	switch {
	case r == utf8.RuneError:
		return 1
	case unicode.Is(unicode.Mn, r), unicode.Is(unicode.Me, r):
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
