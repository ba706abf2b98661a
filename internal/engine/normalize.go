package engine

import (
	"strings"
	"unicode"
)

// Normalize prepares raw page text for pattern matching: lowercases,
// collapses horizontal whitespace runs to single spaces, strips
// non-printable characters, and trims each line while preserving line
// boundaries (rules anchor per line). Numeric tokens pass through
// unchanged. Total over any input; empty in, empty out.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	lines := strings.Split(raw, "\n")
	out := make([]string, len(lines))

	for i, line := range lines {
		var b strings.Builder
		b.Grow(len(line))
		lastSpace := true // leading whitespace is dropped

		for _, r := range line {
			switch {
			case r == '\r':
				// CRLF artifact
			case unicode.IsSpace(r):
				if !lastSpace {
					b.WriteByte(' ')
					lastSpace = true
				}
			case unicode.IsPrint(r):
				b.WriteRune(unicode.ToLower(r))
				lastSpace = false
			}
		}

		out[i] = strings.TrimRight(b.String(), " ")
	}

	return strings.Join(out, "\n")
}
