package extract

import (
	"fmt"
	"io"
	"strings"
)

// contentText recovers the text layer from a decoded PDF content stream.
// It walks the stream token by token, collects string operands, and emits
// them when a text-showing operator (Tj, TJ, ' or ") consumes them. Text
// positioning operators (Td, TD, T*) and ET close out the current line,
// which keeps schedule rows and note blocks on separate lines the way
// they appear on the sheet.
func contentText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read content stream: %w", err)
	}

	var out strings.Builder
	var line strings.Builder
	var pending []string

	flushLine := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			out.WriteString(s)
			out.WriteByte('\n')
		}
		line.Reset()
	}
	showPending := func() {
		for _, s := range pending {
			line.WriteString(s)
		}
		pending = pending[:0]
	}

	i := 0
	n := len(data)
	for i < n {
		c := data[i]
		switch {
		case isPDFWhitespace(c):
			i++
		case c == '%':
			for i < n && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			s, next := parseLiteralString(data, i)
			pending = append(pending, s)
			i = next
		case c == '<':
			if i+1 < n && data[i+1] == '<' {
				i += 2
				continue
			}
			s, next := parseHexString(data, i)
			pending = append(pending, s)
			i = next
		case c == '[' || c == ']' || c == '{' || c == '}' || c == '>' || c == ')':
			i++
		case c == '/':
			i++
			for i < n && !isPDFDelimiter(data[i]) && !isPDFWhitespace(data[i]) {
				i++
			}
		default:
			start := i
			for i < n && !isPDFDelimiter(data[i]) && !isPDFWhitespace(data[i]) {
				i++
			}
			switch string(data[start:i]) {
			case "Tj", "TJ":
				showPending()
			case "'", "\"":
				flushLine()
				showPending()
			case "Td", "TD", "T*", "ET":
				flushLine()
				pending = pending[:0]
			default:
				// Numbers show up between TJ array elements as kerning
				// adjustments; keep the collected strings. Any other
				// operator means the strings were not text.
				if !isNumericToken(data[start:i]) {
					pending = pending[:0]
				}
			}
		}
	}
	flushLine()

	return out.String(), nil
}

// parseLiteralString parses a (...) string starting at open. Returns the
// decoded text and the index after the closing paren.
func parseLiteralString(data []byte, open int) (string, int) {
	var sb strings.Builder
	depth := 1
	i := open + 1
	n := len(data)

	for i < n && depth > 0 {
		c := data[i]
		switch c {
		case '\\':
			if i+1 >= n {
				i++
				continue
			}
			i++
			switch e := data[i]; e {
			case 'n':
				sb.WriteByte('\n')
				i++
			case 'r':
				sb.WriteByte('\r')
				i++
			case 't':
				sb.WriteByte('\t')
				i++
			case 'b', 'f':
				i++
			case '(', ')', '\\':
				sb.WriteByte(e)
				i++
			case '\r':
				i++
				if i < n && data[i] == '\n' {
					i++
				}
			case '\n':
				i++
			default:
				if e >= '0' && e <= '7' {
					val := 0
					for d := 0; d < 3 && i < n && data[i] >= '0' && data[i] <= '7'; d++ {
						val = val*8 + int(data[i]-'0')
						i++
					}
					writePrintable(&sb, byte(val))
				} else {
					sb.WriteByte(e)
					i++
				}
			}
		case '(':
			depth++
			sb.WriteByte(c)
			i++
		case ')':
			depth--
			if depth > 0 {
				sb.WriteByte(c)
			}
			i++
		default:
			writePrintable(&sb, c)
			i++
		}
	}

	return sb.String(), i
}

// parseHexString parses a <...> string starting at open. Returns the
// decoded text and the index after the closing bracket. UTF-16BE strings
// (BOM FEFF) keep their low bytes so Latin text survives.
func parseHexString(data []byte, open int) (string, int) {
	i := open + 1
	n := len(data)

	var nibbles []byte
	for i < n && data[i] != '>' {
		c := data[i]
		if v, ok := hexVal(c); ok {
			nibbles = append(nibbles, v)
		}
		i++
	}
	if i < n {
		i++ // consume '>'
	}
	if len(nibbles)%2 == 1 {
		nibbles = append(nibbles, 0)
	}

	raw := make([]byte, 0, len(nibbles)/2)
	for j := 0; j+1 < len(nibbles); j += 2 {
		raw = append(raw, nibbles[j]<<4|nibbles[j+1])
	}

	var sb strings.Builder
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		for j := 2; j+1 < len(raw); j += 2 {
			if raw[j] == 0 {
				writePrintable(&sb, raw[j+1])
			}
		}
	} else {
		for _, b := range raw {
			writePrintable(&sb, b)
		}
	}
	return sb.String(), i
}

// writePrintable keeps ASCII text and maps other bytes to a space so
// glyph runs in exotic encodings still separate words instead of
// producing garbage.
func writePrintable(sb *strings.Builder, b byte) {
	if b >= 0x20 && b < 0x7F {
		sb.WriteByte(b)
	} else if b == '\n' || b == '\r' || b == '\t' {
		sb.WriteByte(b)
	} else {
		sb.WriteByte(' ')
	}
}

func isNumericToken(tok []byte) bool {
	if len(tok) == 0 {
		return false
	}
	for i, c := range tok {
		if c >= '0' && c <= '9' || c == '.' {
			continue
		}
		if i == 0 && (c == '+' || c == '-') {
			continue
		}
		return false
	}
	return true
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func isPDFWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
