package parse

import (
	"bytes"
)

// Quote returns s as it must be written as a phrase string argument: as is if
// it is a valid unquoted word, otherwise double-quoted.
func Quote(s string) string {
	if s != "" && indexNot(s, isWordByte) == -1 {
		return s
	}
	return quoteDouble(s)
}

// Only the quote and the backslash can be escaped.
func quoteDouble(s string) string {
	var buf bytes.Buffer
	buf.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			buf.WriteByte('\\')
		}
		buf.WriteByte(s[i])
	}
	buf.WriteByte('"')
	return buf.String()
}
