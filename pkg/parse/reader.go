package parse

import (
	"strings"

	"src.mcfn.dev/pkg/diag"
)

// Reader is the cursor handed to argument parsers. It holds the text of one
// line and the position where the argument starts; positions are byte offsets
// relative to the line.
type Reader struct {
	src string
	pos int
}

// NewReader returns a Reader at the start of src.
func NewReader(src string) *Reader { return &Reader{src: src} }

// Pos returns the current position.
func (r *Reader) Pos() int { return r.pos }

// Rest returns the text after the current position.
func (r *Reader) Rest() string { return r.src[r.pos:] }

// AtEnd reports whether the reader is at the end of the text.
func (r *Reader) AtEnd() bool { return r.pos >= len(r.src) }

// Peek returns the byte at the current position, or 0 at the end.
func (r *Reader) Peek() byte {
	if r.AtEnd() {
		return 0
	}
	return r.src[r.pos]
}

// Advance moves the position forward by n bytes.
func (r *Reader) Advance(n int) { r.pos = min(r.pos+n, len(r.src)) }

// Token returns the text from the current position up to the next whitespace
// or the end, without consuming it.
func (r *Reader) Token() string { return token(r.Rest()) }

// ReadToken consumes and returns the Token.
func (r *Reader) ReadToken() string {
	t := r.Token()
	r.pos += len(t)
	return t
}

// ReadWhile consumes and returns the longest prefix of bytes satisfying f.
func (r *Reader) ReadWhile(f func(byte) bool) string {
	begin := r.pos
	for r.pos < len(r.src) && f(r.src[r.pos]) {
		r.pos++
	}
	return r.src[begin:r.pos]
}

// Since returns the range from begin to the current position.
func (r *Reader) Since(begin int) diag.Ranging { return diag.Ranging{From: begin, To: r.pos} }

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

func token(s string) string {
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i]
	}
	return s
}

// Whether b may appear in an unquoted string.
func isWordByte(b byte) bool {
	return '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' ||
		b == '_' || b == '-' || b == '.' || b == '+'
}

func isNumberByte(b byte) bool {
	return '0' <= b && b <= '9' || b == '.' || b == '-'
}
