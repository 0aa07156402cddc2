package parse

import (
	"fmt"

	"src.mcfn.dev/pkg/diag"
)

// ErrorKind classifies parse errors.
type ErrorKind int

// Possible values of ErrorKind.
const (
	// No alternative matched at a decision point.
	SyntaxError ErrorKind = iota + 1
	// An argument was lexically fine but violated a declared constraint, such
	// as a numeric range.
	ConstraintError
	// The input ended at a node where the command may not end.
	IncompleteCommandError
	// Input remained after the command was complete.
	TrailingInputError
	// The parser has no grammar to parse with.
	NoSchemaError
)

var errorKindNames = [...]string{
	SyntaxError:            "syntax error",
	ConstraintError:        "constraint error",
	IncompleteCommandError: "incomplete command",
	TrailingInputError:     "trailing input",
	NoSchemaError:          "no schema",
}

func (k ErrorKind) String() string {
	if k <= 0 || int(k) >= len(errorKindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return errorKindNames[k]
}

// Error is a parse error. Errors are values attached to parse results; the
// parser never panics or returns them as Go errors on its own.
type Error struct {
	Kind ErrorKind
	diag.Ranging
	// Template and Args make up the message, as in fmt.Sprintf.
	Template string
	Args     []any
}

func newError(kind ErrorKind, r diag.Ranging, template string, args ...any) *Error {
	return &Error{kind, r, template, args}
}

// Pos returns the position of the error.
func (e *Error) Pos() int { return e.From }

// Message returns the message of the error.
func (e *Error) Message() string {
	if len(e.Args) == 0 {
		return e.Template
	}
	return fmt.Sprintf(e.Template, e.Args...)
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %d-%d: %s", e.Kind, e.From, e.To, e.Message())
}

// Show shows the error along with the relevant part of src, which must be
// the text that the positions of the error refer to.
func (e *Error) Show(name, src, indent string) string {
	return fmt.Sprintf("%s: \033[31;1m%s\033[m\n%s%s", e.Kind, e.Message(),
		indent+"  ", diag.NewContext(name, src, e).ShowCompact(indent+"  "))
}

// Equal reports whether two errors have the same kind, position and message.
func (e *Error) Equal(other *Error) bool {
	return e.Kind == other.Kind && e.Ranging == other.Ranging &&
		e.Message() == other.Message()
}

func (e *Error) shifted(off int) *Error {
	c := *e
	c.Ranging = e.Ranging.Shift(off)
	return &c
}
