package parse

import (
	"fmt"
	"reflect"
	"strings"
)

// Dump returns a compact representation of a tree for debugging and tests,
// such as "Root[2](Literal(gamemode), Literal(creative))". Leaves show their
// canonical text; a "!" after the type marks an invalid node.
func Dump(n Node) string {
	var sb strings.Builder
	dump(n, &sb)
	return sb.String()
}

func dump(n Node, sb *strings.Builder) {
	sb.WriteString(reflect.TypeOf(n).Elem().Name())
	if !n.n().valid {
		sb.WriteByte('!')
	}
	children := n.n().children
	if _, ok := n.(*Root); ok {
		fmt.Fprintf(sb, "[%d]", len(children))
	}
	sb.WriteByte('(')
	if len(children) == 0 {
		p := &Printer{}
		n.accept(p)
		sb.WriteString(p.String())
	}
	for i, ch := range children {
		if i > 0 {
			sb.WriteString(", ")
		}
		dump(ch, sb)
	}
	sb.WriteByte(')')
}
