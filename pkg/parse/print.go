package parse

import (
	"strconv"
	"strings"
)

// Printer is a Visitor that collects the canonical text of the nodes it
// visits. Tokens are joined with single spaces; numbers are printed in their
// shortest form, resource locations with their namespace and times in ticks.
type Printer struct {
	tokens []string
}

// Print returns the canonical text of a tree. For a valid command, the text
// parses to an equivalent tree.
func Print(n Node) string {
	p := &Printer{}
	Walk(n, p, PreOrder)
	return p.String()
}

// PrintFile returns the canonical text of a document: valid commands are
// reprinted, other lines are kept as is.
func PrintFile(ft *FileTree) string {
	var sb strings.Builder
	for i, l := range ft.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if _, skip := l.Node.(*Skip); !skip && l.Valid() {
			sb.WriteString(Print(l.Node))
		} else {
			sb.WriteString(l.Text)
		}
	}
	return sb.String()
}

// String returns the text collected so far.
func (p *Printer) String() string { return strings.Join(p.tokens, " ") }

func (p *Printer) emit(s string) { p.tokens = append(p.tokens, s) }

func (p *Printer) VisitRoot(*Root)          {}
func (p *Printer) VisitLiteral(n *Literal)  { p.emit(n.Name) }
func (p *Printer) VisitBool(n *Bool)        { p.emit(strconv.FormatBool(n.Value)) }
func (p *Printer) VisitInteger(n *Integer)  { p.emit(strconv.FormatInt(int64(n.Value), 10)) }
func (p *Printer) VisitLong(n *Long)        { p.emit(strconv.FormatInt(n.Value, 10)) }
func (p *Printer) VisitFloat(n *Float)      { p.emit(strconv.FormatFloat(float64(n.Value), 'f', -1, 32)) }
func (p *Printer) VisitDouble(n *Double)    { p.emit(strconv.FormatFloat(n.Value, 'f', -1, 64)) }
func (p *Printer) VisitUUID(n *UUID)        { p.emit(n.Value.String()) }
func (p *Printer) VisitEnum(n *Enum)        { p.emit(n.Value) }
func (p *Printer) VisitTime(n *Time)        { p.emit(strconv.Itoa(n.Ticks)) }
func (p *Printer) VisitRaw(n *Raw)          { p.emit(n.Text) }
func (p *Printer) VisitSkip(n *Skip)        { p.emit(n.Text) }

func (p *Printer) VisitString(n *String) {
	switch {
	case n.Mode != Phrase:
		p.emit(n.Value)
	case n.Quoted:
		p.emit(quoteDouble(n.Value))
	default:
		p.emit(Quote(n.Value))
	}
}

func (p *Printer) VisitResourceLocation(n *ResourceLocation) {
	s := n.Namespace + ":" + n.Path
	if n.Tag {
		s = "#" + s
	}
	p.emit(s)
}

var axisSigils = [...]string{Absolute: "", Relative: "~", Local: "^"}

func (p *Printer) VisitCoordinates(n *Coordinates) {
	axes := make([]string, len(n.Axes))
	for i, a := range n.Axes {
		v := strconv.FormatFloat(a.Value, 'f', -1, 64)
		if a.Kind != Absolute && a.Value == 0 {
			v = ""
		}
		axes[i] = axisSigils[a.Kind] + v
	}
	p.emit(strings.Join(axes, " "))
}
