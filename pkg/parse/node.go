package parse

import (
	"github.com/google/uuid"
	"src.mcfn.dev/pkg/diag"
)

// Node represents a node in a parse tree. The set of node types is closed:
// every type implementing Node is declared in this package, and Visitor has
// one method for each of them.
type Node interface {
	diag.Ranger
	n() *node
	accept(Visitor)
	// Returns a copy of the node sharing no mutable state with it.
	clone() Node
}

// Common fields of all node types.
type node struct {
	diag.Ranging
	valid    bool
	children []Node
}

func (n *node) n() *node { return n }

func (n *node) cloneBase() node {
	c := node{Ranging: n.Ranging, valid: n.valid}
	if len(n.children) > 0 {
		c.children = make([]Node, len(n.children))
		for i, ch := range n.children {
			c.children[i] = ch.clone()
		}
	}
	return c
}

// Valid reports whether the node and all its descendants are valid.
func Valid(n Node) bool {
	b := n.n()
	if !b.valid {
		return false
	}
	for _, ch := range b.children {
		if !Valid(ch) {
			return false
		}
	}
	return true
}

// Children returns the children of a node.
func Children(n Node) []Node { return n.n().children }

// SourceText returns the part of src covered by the span of the node.
func SourceText(n Node, src string) string {
	r := n.Range()
	return src[r.From:r.To]
}

func addChild(p, ch Node) {
	p.n().children = append(p.n().children, ch)
}

// Moves the spans of a node and its descendants by off bytes.
func shift(n Node, off int) {
	if off == 0 {
		return
	}
	b := n.n()
	b.Ranging = b.Ranging.Shift(off)
	for _, ch := range b.children {
		shift(ch, off)
	}
}

// Root is the root of the parse tree of one command. Its span covers the
// whole line.
type Root struct {
	node
}

func (n *Root) clone() Node { return &Root{n.cloneBase()} }

// Literal is a keyword matched against a literal node of the schema.
type Literal struct {
	node
	Name string
}

func (n *Literal) clone() Node { return &Literal{n.cloneBase(), n.Name} }

// Bool is a brigadier:bool argument.
type Bool struct {
	node
	Value bool
}

func (n *Bool) clone() Node { return &Bool{n.cloneBase(), n.Value} }

// Integer is a brigadier:integer argument.
type Integer struct {
	node
	Value int32
}

func (n *Integer) clone() Node { return &Integer{n.cloneBase(), n.Value} }

// Long is a brigadier:long argument.
type Long struct {
	node
	Value int64
}

func (n *Long) clone() Node { return &Long{n.cloneBase(), n.Value} }

// Float is a brigadier:float argument.
type Float struct {
	node
	Value float32
}

func (n *Float) clone() Node { return &Float{n.cloneBase(), n.Value} }

// Double is a brigadier:double argument.
type Double struct {
	node
	Value float64
}

func (n *Double) clone() Node { return &Double{n.cloneBase(), n.Value} }

// StringMode is how a string argument is delimited.
type StringMode int

// Possible values of StringMode.
const (
	// A single word of unquoted characters.
	Word StringMode = iota
	// A word, or a single- or double-quoted string.
	Phrase
	// The rest of the line.
	Greedy
)

// String is a brigadier:string argument or another textual argument.
type String struct {
	node
	Value  string
	Mode   StringMode
	Quoted bool
}

func (n *String) clone() Node { return &String{n.cloneBase(), n.Value, n.Mode, n.Quoted} }

// ResourceLocation is a namespaced identifier such as minecraft:stone. An
// omitted namespace is stored as "minecraft".
type ResourceLocation struct {
	node
	Namespace string
	Path      string
	// Whether the identifier names a tag, written with a leading '#'.
	Tag bool
}

func (n *ResourceLocation) clone() Node {
	return &ResourceLocation{n.cloneBase(), n.Namespace, n.Path, n.Tag}
}

// UUID is a minecraft:uuid argument.
type UUID struct {
	node
	Value uuid.UUID
}

func (n *UUID) clone() Node { return &UUID{n.cloneBase(), n.Value} }

// Enum is an argument whose value is one of a fixed set of names, such as
// minecraft:color or minecraft:operation.
type Enum struct {
	node
	Parser string
	Value  string
}

func (n *Enum) clone() Node { return &Enum{n.cloneBase(), n.Parser, n.Value} }

// Time is a minecraft:time argument, normalized to game ticks.
type Time struct {
	node
	Ticks int
}

func (n *Time) clone() Node { return &Time{n.cloneBase(), n.Ticks} }

// AxisKind is how one coordinate of a position is specified.
type AxisKind int

// Possible values of AxisKind.
const (
	Absolute AxisKind = iota
	// Relative to the executor, written with '~'.
	Relative
	// Local to the executor's rotation, written with '^'.
	Local
)

// Axis is one coordinate of a position.
type Axis struct {
	Kind  AxisKind
	Value float64
}

// Coordinates is a position or rotation argument, such as minecraft:vec3 or
// minecraft:block_pos.
type Coordinates struct {
	node
	Axes []Axis
	// Whether absolute values and offsets are integers.
	Integer bool
}

func (n *Coordinates) clone() Node {
	return &Coordinates{n.cloneBase(), append([]Axis(nil), n.Axes...), n.Integer}
}

// Raw is an argument of a type without a dedicated parser. It holds a single
// word.
type Raw struct {
	node
	Parser string
	Text   string
}

func (n *Raw) clone() Node { return &Raw{n.cloneBase(), n.Parser, n.Text} }

// Skip is a line of a document that is not parsed as a command: a blank line
// or a comment. It is always valid.
type Skip struct {
	node
	Text    string
	Comment bool
}

func (n *Skip) clone() Node { return &Skip{n.cloneBase(), n.Text, n.Comment} }

func newSkip(r diag.Ranging, text string, comment bool) *Skip {
	return &Skip{node{Ranging: r, valid: true}, text, comment}
}
