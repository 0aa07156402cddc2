package schema

import "fmt"

// Kind is the kind of a schema node.
type Kind int

// Possible values for Kind.
const (
	Root Kind = iota
	Literal
	Argument
)

var kindNames = [...]string{Root: "root", Literal: "literal", Argument: "argument"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Properties holds the constraint properties of an argument node, such as
// "min" and "max" for numbers or "type" for strings.
type Properties map[string]any

// Int returns the integer property with the given key.
func (p Properties) Int(key string) (int64, bool) {
	switch v := p[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}

// Float returns the numeric property with the given key.
func (p Properties) Float(key string) (float64, bool) {
	switch v := p[key].(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// String returns the string property with the given key.
func (p Properties) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

// Node is a node in the command grammar. Nodes are immutable once the schema
// containing them has been loaded.
type Node struct {
	kind       Kind
	name       string
	parser     string
	props      Properties
	executable bool

	children []*Node
	literals map[string]*Node
	parent   *Node

	redirect    []string
	hasRedirect bool
	target      *Node
}

// Kind returns the kind of the node.
func (n *Node) Kind() Kind { return n.kind }

// Name returns the literal text of a literal node, or the parameter name of
// an argument node. The root has an empty name.
func (n *Node) Name() string { return n.name }

// Parser returns the argument type identifier of an argument node, or "".
func (n *Node) Parser() string { return n.parser }

// Properties returns the constraint properties of an argument node. The
// returned map must not be modified.
func (n *Node) Properties() Properties { return n.props }

// Executable reports whether a command may terminate at this node.
func (n *Node) Executable() bool { return n.executable }

// Parent returns the parent of the node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Redirect returns the node whose children this node continues with, or nil.
func (n *Node) Redirect() *Node { return n.target }

// Children returns the children to try after this node, in declaration order.
// A node without children of its own but with a redirect continues with the
// children of the redirect target.
func (n *Node) Children() []*Node {
	if len(n.children) == 0 && n.target != nil {
		return n.target.children
	}
	return n.children
}

// Literals returns the literal children in declaration order.
func (n *Node) Literals() []*Node { return filter(n.Children(), Literal) }

// Arguments returns the argument children in declaration order.
func (n *Node) Arguments() []*Node { return filter(n.Children(), Argument) }

// Literal returns the literal child with the given name, or nil.
func (n *Node) Literal(name string) *Node {
	if len(n.children) == 0 && n.target != nil {
		return n.target.literals[name]
	}
	return n.literals[name]
}

// Child returns the child (literal or argument) with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children() {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Path returns the names from the root to the node.
func (n *Node) Path() []string {
	var path []string
	for p := n; p != nil && p.kind != Root; p = p.parent {
		path = append([]string{p.name}, path...)
	}
	return path
}

func (n *Node) String() string {
	switch n.kind {
	case Root:
		return "<root>"
	case Argument:
		return "<" + n.name + ">"
	default:
		return n.name
	}
}

func filter(nodes []*Node, k Kind) []*Node {
	var result []*Node
	for _, n := range nodes {
		if n.kind == k {
			result = append(result, n)
		}
	}
	return result
}

func (n *Node) addChild(c *Node) {
	c.parent = n
	n.children = append(n.children, c)
	if c.kind == Literal {
		if n.literals == nil {
			n.literals = make(map[string]*Node)
		}
		n.literals[c.name] = c
	}
}
