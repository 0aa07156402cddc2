// Package schema loads and represents command grammars.
//
// A grammar is a tree of literal and argument nodes, described by a document
// in the shape of the brigadier commands.json file:
//
//	{
//	  "type": "root",
//	  "children": {
//	    "gamemode": {
//	      "type": "literal",
//	      "children": {
//	        "creative": {"type": "literal", "executable": true}
//	      }
//	    }
//	  }
//	}
//
// Both JSON and YAML documents are accepted. The order of children in the
// document is the order in which the parser tries them.
package schema

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
	"src.mcfn.dev/pkg/logutil"
)

var logger = logutil.GetLogger("[schema] ")

// Schema is a loaded grammar. It is immutable and safe for concurrent reads.
type Schema struct {
	name  string
	root  *Node
	nodes int
}

// LoadError is returned when a schema document cannot be loaded.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load schema %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Errors wrapped in LoadError.
var (
	ErrEmptyDocument = errors.New("empty document")
	ErrNotRoot       = errors.New("document is not a root node")
)

// Empty returns a schema without any command. Parsing any non-blank line with
// it fails.
func Empty() *Schema {
	return &Schema{name: "<empty>", root: &Node{kind: Root}, nodes: 1}
}

// LoadFile loads a schema from a file. On failure, it returns an empty schema
// along with a *LoadError.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Printf("reading %s: %v", path, err)
		return Empty(), &LoadError{path, err}
	}
	return Parse(path, data)
}

// Load loads a schema from a reader. On failure, it returns an empty schema
// along with a *LoadError.
func Load(name string, r io.Reader) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Empty(), &LoadError{name, err}
	}
	return Parse(name, data)
}

// Parse loads a schema from the content of a document. On failure, it returns
// an empty schema along with a *LoadError.
func Parse(name string, data []byte) (*Schema, error) {
	s, err := parse(name, data)
	if err != nil {
		logger.Printf("%s: %v", name, err)
		return Empty(), &LoadError{name, err}
	}
	logger.Printf("loaded %s with %d nodes", name, s.nodes)
	return s, nil
}

func parse(name string, data []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmptyDocument
	}
	if err := validateShape(&doc); err != nil {
		return nil, err
	}
	b := &builder{}
	root, err := b.build(doc.Content[0], "")
	if err != nil {
		return nil, err
	}
	if root.kind != Root {
		return nil, ErrNotRoot
	}
	s := &Schema{name: name, root: root, nodes: b.nodes}
	for _, n := range b.redirects {
		target := s.Lookup(n.redirect...)
		if target == nil {
			return nil, fmt.Errorf("%v: redirect target %v not found", n.Path(), n.redirect)
		}
		n.target = target
	}
	return s, nil
}

// Name returns the name the schema was loaded from.
func (s *Schema) Name() string { return s.name }

// Root returns the root node.
func (s *Schema) Root() *Node { return s.root }

// Len returns the number of nodes in the schema.
func (s *Schema) Len() int { return s.nodes }

// IsEmpty reports whether the schema has no commands.
func (s *Schema) IsEmpty() bool { return len(s.root.children) == 0 }

// Lookup returns the node reached by following the given child names from the
// root, or nil. Redirects are followed. Lookup with no names returns the root.
func (s *Schema) Lookup(path ...string) *Node {
	n := s.root
	for _, name := range path {
		n = n.Child(name)
		if n == nil {
			return nil
		}
	}
	return n
}

// Walk calls f for each node in the schema in pre-order, children in
// declaration order. Redirects are not followed.
func (s *Schema) Walk(f func(*Node)) {
	var walk func(*Node)
	walk = func(n *Node) {
		f(n)
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(s.root)
}

type builder struct {
	nodes     int
	redirects []*Node
}

func (b *builder) build(y *yaml.Node, name string) (*Node, error) {
	n := &Node{name: name}
	b.nodes++
	var kind string
	if err := decodeField(y, "type", &kind); err != nil {
		return nil, err
	}
	switch kind {
	case "root":
		n.kind = Root
	case "literal":
		n.kind = Literal
	case "argument":
		n.kind = Argument
	}
	if err := decodeField(y, "executable", &n.executable); err != nil {
		return nil, err
	}
	if err := decodeField(y, "parser", &n.parser); err != nil {
		return nil, err
	}
	if err := decodeField(y, "properties", &n.props); err != nil {
		return nil, err
	}
	if r := field(y, "redirect"); r != nil {
		if err := r.Decode(&n.redirect); err != nil {
			return nil, err
		}
		n.hasRedirect = true
		b.redirects = append(b.redirects, n)
	}
	if c := field(y, "children"); c != nil {
		// Mapping nodes keep their keys and values interleaved in document
		// order.
		for i := 0; i+1 < len(c.Content); i += 2 {
			child, err := b.build(c.Content[i+1], c.Content[i].Value)
			if err != nil {
				return nil, err
			}
			if child.kind == Root {
				return nil, fmt.Errorf("line %d: root node %q nested in tree",
					c.Content[i].Line, child.name)
			}
			n.addChild(child)
		}
	}
	return n, nil
}

func field(y *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(y.Content); i += 2 {
		if y.Content[i].Value == key {
			return y.Content[i+1]
		}
	}
	return nil
}

func decodeField(y *yaml.Node, key string, ptr any) error {
	if f := field(y, key); f != nil {
		return f.Decode(ptr)
	}
	return nil
}
