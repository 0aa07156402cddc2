package parse

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"src.mcfn.dev/pkg/schema"
)

// ArgParser parses one argument starting at the position of the Reader. On
// success it returns a valid node and leaves the Reader after the consumed
// text. On failure it returns an error; it may also return the node it
// decoded, marked invalid, when the text was lexically fine but violated a
// constraint.
//
// Spans of returned nodes and errors are positions of the Reader.
type ArgParser func(r *Reader) (Node, *Error)

// ArgType describes an argument type identifier of the schema.
type ArgType struct {
	// New builds the parser for one set of schema properties. It is called
	// once per distinct set of properties, when a Parser is created.
	New func(props schema.Properties) (ArgParser, error)
	// Whether results may be cached by the text of their first token. Only
	// types that consume exactly one token can be cacheable.
	Cacheable bool
	// Whether the result depends on the position of the argument, so that
	// cache entries must be qualified by the position.
	Contextual bool
}

// Registry maps argument type identifiers to ArgTypes.
type Registry struct {
	types map[string]ArgType
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{make(map[string]ArgType)}
}

// DefaultRegistry returns a new Registry with all builtin argument types.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	registerBuiltins(reg)
	return reg
}

// Register adds or replaces an argument type.
func (reg *Registry) Register(id string, t ArgType) {
	reg.types[id] = t
}

// Lookup looks up an argument type.
func (reg *Registry) Lookup(id string) (ArgType, bool) {
	t, ok := reg.types[id]
	return t, ok
}

// IDs returns the registered identifiers in sorted order.
func (reg *Registry) IDs() []string {
	ids := make([]string, 0, len(reg.types))
	for id := range reg.types {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// A resolved argument parser, shared by all schema nodes with the same type
// identifier and properties.
type binding struct {
	id         int
	parser     string
	parse      ArgParser
	cacheable  bool
	contextual bool
}

// Type ID of whole lines in the line cache. Bindings start at 1.
const rootTypeID = 0

// Resolves the argument nodes of a schema.
type binder struct {
	reg     *Registry
	byNode  map[*schema.Node]*binding
	byKey   map[string]*binding
	unknown []string
}

// Returns the bindings of all argument nodes and the paths of argument nodes
// with unknown parsers.
func bind(s *schema.Schema, reg *Registry) (map[*schema.Node]*binding, []string, error) {
	b := &binder{reg: reg, byNode: make(map[*schema.Node]*binding), byKey: make(map[string]*binding)}
	var err error
	s.Walk(func(n *schema.Node) {
		if err != nil || n.Kind() != schema.Argument {
			return
		}
		var bd *binding
		bd, err = b.bind(n)
		if err == nil {
			b.byNode[n] = bd
		}
	})
	if err != nil {
		return nil, nil, err
	}
	if len(b.unknown) > 0 {
		logger.Printf("%d argument nodes use unknown parsers and accept any word", len(b.unknown))
	}
	return b.byNode, b.unknown, nil
}

func (b *binder) bind(n *schema.Node) (*binding, error) {
	props, err := json.Marshal(n.Properties())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.Join(n.Path(), " "), err)
	}
	// json.Marshal sorts map keys, so equal properties give equal keys.
	key := n.Parser() + string(props)
	t, ok := b.reg.Lookup(n.Parser())
	if !ok {
		path := strings.Join(n.Path(), " ")
		logger.Printf("%s: unknown parser %s", path, n.Parser())
		b.unknown = append(b.unknown, path+": "+n.Parser())
		t = rawType(n.Parser())
	}
	if bd, ok := b.byKey[key]; ok {
		return bd, nil
	}

	parse, err := t.New(n.Properties())
	if err != nil {
		return nil, fmt.Errorf("%s: parser %s: %w", strings.Join(n.Path(), " "), n.Parser(), err)
	}
	bd := &binding{
		id:         len(b.byKey) + 1,
		parser:     n.Parser(),
		parse:      parse,
		cacheable:  t.Cacheable,
		contextual: t.Contextual,
	}
	b.byKey[key] = bd
	return bd, nil
}
