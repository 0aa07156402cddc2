// Package parse implements the command parser.
//
// Commands are parsed against a [schema.Schema] one line at a time. Parsing
// never fails as a whole: the result is always a tree, with errors attached
// as data. A [FileParser] parses whole documents, reusing the results of
// earlier parses through a [nodecache.Cache].
package parse

import (
	"fmt"
	"io"

	"src.mcfn.dev/pkg/logutil"
	"src.mcfn.dev/pkg/nodecache"
	"src.mcfn.dev/pkg/schema"
)

var logger = logutil.GetLogger("[parse] ")

// DefaultCacheCapacity is the cache capacity used when Config.CacheCapacity
// is 0.
const DefaultCacheCapacity = 1024

// DefaultCommentPrefix is the comment prefix used when Config.CommentPrefix
// is empty.
const DefaultCommentPrefix = "#"

// Config keeps configuration options for parsers.
type Config struct {
	// The grammar. A nil Schema is the same as schema.Empty().
	Schema *schema.Schema
	// Argument types. A nil Registry is the same as DefaultRegistry().
	Registry *Registry
	// Initial capacity of the cache. A negative value disables caching.
	CacheCapacity int
	// Lines starting with this prefix (after whitespace) are comments.
	CommentPrefix string
	// If not nil, receives a warning for each argument node whose parser is
	// not in the Registry.
	WarningWriter io.Writer
}

// Parser parses single commands. It owns a cache, so it is not safe for
// concurrent use; Parsers created from the same Schema may be used
// concurrently.
type Parser struct {
	schema        *schema.Schema
	bindings      map[*schema.Node]*binding
	arena         *nodecache.Arena[Node]
	cache         *nodecache.Cache[Node]
	commentPrefix string
	// The result of the last call to Parse.
	prev *Tree
}

// NewParser creates a Parser. It only fails when argument properties in the
// schema are rejected by their argument types.
func NewParser(cfg Config) (*Parser, error) {
	s := cfg.Schema
	if s == nil {
		s = schema.Empty()
	}
	reg := cfg.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}
	bindings, unknown, err := bind(s, reg)
	if err != nil {
		return nil, err
	}
	if cfg.WarningWriter != nil {
		for _, u := range unknown {
			fmt.Fprintf(cfg.WarningWriter, "warning: unknown parser at %s\n", u)
		}
	}
	capacity := cfg.CacheCapacity
	switch {
	case capacity == 0:
		capacity = DefaultCacheCapacity
	case capacity < 0:
		capacity = 0
	}
	prefix := cfg.CommentPrefix
	if prefix == "" {
		prefix = DefaultCommentPrefix
	}
	arena := nodecache.NewArena[Node]()
	return &Parser{
		schema:        s,
		bindings:      bindings,
		arena:         arena,
		cache:         nodecache.New(arena, capacity),
		commentPrefix: prefix,
	}, nil
}

// Schema returns the schema of the parser.
func (p *Parser) Schema() *schema.Schema { return p.schema }

// Stats returns the cache diagnostics.
func (p *Parser) Stats() nodecache.Stats { return p.cache.Stats() }

// Parse parses a single command. Positions in the result are relative to
// text.
//
// The tree keeps the cache entries it created alive until it is released, or
// until the next call to Parse has built its own tree, whichever comes first.
// Released trees stay usable.
func (p *Parser) Parse(text string) *Tree {
	t := p.parseLine(text, 0)
	if p.prev != nil {
		p.prev.Release()
	}
	p.prev = t
	return t
}

// Tree is the result of parsing one command.
type Tree struct {
	Root   *Root
	Errors []*Error
	// The text that was parsed.
	Source string

	arena   *nodecache.Arena[Node]
	handles []nodecache.Handle
}

// Valid reports whether the command was parsed without errors.
func (t *Tree) Valid() bool { return len(t.Errors) == 0 && Valid(t.Root) }

// Release gives up the cache entries held by the tree. The tree itself stays
// usable; only cache lookups stop hitting its nodes.
func (t *Tree) Release() {
	release(t.arena, t.handles)
	t.handles = nil
}

func release(arena *nodecache.Arena[Node], handles []nodecache.Handle) {
	for _, h := range handles {
		arena.Free(h)
	}
}
