package parse

import (
	"strings"
	"time"

	"src.mcfn.dev/pkg/diag"
	"src.mcfn.dev/pkg/nodecache"
)

// FileParser parses whole documents, one command per line. It is a session:
// each parse may reuse the results of the previous one, and releases the
// previous result once the new one is built.
//
// Valid lines are kept in a line cache sized to the last document, keyed by
// their text alone, so a line that moved is still reused. Arguments of lines
// that miss go through the leaf cache of the Parser.
//
// A FileParser is not safe for concurrent use.
type FileParser struct {
	p     *Parser
	lines *nodecache.Cache[Node]
	prev  *FileTree
}

// NewFileParser creates a FileParser.
func NewFileParser(cfg Config) (*FileParser, error) {
	p, err := NewParser(cfg)
	if err != nil {
		return nil, err
	}
	return &FileParser{p: p, lines: nodecache.New(p.arena, 0)}, nil
}

// Parser returns the underlying single-command parser.
func (fp *FileParser) Parser() *Parser { return fp.p }

// Stats returns the diagnostics of the line cache.
func (fp *FileParser) Stats() nodecache.Stats { return fp.lines.Stats() }

// LeafStats returns the diagnostics of the argument cache of the Parser.
func (fp *FileParser) LeafStats() nodecache.Stats { return fp.p.Stats() }

// LineResult is the result of parsing one line of a document.
type LineResult struct {
	// Line number, starting from 0.
	Line int
	// Position of the first byte of the line in the document.
	Start int
	// Text of the line, without the line terminator.
	Text string
	// A *Root for commands, a *Skip for blank and comment lines.
	Node Node
	// Errors with positions in the document.
	Errors []*Error
}

// Valid reports whether the line was parsed without errors.
func (l LineResult) Valid() bool { return len(l.Errors) == 0 && Valid(l.Node) }

// FileTree is the result of parsing a document.
type FileTree struct {
	source  string
	lines   []LineResult
	arena   *nodecache.Arena[Node]
	handles []nodecache.Handle
}

// Parse parses a document. Lines are separated by "\n"; a "\r" before it is
// not part of the line.
func (fp *FileParser) Parse(text string) *FileTree {
	begin := time.Now()
	p := fp.p
	rawLines := strings.Split(text, "\n")
	if p.cache.Cap() > 0 {
		fp.lines.Resize(len(rawLines) + 1)
	}

	ft := &FileTree{source: text, arena: p.arena, lines: make([]LineResult, 0, len(rawLines))}
	start := 0
	for i, raw := range rawLines {
		line := strings.TrimSuffix(raw, "\r")
		res := LineResult{Line: i, Start: start, Text: line}
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			res.Node = newSkip(diag.SpanRanging(start, len(line)), line, false)
		case strings.HasPrefix(trimmed, p.commentPrefix):
			res.Node = newSkip(diag.SpanRanging(start, len(line)), line, true)
		default:
			key := nodecache.NewKey(rootTypeID, line)
			if cached, ok := fp.lines.Lookup(key); ok {
				root := cached.clone()
				shift(root, start-root.Range().From)
				fp.own(ft, key, root)
				res.Node = root
				break
			}
			t := p.parseLine(line, start)
			ft.handles = append(ft.handles, t.handles...)
			res.Node, res.Errors = t.Root, t.Errors
			if t.Valid() {
				fp.own(ft, key, t.Root)
			}
		}
		ft.lines = append(ft.lines, res)
		start += len(raw) + 1
	}

	if fp.prev != nil {
		fp.prev.Release()
	}
	fp.prev = ft
	logger.Printf("parsed %d lines in %v, lines %v, leaves %v",
		len(rawLines), time.Since(begin), fp.lines.Stats(), p.Stats())
	return ft
}

func (fp *FileParser) own(ft *FileTree, key nodecache.Key, n Node) {
	h := fp.p.arena.Alloc(n)
	ft.handles = append(ft.handles, h)
	fp.lines.Insert(key, h)
}

// Source returns the text of the document.
func (ft *FileTree) Source() string { return ft.source }

// Lines returns the results of all lines in order.
func (ft *FileTree) Lines() []LineResult { return ft.lines }

// ErrorsByLine returns the errors of each line that has any.
func (ft *FileTree) ErrorsByLine() map[int][]*Error {
	m := make(map[int][]*Error)
	for _, l := range ft.lines {
		if len(l.Errors) > 0 {
			m[l.Line] = l.Errors
		}
	}
	return m
}

// Errors returns all errors in document order. Identical errors are only
// reported once.
func (ft *FileTree) Errors() []*Error {
	var errs []*Error
	for _, l := range ft.lines {
	outer:
		for _, e := range l.Errors {
			for _, seen := range errs {
				if seen.Equal(e) {
					continue outer
				}
			}
			errs = append(errs, e)
		}
	}
	return errs
}

// IsValid reports whether every line is a valid command or is skipped.
func (ft *FileTree) IsValid() bool {
	for _, l := range ft.lines {
		if !l.Valid() {
			return false
		}
	}
	return true
}

// Release gives up the cache entries held by the tree.
func (ft *FileTree) Release() {
	release(ft.arena, ft.handles)
	ft.handles = nil
}
