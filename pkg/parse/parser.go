package parse

import (
	"strings"

	"src.mcfn.dev/pkg/diag"
	"src.mcfn.dev/pkg/nodecache"
	"src.mcfn.dev/pkg/schema"
)

// State of parsing one line. The Reader and the argument parsers work with
// positions relative to the line; everything added to the tree is moved by
// base.
type lineParser struct {
	p    *Parser
	src  string
	base int
	tree *Tree
}

func (p *Parser) parseLine(src string, base int) *Tree {
	root := &Root{node{Ranging: diag.Ranging{From: base, To: base + len(src)}, valid: true}}
	lp := &lineParser{p, src, base, &Tree{Root: root, Source: src, arena: p.arena}}
	if p.schema.IsEmpty() {
		lp.fail(newError(NoSchemaError, root.Ranging, "no schema loaded"))
	} else {
		lp.run()
	}
	return lp.tree
}

func (lp *lineParser) run() {
	cur := lp.p.schema.Root()
	pos := skipSpaces(lp.src, 0)
	for {
		if pos == len(lp.src) {
			if !cur.Executable() {
				lp.fail(lp.incomplete(cur).shifted(lp.base))
			}
			return
		}
		if len(cur.Children()) == 0 {
			rest := strings.TrimRight(lp.src[pos:], " \t")
			lp.fail(newError(TrailingInputError, diag.SpanRanging(pos, len(rest)),
				"unexpected trailing input %q", rest).shifted(lp.base))
			return
		}
		next, n, end, err := lp.step(cur, pos)
		if n != nil {
			addChild(lp.tree.Root, n)
		}
		if err != nil {
			lp.fail(err)
			return
		}
		cur = next
		pos = skipSpaces(lp.src, end)
	}
}

// Tries the children of cur at pos: literals first, then arguments, all in
// declaration order. The first child that matches wins. When none matches,
// the error is the one that got furthest into the text, and n is the node
// the error was reported on, if any. On a tie the unknown literal error wins
// over argument errors, unless an argument recognized the token and only
// failed its constraints.
func (lp *lineParser) step(cur *schema.Node, pos int) (next *schema.Node, n Node, end int, err *Error) {
	tok := token(lp.src[pos:])
	lits := cur.Literals()
	for _, lit := range lits {
		if lit.Name() == tok {
			r := diag.SpanRanging(pos, len(tok)).Shift(lp.base)
			return lit, &Literal{leaf(r), tok}, pos + len(tok), nil
		}
	}

	var best *Error
	var bestNode Node
	if len(lits) > 0 {
		best = lp.unknownLiteral(cur, pos, tok)
	}
	for _, arg := range cur.Arguments() {
		n, end, err := lp.argument(arg, pos)
		if err == nil {
			return arg, n, end, nil
		}
		if best == nil || err.From > best.From ||
			err.From == best.From && err.Kind == ConstraintError && best.Kind != ConstraintError {
			best, bestNode = err, n
		}
	}
	return nil, bestNode, 0, best
}

func (lp *lineParser) unknownLiteral(cur *schema.Node, pos int, tok string) *Error {
	lits := cur.Literals()
	names := make([]string, len(lits))
	for i, lit := range lits {
		names[i] = lit.Name()
	}
	what := "literal"
	if cur.Kind() == schema.Root {
		what = "command"
	}
	return unknownNameError(
		diag.SpanRanging(pos, len(tok)).Shift(lp.base), what, tok, names)
}

// Parses one argument at pos, consulting the cache first. The returned node
// and error have absolute positions.
func (lp *lineParser) argument(arg *schema.Node, pos int) (Node, int, *Error) {
	bd := lp.p.bindings[arg]
	tok := token(lp.src[pos:])
	at := lp.base + pos

	var key nodecache.Key
	if bd.cacheable {
		key = nodecache.NewKey(bd.id, tok)
		if bd.contextual {
			key = nodecache.NewPosKey(bd.id, tok, at)
		}
		if cached, ok := lp.p.cache.Lookup(key); ok {
			n := cached.clone()
			shift(n, at-n.Range().From)
			lp.own(key, n)
			return n, pos + len(tok), nil
		}
	}

	r := &Reader{lp.src, pos}
	n, err := bd.parse(r)
	if n != nil {
		shift(n, lp.base)
	}
	if err != nil {
		return n, r.Pos(), err.shifted(lp.base)
	}
	end := r.Pos()
	if end < len(lp.src) && !isSpace(lp.src[end]) {
		extra := token(lp.src[end:])
		return nil, end, syntaxError(diag.SpanRanging(at+end-pos, len(extra)),
			"expected whitespace to end argument, found %q", extra)
	}
	if bd.cacheable {
		lp.own(key, n)
	}
	return n, end, nil
}

// Stores n in the arena on behalf of the tree and points the cache entry for
// key at it.
func (lp *lineParser) own(key nodecache.Key, n Node) {
	h := lp.p.arena.Alloc(n)
	lp.tree.handles = append(lp.tree.handles, h)
	lp.p.cache.Insert(key, h)
}

// Records an error with an absolute position.
func (lp *lineParser) fail(err *Error) {
	lp.tree.Errors = append(lp.tree.Errors, err)
	lp.tree.Root.valid = false
}

func (lp *lineParser) incomplete(cur *schema.Node) *Error {
	children := cur.Children()
	names := make([]string, len(children))
	for i, c := range children {
		names[i] = c.String()
	}
	r := diag.PointRanging(len(lp.src))
	if len(names) == 0 {
		return newError(IncompleteCommandError, r, "incomplete command")
	}
	return newError(IncompleteCommandError, r, "incomplete command, expected %s",
		strings.Join(names, ", "))
}

func skipSpaces(s string, pos int) int {
	for pos < len(s) && isSpace(s[pos]) {
		pos++
	}
	return pos
}
