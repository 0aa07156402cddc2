// Package highlight computes style ranges of parsed commands and renders them
// on terminals.
package highlight

import (
	"sort"

	"src.mcfn.dev/pkg/diag"
	"src.mcfn.dev/pkg/parse"
)

// Style is the style tag of a Range, derived from the node kind.
type Style string

// Possible values of Style.
const (
	// The first literal of a command.
	Command    Style = "command"
	Literal    Style = "literal"
	Number     Style = "number"
	Bool       Style = "bool"
	String     Style = "string"
	Quoted     Style = "quoted"
	Resource   Style = "resource"
	UUID       Style = "uuid"
	Coordinate Style = "coordinate"
	Enum       Style = "enum"
	Comment    Style = "comment"
	Error      Style = "error"
)

// Range is a region of source text to style.
type Range struct {
	diag.Ranging
	Style Style
	// When ranges start at the same position, only the one with the highest
	// priority is kept.
	Priority int
}

const errorPriority = 1

// Format returns the style ranges of the token-bearing nodes of a tree, in
// order and without overlaps. Positions are those of the tree.
func Format(n parse.Node) []Range {
	f := &formatter{}
	parse.Walk(n, f, parse.PreOrder)
	return fixRanges(f.ranges)
}

// Document returns the style ranges of a whole document, including comments
// and errors.
func Document(ft *parse.FileTree) []Range {
	f := &formatter{}
	for _, l := range ft.Lines() {
		parse.Walk(l.Node, f, parse.PreOrder)
		for _, e := range l.Errors {
			if e.Len() > 0 {
				f.ranges = append(f.ranges, Range{e.Ranging, Error, errorPriority})
			}
		}
	}
	return fixRanges(f.ranges)
}

// Sorts ranges by their start positions and drops the ones overlapping with
// an earlier one. Among ranges with the same start position, the one with the
// highest priority comes first.
func fixRanges(ranges []Range) []Range {
	ranges = append([]Range(nil), ranges...)
	sort.SliceStable(ranges, func(i, j int) bool {
		a, b := ranges[i], ranges[j]
		return a.From < b.From || (a.From == b.From && a.Priority > b.Priority)
	})
	var fixed []Range
	lastTo := 0
	for _, r := range ranges {
		if r.From < lastTo {
			continue
		}
		fixed = append(fixed, r)
		lastTo = r.To
	}
	return fixed
}

type formatter struct {
	ranges []Range
	// Whether the command name of the current root has been seen.
	seenCommand bool
}

func (f *formatter) add(n parse.Node, s Style) {
	f.ranges = append(f.ranges, Range{Ranging: n.Range(), Style: s})
}

func (f *formatter) VisitRoot(*parse.Root) { f.seenCommand = false }

func (f *formatter) VisitLiteral(n *parse.Literal) {
	if f.seenCommand {
		f.add(n, Literal)
	} else {
		f.add(n, Command)
		f.seenCommand = true
	}
}

func (f *formatter) VisitBool(n *parse.Bool)                         { f.add(n, Bool) }
func (f *formatter) VisitInteger(n *parse.Integer)                   { f.add(n, Number) }
func (f *formatter) VisitLong(n *parse.Long)                         { f.add(n, Number) }
func (f *formatter) VisitFloat(n *parse.Float)                       { f.add(n, Number) }
func (f *formatter) VisitDouble(n *parse.Double)                     { f.add(n, Number) }
func (f *formatter) VisitTime(n *parse.Time)                         { f.add(n, Number) }
func (f *formatter) VisitResourceLocation(n *parse.ResourceLocation) { f.add(n, Resource) }
func (f *formatter) VisitUUID(n *parse.UUID)                         { f.add(n, UUID) }
func (f *formatter) VisitEnum(n *parse.Enum)                         { f.add(n, Enum) }
func (f *formatter) VisitCoordinates(n *parse.Coordinates)           { f.add(n, Coordinate) }
func (f *formatter) VisitRaw(n *parse.Raw)                           { f.add(n, String) }

func (f *formatter) VisitString(n *parse.String) {
	if n.Quoted {
		f.add(n, Quoted)
	} else {
		f.add(n, String)
	}
}

func (f *formatter) VisitSkip(n *parse.Skip) {
	if n.Comment {
		f.add(n, Comment)
	}
}
