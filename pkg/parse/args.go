package parse

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"src.mcfn.dev/pkg/diag"
	"src.mcfn.dev/pkg/schema"
)

func registerBuiltins(reg *Registry) {
	reg.Register("brigadier:bool", ArgType{New: simple(parseBool), Cacheable: true})
	reg.Register("brigadier:integer", intType("integer", math.MinInt32, math.MaxInt32, 32,
		func(b node, v int64) Node { return &Integer{b, int32(v)} }))
	reg.Register("brigadier:long", intType("long", math.MinInt64, math.MaxInt64, 64,
		func(b node, v int64) Node { return &Long{b, v} }))
	reg.Register("brigadier:float", floatType("float", math.MaxFloat32, 32,
		func(b node, v float64) Node { return &Float{b, float32(v)} }))
	reg.Register("brigadier:double", floatType("double", math.MaxFloat64, 64,
		func(b node, v float64) Node { return &Double{b, v} }))

	reg.Register("brigadier:string", ArgType{New: newStringParser, Cacheable: false})
	reg.Register("minecraft:message", ArgType{New: simple(stringParser(Greedy))})
	for _, id := range []string{"minecraft:objective", "minecraft:team"} {
		reg.Register(id, ArgType{New: simple(stringParser(Word)), Cacheable: true})
	}

	for _, id := range []string{
		"minecraft:resource_location", "minecraft:dimension",
		"minecraft:entity_summon", "minecraft:item_enchantment",
		"minecraft:mob_effect",
	} {
		reg.Register(id, ArgType{New: simple(resourceLocationParser(false)), Cacheable: true})
	}
	reg.Register("minecraft:function", ArgType{New: simple(resourceLocationParser(true)), Cacheable: true})

	reg.Register("minecraft:uuid", ArgType{New: simple(parseUUID), Cacheable: true})
	reg.Register("minecraft:time", ArgType{New: newTimeParser, Cacheable: true})
	reg.Register("minecraft:swizzle", ArgType{New: simple(parseSwizzle), Cacheable: true})
	for id, choices := range enumChoices {
		reg.Register(id, ArgType{New: simple(enumParser(id, choices)), Cacheable: true})
	}

	for id, shape := range coordinateShapes {
		reg.Register(id, ArgType{New: simple(coordinatesParser(shape))})
	}
}

// Wraps an ArgParser that takes no properties.
func simple(p ArgParser) func(schema.Properties) (ArgParser, error) {
	return func(schema.Properties) (ArgParser, error) { return p, nil }
}

func leaf(r diag.Ranging) node { return node{Ranging: r, valid: true} }

func invalidate(n Node) Node {
	n.n().valid = false
	return n
}

func syntaxError(r diag.Ranging, template string, args ...any) *Error {
	return newError(SyntaxError, r, template, args...)
}

func constraintError(r diag.Ranging, template string, args ...any) *Error {
	return newError(ConstraintError, r, template, args...)
}

// Range of the token starting at begin, or a point if there is none.
func tokenRange(r *Reader, begin int) diag.Ranging {
	return diag.SpanRanging(begin, len(token(r.src[begin:])))
}

func parseBool(r *Reader) (Node, *Error) {
	begin := r.Pos()
	text := r.ReadWhile(isWordByte)
	switch text {
	case "true":
		return &Bool{leaf(r.Since(begin)), true}, nil
	case "false":
		return &Bool{leaf(r.Since(begin)), false}, nil
	case "":
		return nil, syntaxError(tokenRange(r, begin), "expected boolean")
	}
	return nil, syntaxError(r.Since(begin), "invalid boolean %q, expected true or false", text)
}

func intType(what string, lo, hi int64, bits int, mk func(node, int64) Node) ArgType {
	return ArgType{Cacheable: true, New: func(p schema.Properties) (ArgParser, error) {
		min, max := lo, hi
		if v, ok := p.Int("min"); ok {
			min = v
		}
		if v, ok := p.Int("max"); ok {
			max = v
		}
		if min > max {
			return nil, fmt.Errorf("min %d is greater than max %d", min, max)
		}
		return func(r *Reader) (Node, *Error) {
			begin := r.Pos()
			text := r.ReadWhile(isNumberByte)
			rg := r.Since(begin)
			if text == "" {
				return nil, syntaxError(tokenRange(r, begin), "expected %s", what)
			}
			v, err := strconv.ParseInt(text, 10, bits)
			if err != nil {
				return nil, syntaxError(rg, "invalid %s %q", what, text)
			}
			n := mk(leaf(rg), v)
			if v < min {
				return invalidate(n), constraintError(rg,
					"%s must not be less than %d, found %d", what, min, v)
			}
			if v > max {
				return invalidate(n), constraintError(rg,
					"%s must not be more than %d, found %d", what, max, v)
			}
			return n, nil
		}, nil
	}}
}

func floatType(what string, limit float64, bits int, mk func(node, float64) Node) ArgType {
	return ArgType{Cacheable: true, New: func(p schema.Properties) (ArgParser, error) {
		min, max := -limit, limit
		if v, ok := p.Float("min"); ok {
			min = v
		}
		if v, ok := p.Float("max"); ok {
			max = v
		}
		if min > max {
			return nil, fmt.Errorf("min %v is greater than max %v", min, max)
		}
		return func(r *Reader) (Node, *Error) {
			begin := r.Pos()
			text := r.ReadWhile(isNumberByte)
			rg := r.Since(begin)
			if text == "" {
				return nil, syntaxError(tokenRange(r, begin), "expected %s", what)
			}
			v, err := strconv.ParseFloat(text, bits)
			if err != nil {
				return nil, syntaxError(rg, "invalid %s %q", what, text)
			}
			n := mk(leaf(rg), v)
			if v < min {
				return invalidate(n), constraintError(rg,
					"%s must not be less than %v, found %v", what, min, v)
			}
			if v > max {
				return invalidate(n), constraintError(rg,
					"%s must not be more than %v, found %v", what, max, v)
			}
			return n, nil
		}, nil
	}}
}

var stringModes = map[string]StringMode{"word": Word, "phrase": Phrase, "greedy": Greedy}

func newStringParser(p schema.Properties) (ArgParser, error) {
	mode := Word
	if s, ok := p.String("type"); ok {
		m, ok := stringModes[s]
		if !ok {
			return nil, fmt.Errorf("unknown string type %q", s)
		}
		mode = m
	}
	return stringParser(mode), nil
}

func stringParser(mode StringMode) ArgParser {
	return func(r *Reader) (Node, *Error) {
		begin := r.Pos()
		switch mode {
		case Greedy:
			text := r.Rest()
			if text == "" {
				return nil, syntaxError(diag.PointRanging(begin), "expected string")
			}
			r.Advance(len(text))
			return &String{leaf(r.Since(begin)), text, mode, false}, nil
		case Phrase:
			if q := r.Peek(); q == '"' || q == '\'' {
				text, err := readQuoted(r)
				if err != nil {
					return nil, err
				}
				return &String{leaf(r.Since(begin)), text, mode, true}, nil
			}
		}
		text := r.ReadWhile(isWordByte)
		if text == "" {
			return nil, syntaxError(tokenRange(r, begin), "expected string")
		}
		return &String{leaf(r.Since(begin)), text, mode, false}, nil
	}
}

// Reads a quoted string. The reader must be at the opening quote.
func readQuoted(r *Reader) (string, *Error) {
	begin := r.Pos()
	q := r.Peek()
	r.Advance(1)
	var sb strings.Builder
	escaped := false
	for !r.AtEnd() {
		b := r.Peek()
		r.Advance(1)
		switch {
		case escaped:
			if b != q && b != '\\' {
				return "", syntaxError(diag.Ranging{From: r.Pos() - 2, To: r.Pos()},
					"invalid escape sequence \\%c in quoted string", b)
			}
			sb.WriteByte(b)
			escaped = false
		case b == '\\':
			escaped = true
		case b == q:
			return sb.String(), nil
		default:
			sb.WriteByte(b)
		}
	}
	return "", syntaxError(r.Since(begin), "unclosed quoted string")
}

func isNamespaceByte(b byte) bool {
	return '0' <= b && b <= '9' || 'a' <= b && b <= 'z' || b == '_' || b == '-' || b == '.'
}

func isPathByte(b byte) bool { return isNamespaceByte(b) || b == '/' }

func resourceLocationParser(allowTag bool) ArgParser {
	return func(r *Reader) (Node, *Error) {
		begin := r.Pos()
		tag := false
		if allowTag && r.Peek() == '#' {
			tag = true
			r.Advance(1)
		}
		idBegin := r.Pos()
		text := r.ReadToken()
		if text == "" {
			return nil, syntaxError(tokenRange(r, begin), "expected resource location")
		}
		ns, path, found := strings.Cut(text, ":")
		pathBegin := idBegin
		if found {
			pathBegin += len(ns) + 1
			if i := indexNot(ns, isNamespaceByte); i >= 0 {
				return nil, syntaxError(diag.SpanRanging(idBegin+i, 1),
					"invalid character %q in namespace", ns[i])
			}
		} else {
			path, ns = ns, "minecraft"
		}
		if i := indexNot(path, isPathByte); i >= 0 {
			return nil, syntaxError(diag.SpanRanging(pathBegin+i, 1),
				"invalid character %q in resource location path", path[i])
		}
		if path == "" {
			return nil, syntaxError(diag.PointRanging(r.Pos()), "expected resource location path")
		}
		if ns == "" {
			ns = "minecraft"
		}
		return &ResourceLocation{leaf(r.Since(begin)), ns, path, tag}, nil
	}
}

func indexNot(s string, f func(byte) bool) int {
	for i := 0; i < len(s); i++ {
		if !f(s[i]) {
			return i
		}
	}
	return -1
}

func parseUUID(r *Reader) (Node, *Error) {
	begin := r.Pos()
	text := r.ReadToken()
	if text == "" {
		return nil, syntaxError(diag.PointRanging(begin), "expected UUID")
	}
	// uuid.Parse also accepts braced, URN and undashed forms, which commands
	// do not.
	if len(text) != 36 || strings.Count(text, "-") != 4 {
		return nil, syntaxError(r.Since(begin), "invalid UUID %q", text)
	}
	v, err := uuid.Parse(text)
	if err != nil {
		return nil, syntaxError(r.Since(begin), "invalid UUID %q", text)
	}
	return &UUID{leaf(r.Since(begin)), v}, nil
}

var timeUnits = map[byte]float64{'d': 24000, 's': 20, 't': 1}

func newTimeParser(p schema.Properties) (ArgParser, error) {
	var min int64
	if v, ok := p.Int("min"); ok {
		min = v
	}
	return func(r *Reader) (Node, *Error) {
		begin := r.Pos()
		text := r.ReadWhile(isNumberByte)
		if text == "" {
			return nil, syntaxError(tokenRange(r, begin), "expected time")
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, syntaxError(r.Since(begin), "invalid time %q", text)
		}
		if mul, ok := timeUnits[r.Peek()]; ok {
			v *= mul
			r.Advance(1)
		}
		rg := r.Since(begin)
		if v > math.MaxInt32 || v < math.MinInt32 {
			return nil, constraintError(rg, "tick count must be between %d and %d, found %s",
				math.MinInt32, math.MaxInt32, r.src[begin:r.Pos()])
		}
		ticks := int64(math.Round(v))
		n := &Time{leaf(rg), int(ticks)}
		if ticks < min {
			return invalidate(n), constraintError(rg,
				"tick count must not be less than %d, found %d", min, ticks)
		}
		return n, nil
	}, nil
}

func parseSwizzle(r *Reader) (Node, *Error) {
	begin := r.Pos()
	text := r.ReadToken()
	if text == "" {
		return nil, syntaxError(diag.PointRanging(begin), "expected swizzle")
	}
	seen := map[rune]bool{}
	for i, c := range text {
		if c != 'x' && c != 'y' && c != 'z' || seen[c] {
			return nil, syntaxError(diag.SpanRanging(begin+i, 1),
				"invalid swizzle %q, expected distinct axes among x, y and z", text)
		}
		seen[c] = true
	}
	return &Enum{leaf(r.Since(begin)), "minecraft:swizzle", text}, nil
}

var colors = []string{
	"black", "dark_blue", "dark_green", "dark_aqua", "dark_red", "dark_purple",
	"gold", "gray", "dark_gray", "blue", "green", "aqua", "red",
	"light_purple", "yellow", "white",
}

var enumChoices = map[string][]string{
	"minecraft:color":             append(append([]string(nil), colors...), "reset"),
	"minecraft:operation":         {"=", "+=", "-=", "*=", "/=", "%=", "<", ">", "><"},
	"minecraft:heightmap":         {"world_surface", "motion_blocking", "motion_blocking_no_leaves", "ocean_floor"},
	"minecraft:scoreboard_slot":   scoreboardSlots(),
	"minecraft:template_mirror":   {"none", "front_back", "left_right"},
	"minecraft:template_rotation": {"none", "clockwise_90", "counterclockwise_90", "180"},
	"minecraft:entity_anchor":     {"feet", "eyes"},
}

func scoreboardSlots() []string {
	slots := []string{"list", "sidebar", "below_name", "belowName"}
	for _, c := range colors {
		slots = append(slots, "sidebar.team."+c)
	}
	return slots
}

func enumParser(id string, choices []string) ArgParser {
	set := make(map[string]bool, len(choices))
	for _, c := range choices {
		set[c] = true
	}
	what := strings.ReplaceAll(strings.TrimPrefix(id, "minecraft:"), "_", " ")
	return func(r *Reader) (Node, *Error) {
		begin := r.Pos()
		text := r.ReadToken()
		if text == "" {
			return nil, syntaxError(diag.PointRanging(begin), "expected %s", what)
		}
		if !set[text] {
			return nil, unknownNameError(r.Since(begin), what, text, choices)
		}
		return &Enum{leaf(r.Since(begin)), id, text}, nil
	}
}

func rawType(id string) ArgType {
	return ArgType{Cacheable: true, New: simple(func(r *Reader) (Node, *Error) {
		begin := r.Pos()
		text := r.ReadToken()
		if text == "" {
			return nil, syntaxError(diag.PointRanging(begin), "expected argument")
		}
		return &Raw{leaf(r.Since(begin)), id, text}, nil
	})}
}
