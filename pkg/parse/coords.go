package parse

import (
	"strconv"
	"strings"

	"src.mcfn.dev/pkg/diag"
)

type coordinateShape struct {
	axes    int
	integer bool
	local   bool
}

var coordinateShapes = map[string]coordinateShape{
	"minecraft:vec3":       {axes: 3, local: true},
	"minecraft:block_pos":  {axes: 3, integer: true, local: true},
	"minecraft:vec2":       {axes: 2},
	"minecraft:column_pos": {axes: 2, integer: true},
	"minecraft:rotation":   {axes: 2},
}

var axisPrefixes = map[byte]AxisKind{'~': Relative, '^': Local}

func coordinatesParser(shape coordinateShape) ArgParser {
	return func(r *Reader) (Node, *Error) {
		begin := r.Pos()
		axes := make([]Axis, 0, shape.axes)
		locals := 0
		for i := 0; i < shape.axes; i++ {
			if i > 0 {
				if !isSpace(r.Peek()) {
					return nil, syntaxError(diag.PointRanging(r.Pos()),
						"incomplete coordinates, expected %d values", shape.axes)
				}
				r.Advance(1)
			}
			axisBegin := r.Pos()
			text := r.ReadToken()
			if text == "" {
				return nil, syntaxError(diag.PointRanging(axisBegin),
					"incomplete coordinates, expected %d values", shape.axes)
			}
			a, msg := parseAxis(text, shape)
			if msg != "" {
				return nil, syntaxError(r.Since(axisBegin), "%s", msg)
			}
			if a.Kind == Local {
				locals++
			}
			axes = append(axes, a)
		}
		if locals > 0 && locals < shape.axes {
			return nil, syntaxError(r.Since(begin), "cannot mix world and local coordinates")
		}
		return &Coordinates{leaf(r.Since(begin)), axes, shape.integer}, nil
	}
}

// Parses one axis. On failure it returns a non-empty message.
func parseAxis(text string, shape coordinateShape) (Axis, string) {
	kind, prefixed := axisPrefixes[text[0]]
	if prefixed {
		text = text[1:]
		if kind == Local && !shape.local {
			return Axis{}, "local coordinates are not allowed here"
		}
	}
	if text == "" {
		if !prefixed {
			return Axis{}, "expected coordinate"
		}
		return Axis{Kind: kind}, ""
	}
	if strings.IndexFunc(text, func(r rune) bool { return r > 0x7f || !isNumberByte(byte(r)) }) >= 0 {
		return Axis{}, "invalid coordinate " + strconv.Quote(text)
	}
	// Offsets may be fractional even for integer positions.
	if shape.integer && kind == Absolute {
		v, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return Axis{}, "invalid integer coordinate " + strconv.Quote(text)
		}
		return Axis{Kind: kind, Value: float64(v)}, ""
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Axis{}, "invalid coordinate " + strconv.Quote(text)
	}
	return Axis{Kind: kind, Value: v}, ""
}
