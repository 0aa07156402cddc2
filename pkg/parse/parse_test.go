package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"src.mcfn.dev/pkg/must"
	"src.mcfn.dev/pkg/parse/parsetest"
	"src.mcfn.dev/pkg/schema"
	"src.mcfn.dev/pkg/tt"
)

var Args = tt.Args

func newTestParser() *Parser {
	return must.OK1(NewParser(Config{Schema: parsetest.Schema()}))
}

var parseTests = []struct {
	name   string
	text   string
	dump   string
	errors []string
}{
	{
		name: "literals",
		text: "gamemode creative",
		dump: "Root[2](Literal(gamemode), Literal(creative))",
	},
	{
		name: "bool argument",
		text: "gamerule keepInventory true",
		dump: "Root[3](Literal(gamerule), Literal(keepInventory), Bool(true))",
	},
	{
		name: "extra whitespace",
		text: "  gamemode   creative  ",
		dump: "Root[2](Literal(gamemode), Literal(creative))",
	},
	{
		name:   "trailing input",
		text:   "gamemode creative extra",
		dump:   "Root![2](Literal(gamemode), Literal(creative))",
		errors: []string{`trailing input: 18-23: unexpected trailing input "extra"`},
	},
	{
		name: "incomplete",
		text: "gamemode",
		dump: "Root![1](Literal(gamemode))",
		errors: []string{
			"incomplete command: 8-8: incomplete command, expected survival, creative, adventure, spectator"},
	},
	{
		name:   "unknown literal with suggestion",
		text:   "gamemode creativ",
		dump:   "Root![1](Literal(gamemode))",
		errors: []string{`syntax error: 9-16: unknown literal "creativ", did you mean creative?`},
	},
	{
		name:   "unknown command",
		text:   "xyz",
		dump:   "Root![0]()",
		errors: []string{`syntax error: 0-3: unknown command "xyz"`},
	},
	{
		name:   "constraint violation keeps the node",
		text:   "gamerule maxCommandChainLength -1",
		dump:   "Root![3](Literal(gamerule), Literal(maxCommandChainLength), Integer!(-1))",
		errors: []string{"constraint error: 31-33: integer must not be less than 0, found -1"},
	},
	{
		name:   "bad bool",
		text:   "gamerule keepInventory yes",
		dump:   "Root![2](Literal(gamerule), Literal(keepInventory))",
		errors: []string{`syntax error: 23-26: invalid boolean "yes", expected true or false`},
	},
	{
		name:   "argument not ending at whitespace",
		text:   "weather clear 10x",
		dump:   "Root![2](Literal(weather), Literal(clear))",
		errors: []string{`syntax error: 16-17: expected whitespace to end argument, found "x"`},
	},
	{
		name:   "executable node with children",
		text:   "weather clear 10 20",
		dump:   "Root![3](Literal(weather), Literal(clear), Integer(10))",
		errors: []string{`trailing input: 17-19: unexpected trailing input "20"`},
	},
	{
		name: "long",
		text: "seed -9223372036854775808",
		dump: "Root[2](Literal(seed), Long(-9223372036854775808))",
	},
	{
		name: "float and vec2",
		text: "spreadplayers 0 -0.5 1.5",
		dump: "Root[3](Literal(spreadplayers), Coordinates(0 -0.5), Float(1.5))",
	},
	{
		name:   "double below min",
		text:   "worldborder set 0.5",
		dump:   "Root![3](Literal(worldborder), Literal(set), Double!(0.5))",
		errors: []string{"constraint error: 16-19: double must not be less than 1, found 0.5"},
	},
	{
		name: "greedy message",
		text: "say hello  world",
		dump: "Root[2](Literal(say), String(hello  world))",
	},
	{
		name: "quoted phrase",
		text: `echo 'a \'b\' "c"'`,
		dump: `Root[2](Literal(echo), String("a 'b' \"c\""))`,
	},
	{
		name: "unquoted phrase",
		text: "echo word",
		dump: "Root[2](Literal(echo), String(word))",
	},
	{
		name:   "unclosed quote",
		text:   `echo "abc`,
		dump:   "Root![1](Literal(echo))",
		errors: []string{"syntax error: 5-9: unclosed quoted string"},
	},
	{
		name: "relative and absolute coordinates",
		text: "tp ~ ~1.5 -3",
		dump: "Root[2](Literal(tp), Coordinates(~ ~1.5 -3))",
	},
	{
		name: "local coordinates",
		text: "tp ^ ^ ^2",
		dump: "Root[2](Literal(tp), Coordinates(^ ^ ^2))",
	},
	{
		name:   "mixed coordinates",
		text:   "tp ~ ~1 ^",
		dump:   "Root![1](Literal(tp))",
		errors: []string{"syntax error: 3-9: cannot mix world and local coordinates"},
	},
	{
		name:   "incomplete coordinates",
		text:   "tp 1 2",
		dump:   "Root![1](Literal(tp))",
		errors: []string{"syntax error: 6-6: incomplete coordinates, expected 3 values"},
	},
	{
		name: "block position and resource location",
		text: "setblock 1 ~2 3 stone",
		dump: "Root[3](Literal(setblock), Coordinates(1 ~2 3), ResourceLocation(minecraft:stone))",
	},
	{
		name:   "fractional block position",
		text:   "setblock 1.5 2 3 stone",
		dump:   "Root![1](Literal(setblock))",
		errors: []string{`syntax error: 9-12: invalid integer coordinate "1.5"`},
	},
	{
		name:   "bad resource location",
		text:   "setblock 1 2 3 Stone",
		dump:   "Root![2](Literal(setblock), Coordinates(1 2 3))",
		errors: []string{`syntax error: 15-16: invalid character 'S' in resource location path`},
	},
	{
		name: "function tag",
		text: "function #foo:bar/baz",
		dump: "Root[2](Literal(function), ResourceLocation(#foo:bar/baz))",
	},
	{
		name: "literal before argument",
		text: "time set day",
		dump: "Root[3](Literal(time), Literal(set), Literal(day))",
	},
	{
		name: "time with unit",
		text: "time set 1.5s",
		dump: "Root[3](Literal(time), Literal(set), Time(30))",
	},
	{
		name:   "misspelled literal beside an argument",
		text:   "time set dya",
		dump:   "Root![2](Literal(time), Literal(set))",
		errors: []string{`syntax error: 9-12: unknown literal "dya", did you mean day?`},
	},
	{
		name:   "argument constraint beats literal",
		text:   "time set -5",
		dump:   "Root![3](Literal(time), Literal(set), Time!(-5))",
		errors: []string{"constraint error: 9-11: tick count must not be less than 0, found -5"},
	},
	{
		name:   "time out of range",
		text:   "time set 99999999999999999999d",
		dump:   "Root![2](Literal(time), Literal(set))",
		errors: []string{"constraint error: 9-30: tick count must be between -2147483648 and 2147483647, found 99999999999999999999d"},
	},
	{
		name:   "argument error past the literal",
		text:   "time set 1x",
		dump:   "Root![2](Literal(time), Literal(set))",
		errors: []string{`syntax error: 10-11: expected whitespace to end argument, found "x"`},
	},
	{
		name: "team color",
		text: "team modify red color gold",
		dump: "Root[5](Literal(team), Literal(modify), String(red), Literal(color), Enum(gold))",
	},
	{
		name: "uuid",
		text: "attribute 123e4567-e89b-12d3-a456-426614174000",
		dump: "Root[2](Literal(attribute), UUID(123e4567-e89b-12d3-a456-426614174000))",
	},
	{
		name:   "bad uuid",
		text:   "attribute 123e4567e89b12d3a456426614174000",
		dump:   "Root![1](Literal(attribute))",
		errors: []string{`syntax error: 10-42: invalid UUID "123e4567e89b12d3a456426614174000"`},
	},
	{
		name: "unknown parser falls back to raw",
		text: "kill @e[type=zombie]",
		dump: "Root[2](Literal(kill), Raw(@e[type=zombie]))",
	},
	{
		name: "redirects",
		text: "execute align xz run gamemode creative",
		dump: "Root[6](Literal(execute), Literal(align), Enum(xz), Literal(run), Literal(gamemode), Literal(creative))",
	},
	{
		name: "redirect target incomplete",
		text: "execute align xz",
		dump: "Root![3](Literal(execute), Literal(align), Enum(xz))",
		errors: []string{
			"incomplete command: 16-16: incomplete command, expected align, run"},
	},
	{
		name:   "bad swizzle",
		text:   "execute align xx run",
		dump:   "Root![2](Literal(execute), Literal(align))",
		errors: []string{`syntax error: 15-16: invalid swizzle "xx", expected distinct axes among x, y and z`},
	},
}

func TestParse(t *testing.T) {
	p := newTestParser()
	for _, test := range parseTests {
		t.Run(test.name, func(t *testing.T) {
			tree := p.Parse(test.text)
			if got := Dump(tree.Root); got != test.dump {
				t.Errorf("got tree %s, want %s", got, test.dump)
			}
			if diff := cmp.Diff(test.errors, errorStrings(tree.Errors)); diff != "" {
				t.Errorf("errors (-want +got):\n%s", diff)
			}
			if tree.Valid() != (len(test.errors) == 0) {
				t.Errorf("got valid %v with errors %v", tree.Valid(), tree.Errors)
			}
		})
	}
}

func errorStrings(errs []*Error) []string {
	var s []string
	for _, e := range errs {
		s = append(s, e.Error())
	}
	return s
}

func TestParse_RootSpanCoversLine(t *testing.T) {
	tree := newTestParser().Parse("  gamemode creative ")
	assert.Equal(t, 0, tree.Root.From)
	assert.Equal(t, 20, tree.Root.To)
	children := Children(tree.Root)
	require.Len(t, children, 2)
	assert.Equal(t, "creative", SourceText(children[1], tree.Source))
	for _, ch := range children {
		assert.True(t, tree.Root.Contains(ch.Range()))
	}
}

func TestParse_UnknownEnumSuggestions(t *testing.T) {
	tree := newTestParser().Parse("team modify red color golden")
	require.Len(t, tree.Errors, 1)
	e := tree.Errors[0]
	assert.Equal(t, SyntaxError, e.Kind)
	assert.Equal(t, 22, e.Pos())
	assert.Equal(t, 6, e.Len())
	assert.Contains(t, e.Message(), `unknown color "golden", did you mean`)
	assert.Contains(t, e.Message(), "gold")
}

func TestParse_NoSchema(t *testing.T) {
	p := must.OK1(NewParser(Config{}))
	tree := p.Parse("gamemode creative")
	assert.False(t, tree.Valid())
	assert.Equal(t, []string{"no schema: 0-17: no schema loaded"}, errorStrings(tree.Errors))
}

func TestNewParser_BadProperties(t *testing.T) {
	s := must.OK1(schema.Parse("bad.json", []byte(`{
	  "type": "root",
	  "children": {
	    "n": {"type": "argument", "parser": "brigadier:integer",
	          "properties": {"min": 5, "max": 1}}
	  }
	}`)))
	_, err := NewParser(Config{Schema: s})
	assert.ErrorContains(t, err, "min 5 is greater than max 1")
}

type warningWriter struct{ lines []string }

func (w *warningWriter) Write(p []byte) (int, error) {
	w.lines = append(w.lines, string(p))
	return len(p), nil
}

func TestNewParser_WarnsUnknownParsers(t *testing.T) {
	w := &warningWriter{}
	_, err := NewParser(Config{Schema: parsetest.Schema(), WarningWriter: w})
	require.NoError(t, err)
	assert.Equal(t, []string{"warning: unknown parser at kill targets: minecraft:entity\n"}, w.lines)
}

func TestParse_CacheHit(t *testing.T) {
	p := newTestParser()
	first := p.Parse("gamerule keepInventory true")
	assert.Equal(t, 0, p.Stats().Hits)
	assert.Equal(t, 1, p.Stats().Misses)

	second := p.Parse("gamerule  keepInventory   true")
	assert.Equal(t, 1, p.Stats().Hits)
	b := Children(second.Root)[2].(*Bool)
	assert.True(t, b.Value)
	assert.Equal(t, 26, b.From)
	assert.Equal(t, 30, b.To)
	// The hit is a copy owned by the new tree.
	assert.NotSame(t, Children(first.Root)[2], b)
}

func TestParse_ReleasedTreeIsCleanMiss(t *testing.T) {
	p := newTestParser()
	p.Parse("gamerule keepInventory true").Release()

	tree := p.Parse("gamerule keepInventory true")
	assert.True(t, tree.Valid())
	assert.Equal(t, 0, p.Stats().Hits)
	assert.Equal(t, 2, p.Stats().Misses)
}

func TestParse_ArenaBounded(t *testing.T) {
	p := newTestParser()
	var trees []*Tree
	for range 1000 {
		trees = append(trees, p.Parse("gamerule keepInventory true"))
	}
	// Only the last tree holds a cache entry; dropped trees hold none.
	assert.Equal(t, 1, p.arena.Live())
	assert.Equal(t, 999, p.Stats().Hits)
	assert.True(t, allValid(trees))
}

func allValid(trees []*Tree) bool {
	for _, t := range trees {
		if !t.Valid() {
			return false
		}
	}
	return true
}

func TestParse_CacheSizeBounded(t *testing.T) {
	p := must.OK1(NewParser(Config{Schema: parsetest.Schema(), CacheCapacity: 2}))
	for _, v := range []string{"1", "2", "3", "4", "1", "2"} {
		p.Parse("weather clear " + v)
		assert.LessOrEqual(t, p.Stats().Size, p.Stats().Capacity)
	}
	assert.Equal(t, 2, p.Stats().Size)
}

func TestParse_ContextualTypeUsesPositionQualifiedKeys(t *testing.T) {
	calls := 0
	reg := DefaultRegistry()
	reg.Register("test:word", ArgType{
		Cacheable: true, Contextual: true,
		New: simple(func(r *Reader) (Node, *Error) {
			calls++
			begin := r.Pos()
			text := r.ReadToken()
			return &Raw{leaf(r.Since(begin)), "test:word", text}, nil
		}),
	})
	s := must.OK1(schema.Parse("ctx.json", []byte(`{
	  "type": "root",
	  "children": {
	    "w": {"type": "argument", "parser": "test:word", "executable": true}
	  }
	}`)))
	p := must.OK1(NewParser(Config{Schema: s, Registry: reg}))

	p.Parse("abc")
	p.Parse("abc")
	assert.Equal(t, 1, calls)
	p.Parse(" abc")
	assert.Equal(t, 2, calls)
}

func TestRoundTrip(t *testing.T) {
	p := newTestParser()
	for _, test := range parseTests {
		if len(test.errors) > 0 {
			continue
		}
		t.Run(test.name, func(t *testing.T) {
			tree := p.Parse(test.text)
			printed := Print(tree.Root)
			again := p.Parse(printed)
			assert.Empty(t, again.Errors, "printed text %q", printed)
			assert.Equal(t, Dump(tree.Root), Dump(again.Root), "printed text %q", printed)
		})
	}
}

func TestQuote(t *testing.T) {
	tt.Test(t, tt.Fn("Quote", Quote).ArgsFmt("(%q)"), tt.Table{
		Args("word").Rets("word"),
		Args("").Rets(`""`),
		Args("a b").Rets(`"a b"`),
		Args(`say "hi"`).Rets(`"say \"hi\""`),
		Args(`back\slash`).Rets(`"back\\slash"`),
	})
}
