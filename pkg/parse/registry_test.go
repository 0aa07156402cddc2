package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"src.mcfn.dev/pkg/must"
	"src.mcfn.dev/pkg/schema"
)

func TestBind_SharesBindingsBetweenEqualProperties(t *testing.T) {
	s := must.OK1(schema.Parse("share.json", []byte(`{
	  "type": "root",
	  "children": {
	    "a": {"type": "argument", "parser": "brigadier:integer",
	          "properties": {"min": 0, "max": 9}, "executable": true},
	    "b": {"type": "literal", "children": {
	      "c": {"type": "argument", "parser": "brigadier:integer",
	            "properties": {"max": 9, "min": 0}, "executable": true},
	      "d": {"type": "argument", "parser": "brigadier:integer",
	            "properties": {"min": 1}, "executable": true}
	    }},
	    "e": {"type": "argument", "parser": "test:unknown", "executable": true}
	  }
	}`)))
	bindings, unknown, err := bind(s, DefaultRegistry())
	require.NoError(t, err)

	a, c, d := bindings[s.Lookup("a")], bindings[s.Lookup("b", "c")], bindings[s.Lookup("b", "d")]
	assert.Same(t, a, c)
	assert.NotEqual(t, a.id, d.id)
	assert.Greater(t, a.id, rootTypeID)
	assert.True(t, a.cacheable)
	assert.Equal(t, []string{"e: test:unknown"}, unknown)
	assert.True(t, bindings[s.Lookup("e")].cacheable)
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.Empty(t, reg.IDs())
	reg.Register("b:x", ArgType{})
	reg.Register("a:y", ArgType{Cacheable: true})
	assert.Equal(t, []string{"a:y", "b:x"}, reg.IDs())
	typ, ok := reg.Lookup("a:y")
	assert.True(t, ok)
	assert.True(t, typ.Cacheable)
	_, ok = reg.Lookup("c:z")
	assert.False(t, ok)

	ids := DefaultRegistry().IDs()
	for _, id := range []string{"brigadier:bool", "brigadier:string", "minecraft:vec3", "minecraft:uuid", "minecraft:time"} {
		assert.Contains(t, ids, id)
	}
}
