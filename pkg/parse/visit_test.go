package parse

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Records the types of visited nodes. The embedded Printer handles the node
// types the tests don't care about.
type recorder struct {
	Printer
	visited []string
}

func (r *recorder) record(n Node) {
	r.visited = append(r.visited, reflect.TypeOf(n).Elem().Name())
}

func (r *recorder) VisitRoot(n *Root)       { r.record(n) }
func (r *recorder) VisitLiteral(n *Literal) { r.record(n) }
func (r *recorder) VisitBool(n *Bool)       { r.record(n) }

func TestWalk(t *testing.T) {
	tree := newTestParser().Parse("gamerule keepInventory true")
	tests := []struct {
		order Order
		want  []string
	}{
		{PreOrder, []string{"Root", "Literal", "Literal", "Bool"}},
		{PostOrder, []string{"Literal", "Literal", "Bool", "Root"}},
	}
	for _, test := range tests {
		r := &recorder{}
		Walk(tree.Root, r, test.order)
		if diff := cmp.Diff(test.want, r.visited); diff != "" {
			t.Errorf("order %v (-want +got):\n%s", test.order, diff)
		}
	}
}

func TestPrint(t *testing.T) {
	p := newTestParser()
	tests := []struct{ text, want string }{
		{"gamemode   creative", "gamemode creative"},
		{"setblock ~0 ~ 5 minecraft:stone", "setblock ~ ~ 5 minecraft:stone"},
		{"setblock 1 2 3 stone", "setblock 1 2 3 minecraft:stone"},
		{"time set 2d", "time set 48000"},
		{"echo 'hi'", `echo "hi"`},
		{"spreadplayers 1.50 2 3.0", "spreadplayers 1.5 2 3"},
		{"team modify blue color reset", "team modify blue color reset"},
	}
	for _, test := range tests {
		tree := p.Parse(test.text)
		if got := Print(tree.Root); got != test.want {
			t.Errorf("Print(parse(%q)) = %q, want %q", test.text, got, test.want)
		}
	}
}
