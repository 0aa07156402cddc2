package parse

// Visitor is called for each node by Walk. It has one method for each node
// type, so adding a node type breaks every implementation until it handles
// the new type.
type Visitor interface {
	VisitRoot(*Root)
	VisitLiteral(*Literal)
	VisitBool(*Bool)
	VisitInteger(*Integer)
	VisitLong(*Long)
	VisitFloat(*Float)
	VisitDouble(*Double)
	VisitString(*String)
	VisitResourceLocation(*ResourceLocation)
	VisitUUID(*UUID)
	VisitEnum(*Enum)
	VisitTime(*Time)
	VisitCoordinates(*Coordinates)
	VisitRaw(*Raw)
	VisitSkip(*Skip)
}

// Order is the order in which Walk visits a node and its children.
type Order int

// Possible values of Order.
const (
	// A node before its children.
	PreOrder Order = iota
	// A node after its children.
	PostOrder
)

// Walk visits n and all its descendants, each exactly once. Children are
// visited in the order of their spans.
func Walk(n Node, v Visitor, order Order) {
	if order == PreOrder {
		n.accept(v)
	}
	for _, ch := range n.n().children {
		Walk(ch, v, order)
	}
	if order == PostOrder {
		n.accept(v)
	}
}

func (n *Root) accept(v Visitor)             { v.VisitRoot(n) }
func (n *Literal) accept(v Visitor)          { v.VisitLiteral(n) }
func (n *Bool) accept(v Visitor)             { v.VisitBool(n) }
func (n *Integer) accept(v Visitor)          { v.VisitInteger(n) }
func (n *Long) accept(v Visitor)             { v.VisitLong(n) }
func (n *Float) accept(v Visitor)            { v.VisitFloat(n) }
func (n *Double) accept(v Visitor)           { v.VisitDouble(n) }
func (n *String) accept(v Visitor)           { v.VisitString(n) }
func (n *ResourceLocation) accept(v Visitor) { v.VisitResourceLocation(n) }
func (n *UUID) accept(v Visitor)             { v.VisitUUID(n) }
func (n *Enum) accept(v Visitor)             { v.VisitEnum(n) }
func (n *Time) accept(v Visitor)             { v.VisitTime(n) }
func (n *Coordinates) accept(v Visitor)      { v.VisitCoordinates(n) }
func (n *Raw) accept(v Visitor)              { v.VisitRaw(n) }
func (n *Skip) accept(v Visitor)             { v.VisitSkip(n) }
