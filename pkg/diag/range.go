// Package diag contains building blocks for reporting positions and problems
// in command sources.
package diag

// Ranger wraps the Range method.
type Ranger interface {
	// Range returns the range associated with the value.
	Range() Ranging
}

// Ranging represents a range [From, To) within a source text. Structs can
// embed Ranging to satisfy the [Ranger] interface.
//
// Ideally, this type would be called Range. However, doing that means structs
// embedding this type will have Range as a field instead of a method, thus not
// implementing the [Ranger] interface.
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// Len returns the number of bytes covered by the Ranging.
func (r Ranging) Len() int { return r.To - r.From }

// Shift returns the Ranging moved by off bytes.
func (r Ranging) Shift(off int) Ranging { return Ranging{r.From + off, r.To + off} }

// Contains reports whether other lies entirely within r.
func (r Ranging) Contains(other Ranging) bool {
	return r.From <= other.From && other.To <= r.To
}

// PointRanging returns a zero-width Ranging at the given point.
func PointRanging(p int) Ranging {
	return Ranging{p, p}
}

// SpanRanging returns a Ranging starting at start and covering length bytes.
func SpanRanging(start, length int) Ranging {
	return Ranging{start, start + length}
}

// MixedRanging returns a Ranging from the start position of a to the end
// position of b.
func MixedRanging(a, b Ranger) Ranging {
	return Ranging{a.Range().From, b.Range().To}
}
