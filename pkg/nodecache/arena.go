package nodecache

// Handle identifies a value stored in an Arena. The zero Handle never refers
// to a live value.
type Handle struct {
	index int32
	gen   uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

// Arena stores values in reusable slots. Each slot carries a generation that
// is bumped when the slot is freed, so a Handle to a freed or reused slot is
// detected as stale instead of reaching the new occupant.
//
// An Arena is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []int32
	live  int
}

type slot[T any] struct {
	value T
	gen   uint32
	used  bool
}

// NewArena creates an empty Arena.
func NewArena[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc stores v and returns its handle.
func (a *Arena[T]) Alloc(v T) Handle {
	var i int32
	if n := len(a.free); n > 0 {
		i = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		i = int32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[i]
	s.gen++
	s.value = v
	s.used = true
	a.live++
	return Handle{i, s.gen}
}

// Get returns the value h refers to. It returns false if h is stale.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	if !a.valid(h) {
		var zero T
		return zero, false
	}
	return a.slots[h.index].value, true
}

// Free releases the slot h refers to. It returns false if h is already stale.
func (a *Arena[T]) Free(h Handle) bool {
	if !a.valid(h) {
		return false
	}
	s := &a.slots[h.index]
	var zero T
	s.value = zero
	s.used = false
	// Bump now so that h goes stale even before the slot is reused.
	s.gen++
	a.free = append(a.free, h.index)
	a.live--
	return true
}

// Live returns the number of values currently stored.
func (a *Arena[T]) Live() int { return a.live }

func (a *Arena[T]) valid(h Handle) bool {
	if h.gen == 0 || h.index < 0 || int(h.index) >= len(a.slots) {
		return false
	}
	s := &a.slots[h.index]
	return s.used && s.gen == h.gen
}
