package diag

import "testing"

type aRanger struct {
	Ranging
}

func TestEmbeddingRangingImplementsRanger(t *testing.T) {
	r := Ranging{1, 10}
	s := Ranger(aRanger{Ranging{1, 10}})
	if s.Range() != r {
		t.Errorf("s.Range() = %v, want %v", s.Range(), r)
	}
}

func TestRangingHelpers(t *testing.T) {
	r := SpanRanging(3, 4)
	if r != (Ranging{3, 7}) {
		t.Errorf("SpanRanging(3, 4) = %v, want {3 7}", r)
	}
	if r.Len() != 4 {
		t.Errorf("Len() = %d, want 4", r.Len())
	}
	if got := r.Shift(10); got != (Ranging{13, 17}) {
		t.Errorf("Shift(10) = %v, want {13 17}", got)
	}
	if !r.Contains(Ranging{4, 7}) {
		t.Errorf("%v should contain {4 7}", r)
	}
	if r.Contains(Ranging{2, 5}) {
		t.Errorf("%v should not contain {2 5}", r)
	}
	if got := MixedRanging(Ranging{1, 2}, Ranging{5, 9}); got != (Ranging{1, 9}) {
		t.Errorf("MixedRanging = %v, want {1 9}", got)
	}
}
