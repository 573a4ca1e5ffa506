package lattice

import (
	"testing"
)

func newTestState(t *testing.T, dim int, names ...string) (*State, *Alphabet) {
	t.Helper()
	alphabet, err := NewAlphabet(names...)
	if err != nil {
		t.Fatalf("Failed to create alphabet: %v", err)
	}
	st, err := NewState(alphabet, dim)
	if err != nil {
		t.Fatalf("Failed to create state: %v", err)
	}
	return st, alphabet
}

func TestState_SetGet(t *testing.T) {
	st, a := newTestState(t, 2, "Wolf", "Rabbit")
	wolf, _ := a.Symbol("Wolf")

	c := Coord{X: 3, Y: -1}
	if st.Get(c) != Empty {
		t.Error("Vacant site should read Empty")
	}
	if err := st.Set(c, wolf); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if st.Get(c) != wolf {
		t.Error("Site should read Wolf after Set")
	}
	if st.Len() != 1 {
		t.Errorf("Expected 1 occupied site, got %d", st.Len())
	}

	// Setting Empty clears.
	if err := st.Set(c, Empty); err != nil {
		t.Fatalf("Clearing failed: %v", err)
	}
	if st.Get(c) != Empty || st.Len() != 0 {
		t.Error("Site should be vacant after clearing")
	}
}

func TestState_RejectsUnknownSymbol(t *testing.T) {
	st, _ := newTestState(t, 2, "A")
	if err := st.Set(Coord{}, Symbol(7)); err == nil {
		t.Error("Expected an error for a symbol outside the alphabet")
	}
}

func TestState_RejectsAxisBeyondDim(t *testing.T) {
	st, a := newTestState(t, 1, "A")
	sym, _ := a.Symbol("A")
	if err := st.Set(Coord{X: 0, Y: 1}, sym); err == nil {
		t.Error("Expected an error for a Y coordinate on a 1D lattice")
	}
	if err := st.Set(Coord{X: 0, Z: 1}, sym); err == nil {
		t.Error("Expected an error for a Z coordinate on a 1D lattice")
	}
}

func TestState_Bounds(t *testing.T) {
	st, a := newTestState(t, 2, "A")
	sym, _ := a.Symbol("A")

	b := Bounds{Min: Coord{X: 0, Y: 0}, Max: Coord{X: 4, Y: 4}}
	if err := st.SetBounds(b); err != nil {
		t.Fatalf("SetBounds failed: %v", err)
	}
	if b.NumSites() != 25 {
		t.Errorf("Expected 25 sites, got %d", b.NumSites())
	}

	if err := st.Set(Coord{X: 5, Y: 0}, sym); err == nil {
		t.Error("Expected an error writing outside the bounds")
	}
	if st.InDomain(Coord{X: 5, Y: 0}) {
		t.Error("Out-of-bounds coordinate should not be in domain")
	}
	if !st.InDomain(Coord{X: 4, Y: 4}) {
		t.Error("Max corner should be in domain (bounds are inclusive)")
	}

	// Bounds conflicting with an existing site are rejected.
	if err := st.Set(Coord{X: 4, Y: 4}, sym); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := st.SetBounds(Bounds{Max: Coord{X: 1, Y: 1}}); err == nil {
		t.Error("Expected an error shrinking bounds below an occupied site")
	}
}

func TestState_InvertedBounds(t *testing.T) {
	st, _ := newTestState(t, 2, "A")
	if err := st.SetBounds(Bounds{Min: Coord{X: 3}, Max: Coord{X: 1}}); err == nil {
		t.Error("Expected an error for max below min")
	}
}

func TestState_Barriers(t *testing.T) {
	st, a := newTestState(t, 2, "A", "Rock")
	rock, _ := a.Symbol("Rock")
	sym, _ := a.Symbol("A")

	c := Coord{X: 1, Y: 1}
	if err := st.PinBarrier(rock, c); err != nil {
		t.Fatalf("PinBarrier failed: %v", err)
	}
	if !st.IsBarrier(c) {
		t.Error("Site should be a barrier after pinning")
	}
	if st.Get(c) != rock {
		t.Error("Barrier site should read the barrier symbol")
	}
	if err := st.Set(c, sym); err == nil {
		t.Error("Expected an error writing to a pinned barrier site")
	}
	if err := st.PinBarrier(Empty, Coord{X: 0, Y: 0}); err == nil {
		t.Error("Expected an error pinning the empty symbol")
	}
}

func TestState_OccupiedSorted(t *testing.T) {
	st, a := newTestState(t, 2, "A")
	sym, _ := a.Symbol("A")
	coords := []Coord{{X: 2, Y: 1}, {X: -1, Y: 5}, {X: 2, Y: 0}, {X: 0, Y: 0}}
	for _, c := range coords {
		if err := st.Set(c, sym); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	got := st.Occupied()
	want := []Coord{{X: -1, Y: 5}, {X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}}
	if len(got) != len(want) {
		t.Fatalf("Expected %d coords, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestState_Counts(t *testing.T) {
	st, a := newTestState(t, 2, "Wolf", "Rabbit")
	wolf, _ := a.Symbol("Wolf")
	rabbit, _ := a.Symbol("Rabbit")

	_ = st.Set(Coord{X: 0}, wolf)
	_ = st.Set(Coord{X: 1}, rabbit)
	_ = st.Set(Coord{X: 2}, rabbit)

	if st.Count(wolf) != 1 || st.Count(rabbit) != 2 {
		t.Errorf("Unexpected counts: wolf=%d rabbit=%d", st.Count(wolf), st.Count(rabbit))
	}
	counts := st.Counts()
	if counts["Wolf"] != 1 || counts["Rabbit"] != 2 {
		t.Errorf("Unexpected name counts: %v", counts)
	}
	if got := st.CoordsOf(rabbit); len(got) != 2 || got[0] != (Coord{X: 1}) {
		t.Errorf("Unexpected rabbit coords: %v", got)
	}
}

func TestState_Clone(t *testing.T) {
	st, a := newTestState(t, 2, "A", "Rock")
	sym, _ := a.Symbol("A")
	rock, _ := a.Symbol("Rock")
	_ = st.SetBounds(Bounds{Min: Coord{X: -5, Y: -5}, Max: Coord{X: 5, Y: 5}})
	_ = st.Set(Coord{X: 1, Y: 1}, sym)
	_ = st.PinBarrier(rock, Coord{X: 2, Y: 2})

	cp := st.Clone()
	if cp.Len() != st.Len() || !cp.IsBarrier(Coord{X: 2, Y: 2}) {
		t.Fatal("Clone should copy sites and barriers")
	}
	if _, ok := cp.Bounds(); !ok {
		t.Error("Clone should copy bounds")
	}

	// Mutating the clone must not touch the original.
	_ = cp.Set(Coord{X: 1, Y: 1}, Empty)
	if st.Get(Coord{X: 1, Y: 1}) != sym {
		t.Error("Mutating the clone leaked into the original")
	}
}

func TestNewStateFromSites(t *testing.T) {
	alphabet, _ := NewAlphabet("A")
	sym, _ := alphabet.Symbol("A")

	st, err := NewStateFromSites(alphabet, 2, []Coord{{X: 0}, {X: 1}}, []Symbol{sym, sym})
	if err != nil {
		t.Fatalf("NewStateFromSites failed: %v", err)
	}
	if st.Len() != 2 {
		t.Errorf("Expected 2 sites, got %d", st.Len())
	}

	// Length mismatch.
	if _, err := NewStateFromSites(alphabet, 2, []Coord{{X: 0}}, nil); err == nil {
		t.Error("Expected an error for mismatched lengths")
	}
	// Duplicate coordinate.
	if _, err := NewStateFromSites(alphabet, 2, []Coord{{X: 0}, {X: 0}}, []Symbol{sym, sym}); err == nil {
		t.Error("Expected an error for a duplicate coordinate")
	}
}

func TestNewState_InvalidDim(t *testing.T) {
	alphabet, _ := NewAlphabet("A")
	for _, dim := range []int{0, 4, -1} {
		if _, err := NewState(alphabet, dim); err == nil {
			t.Errorf("Expected an error for dim=%d", dim)
		}
	}
}
