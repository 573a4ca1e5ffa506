package lattice

import (
	"sort"
)

// Coord is an integer lattice coordinate. Axes beyond the model
// dimensionality stay zero.
type Coord struct {
	X, Y, Z int
}

// Add displaces a coordinate by an offset.
func (c Coord) Add(o Offset) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y, Z: c.Z + o.Z}
}

// less orders coordinates lexicographically (X, Y, Z). Every enumeration of
// lattice sites uses this order so runs are reproducible under a fixed seed.
func (c Coord) less(o Coord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.Z < o.Z
}

// Bounds is an inclusive axis-aligned domain limit.
type Bounds struct {
	Min, Max Coord
}

// Contains reports whether c lies inside the bounds.
func (b Bounds) Contains(c Coord) bool {
	return c.X >= b.Min.X && c.X <= b.Max.X &&
		c.Y >= b.Min.Y && c.Y <= b.Max.Y &&
		c.Z >= b.Min.Z && c.Z <= b.Max.Z
}

// NumSites returns the number of lattice sites inside the bounds.
func (b Bounds) NumSites() int {
	return (b.Max.X - b.Min.X + 1) * (b.Max.Y - b.Min.Y + 1) * (b.Max.Z - b.Min.Z + 1)
}

// State holds the occupancy of a lattice: a mapping from coordinate to
// occupying symbol, with absent coordinates reading Empty. A state may be
// unbounded (the default) or limited to declared bounds, and may pin a set
// of barrier sites that never transition.
//
// During a simulation run the Simulator is the only mutator; concurrent
// readers are not supported while a run is in progress.
type State struct {
	alphabet *Alphabet
	dim      int
	sites    map[Coord]Symbol
	bounds   *Bounds
	barriers map[Coord]struct{}
}

// NewState creates an empty unbounded lattice of the given dimensionality.
func NewState(alphabet *Alphabet, dim int) (*State, error) {
	if alphabet == nil {
		return nil, configErrorf("alphabet is nil")
	}
	if dim < 1 || dim > 3 {
		return nil, configErrorf("dimensionality must be 1, 2 or 3, got %d", dim)
	}
	return &State{
		alphabet: alphabet,
		dim:      dim,
		sites:    make(map[Coord]Symbol),
		barriers: make(map[Coord]struct{}),
	}, nil
}

// NewStateFromSites creates a lattice from explicit (coordinate, symbol)
// assignments. The coordinate and symbol lists must have equal length;
// duplicate coordinates are rejected.
func NewStateFromSites(alphabet *Alphabet, dim int, coords []Coord, symbols []Symbol) (*State, error) {
	s, err := NewState(alphabet, dim)
	if err != nil {
		return nil, err
	}
	if len(coords) != len(symbols) {
		return nil, configErrorf("%d coordinates but %d symbols", len(coords), len(symbols))
	}
	cfgErr := &ConfigurationError{}
	for i, c := range coords {
		if _, dup := s.sites[c]; dup {
			cfgErr.Addf("duplicate coordinate %v", c)
			continue
		}
		if err := s.checkCoord(c); err != nil {
			cfgErr.Add(err.Error())
			continue
		}
		sym := symbols[i]
		if !alphabet.Contains(sym) {
			cfgErr.Addf("coordinate %v: symbol %d is not in the alphabet", c, sym)
			continue
		}
		if sym != Empty {
			s.sites[c] = sym
		}
	}
	if cfgErr.HasIssues() {
		return nil, cfgErr
	}
	return s, nil
}

// SetBounds limits the lattice domain. Sites already placed outside the
// bounds make this a ConfigurationError.
func (s *State) SetBounds(b Bounds) error {
	if b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z {
		return configErrorf("bounds max %v below min %v", b.Max, b.Min)
	}
	for c := range s.sites {
		if !b.Contains(c) {
			return configErrorf("existing site %v lies outside bounds", c)
		}
	}
	s.bounds = &b
	return nil
}

// Bounds returns the declared bounds, if any.
func (s *State) Bounds() (Bounds, bool) {
	if s.bounds == nil {
		return Bounds{}, false
	}
	return *s.bounds, true
}

// Dim returns the lattice dimensionality.
func (s *State) Dim() int { return s.dim }

// Alphabet returns the symbol alphabet the state was built against.
func (s *State) Alphabet() *Alphabet { return s.alphabet }

// InDomain reports whether a coordinate is addressable: always true for an
// unbounded lattice, bounds membership otherwise.
func (s *State) InDomain(c Coord) bool {
	return s.bounds == nil || s.bounds.Contains(c)
}

// checkCoord rejects coordinates with occupied axes beyond the declared
// dimensionality and, for a bounded lattice, coordinates outside the domain.
func (s *State) checkCoord(c Coord) error {
	if (s.dim < 3 && c.Z != 0) || (s.dim < 2 && c.Y != 0) {
		return configErrorf("coordinate %v uses an axis beyond dimensionality %d", c, s.dim)
	}
	if !s.InDomain(c) {
		return configErrorf("coordinate %v is outside the declared bounds", c)
	}
	return nil
}

// Get returns the occupant of a coordinate, Empty if the coordinate is
// vacant or out of domain.
func (s *State) Get(c Coord) Symbol {
	return s.sites[c]
}

// Set places a symbol at a coordinate, or clears it when the symbol is
// Empty. Barrier sites cannot be written.
func (s *State) Set(c Coord, sym Symbol) error {
	if err := s.checkCoord(c); err != nil {
		return err
	}
	if !s.alphabet.Contains(sym) {
		return configErrorf("symbol %d is not in the alphabet", sym)
	}
	if _, pinned := s.barriers[c]; pinned {
		return configErrorf("coordinate %v is a pinned barrier site", c)
	}
	if sym == Empty {
		delete(s.sites, c)
		return nil
	}
	s.sites[c] = sym
	return nil
}

// set is the simulator's unchecked write path; the simulator never targets
// barrier or out-of-domain coordinates.
func (s *State) set(c Coord, sym Symbol) {
	if sym == Empty {
		delete(s.sites, c)
		return
	}
	s.sites[c] = sym
}

// PinBarrier pins coordinates permanently to a barrier symbol. Pinned sites
// never transition and are excluded from reactant matching.
func (s *State) PinBarrier(sym Symbol, coords ...Coord) error {
	if sym == Empty || !s.alphabet.Contains(sym) {
		return configErrorf("barrier symbol %d is not an agent symbol", sym)
	}
	for _, c := range coords {
		if err := s.checkCoord(c); err != nil {
			return err
		}
	}
	for _, c := range coords {
		s.sites[c] = sym
		s.barriers[c] = struct{}{}
	}
	return nil
}

// IsBarrier reports whether a coordinate is pinned.
func (s *State) IsBarrier(c Coord) bool {
	_, ok := s.barriers[c]
	return ok
}

// Occupied returns all occupied coordinates, barrier sites included, in
// deterministic sorted order.
func (s *State) Occupied() []Coord {
	out := make([]Coord, 0, len(s.sites))
	for c := range s.sites {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// CoordsOf returns the sorted coordinates occupied by one symbol.
func (s *State) CoordsOf(sym Symbol) []Coord {
	var out []Coord
	for c, occ := range s.sites {
		if occ == sym {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// Count returns the number of sites occupied by one symbol.
func (s *State) Count(sym Symbol) int {
	n := 0
	for _, occ := range s.sites {
		if occ == sym {
			n++
		}
	}
	return n
}

// Counts returns per-symbol-name occupancy counts.
func (s *State) Counts() map[string]int {
	out := make(map[string]int)
	for _, occ := range s.sites {
		out[s.alphabet.Name(occ)]++
	}
	return out
}

// Len returns the total number of occupied sites.
func (s *State) Len() int {
	return len(s.sites)
}

// Clone returns a deep copy sharing only the immutable alphabet. Used for
// ensemble runs, where every replicate owns a private state.
func (s *State) Clone() *State {
	cp := &State{
		alphabet: s.alphabet,
		dim:      s.dim,
		sites:    make(map[Coord]Symbol, len(s.sites)),
		barriers: make(map[Coord]struct{}, len(s.barriers)),
	}
	for c, sym := range s.sites {
		cp.sites[c] = sym
	}
	for c := range s.barriers {
		cp.barriers[c] = struct{}{}
	}
	if s.bounds != nil {
		b := *s.bounds
		cp.bounds = &b
	}
	return cp
}
