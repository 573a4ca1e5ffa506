package lattice

import (
	"encoding/json"
	"fmt"
)

// SiteRecord is one occupied site in a serialized snapshot.
type SiteRecord struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Z       int    `json:"z"`
	Symbol  string `json:"symbol"`
	Barrier bool   `json:"barrier,omitempty"`
}

// Snapshot is an immutable point-in-time capture of a lattice state.
// Sites are sorted in coordinate order, so equal states serialize to equal
// bytes.
type Snapshot struct {
	Time  float64      `json:"time"`
	Dim   int          `json:"dim"`
	Sites []SiteRecord `json:"sites"`
}

// Snapshot captures the current occupancy at the given simulated time.
func (s *State) Snapshot(time float64) Snapshot {
	coords := s.Occupied()
	snap := Snapshot{Time: time, Dim: s.dim, Sites: make([]SiteRecord, 0, len(coords))}
	for _, c := range coords {
		snap.Sites = append(snap.Sites, SiteRecord{
			X:       c.X,
			Y:       c.Y,
			Z:       c.Z,
			Symbol:  s.alphabet.Name(s.sites[c]),
			Barrier: s.IsBarrier(c),
		})
	}
	return snap
}

// NewStateFromSnapshot reconstructs a lattice state from a snapshot. The
// snapshot must have been taken against the same alphabet.
func NewStateFromSnapshot(alphabet *Alphabet, snap Snapshot) (*State, error) {
	if err := ValidateSnapshot(snap, alphabet); err != nil {
		return nil, err
	}
	s, err := NewState(alphabet, snap.Dim)
	if err != nil {
		return nil, err
	}
	for _, site := range snap.Sites {
		sym, _ := alphabet.Symbol(site.Symbol)
		c := Coord{X: site.X, Y: site.Y, Z: site.Z}
		if site.Barrier {
			if err := s.PinBarrier(sym, c); err != nil {
				return nil, err
			}
			continue
		}
		if err := s.Set(c, sym); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Count returns the number of sites in the snapshot occupied by the named
// symbol.
func (snap Snapshot) Count(symbol string) int {
	n := 0
	for _, site := range snap.Sites {
		if site.Symbol == symbol {
			n++
		}
	}
	return n
}

// Counts returns per-symbol occupancy counts of the snapshot.
func (snap Snapshot) Counts() map[string]int {
	out := make(map[string]int)
	for _, site := range snap.Sites {
		out[site.Symbol]++
	}
	return out
}

// Population returns the number of occupied sites, barrier sites excluded.
func (snap Snapshot) Population() int {
	n := 0
	for _, site := range snap.Sites {
		if !site.Barrier {
			n++
		}
	}
	return n
}

// ValidateSnapshot checks a snapshot for duplicate coordinates, an invalid
// dimensionality, and (when an alphabet is given) unknown or empty symbols.
func ValidateSnapshot(snap Snapshot, alphabet *Alphabet) error {
	if snap.Dim < 1 || snap.Dim > 3 {
		return configErrorf("snapshot dimensionality must be 1, 2 or 3, got %d", snap.Dim)
	}
	seen := make(map[Coord]struct{}, len(snap.Sites))
	for i, site := range snap.Sites {
		c := Coord{X: site.X, Y: site.Y, Z: site.Z}
		if _, dup := seen[c]; dup {
			return configErrorf("snapshot site %d repeats coordinate %v", i, c)
		}
		seen[c] = struct{}{}
		if site.Symbol == EmptyToken || site.Symbol == EmptyTokenAlt {
			return configErrorf("snapshot site %d stores the empty symbol explicitly", i)
		}
		if alphabet != nil {
			if _, ok := alphabet.Symbol(site.Symbol); !ok {
				return configErrorf("snapshot site %d has unknown symbol %q", i, site.Symbol)
			}
		}
	}
	return nil
}

// EncodeSnapshotJSON encodes a snapshot to JSON.
func EncodeSnapshotJSON(snap Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshotJSON decodes a snapshot from JSON.
func DecodeSnapshotJSON(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}
