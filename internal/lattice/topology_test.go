package lattice

import (
	"testing"
)

func TestNeighborhood_OffsetCounts(t *testing.T) {
	tests := []struct {
		shape Neighborhood
		dim   int
		want  int
	}{
		{NearestNeighbor(), 1, 2},
		{NearestNeighbor(), 2, 4},
		{NearestNeighbor(), 3, 6},
		{Hexagonal(), 2, 6},
	}

	for _, tt := range tests {
		offsets, err := tt.shape.Offsets(tt.dim)
		if err != nil {
			t.Errorf("%s dim=%d: unexpected error: %v", tt.shape, tt.dim, err)
			continue
		}
		if len(offsets) != tt.want {
			t.Errorf("%s dim=%d: expected %d offsets, got %d", tt.shape, tt.dim, tt.want, len(offsets))
		}
	}
}

func TestNeighborhood_InvalidDimensions(t *testing.T) {
	tests := []struct {
		shape Neighborhood
		dim   int
	}{
		{Hexagonal(), 1},
		{Hexagonal(), 3},
		{NearestNeighbor(), 0},
		{NearestNeighbor(), 4},
	}

	for _, tt := range tests {
		_, err := tt.shape.Offsets(tt.dim)
		if err == nil {
			t.Errorf("%s dim=%d: expected a TopologyError", tt.shape, tt.dim)
			continue
		}
		topoErr, ok := err.(*TopologyError)
		if !ok {
			t.Errorf("%s dim=%d: expected *TopologyError, got %T", tt.shape, tt.dim, err)
			continue
		}
		if topoErr.Shape != tt.shape.String() || topoErr.Dim != tt.dim {
			t.Errorf("TopologyError fields mismatch: got shape=%s dim=%d", topoErr.Shape, topoErr.Dim)
		}
	}
}

func TestNeighborhood_HexOffsetsAreAxial(t *testing.T) {
	offsets, err := Hexagonal().Offsets(2)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// The two diagonal axial neighbors distinguish hex from von Neumann.
	wantDiag := map[Offset]bool{{X: 1, Y: -1}: false, {X: -1, Y: 1}: false}
	for _, off := range offsets {
		if off.Z != 0 {
			t.Errorf("Hex offset %v uses the Z axis", off)
		}
		if _, ok := wantDiag[off]; ok {
			wantDiag[off] = true
		}
	}
	for off, seen := range wantDiag {
		if !seen {
			t.Errorf("Missing axial offset %v", off)
		}
	}
}

func TestNeighborhood_OffsetsDeterministic(t *testing.T) {
	for _, dim := range []int{1, 2, 3} {
		a, _ := NearestNeighbor().Offsets(dim)
		b, _ := NearestNeighbor().Offsets(dim)
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("dim=%d offset %d differs between calls: %v vs %v", dim, i, a[i], b[i])
			}
		}
	}
}

func TestParseNeighborhood(t *testing.T) {
	tests := []struct {
		in     string
		want   Neighborhood
		wantOK bool
	}{
		{"nearest-neighbor", VonNeumann, true},
		{"nearest", VonNeumann, true},
		{"von-neumann", VonNeumann, true},
		{"hexagonal", Hex, true},
		{"hex", Hex, true},
		{"moore", VonNeumann, false},
		{"", VonNeumann, false},
	}

	for _, tt := range tests {
		got, ok := ParseNeighborhood(tt.in)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("ParseNeighborhood(%q) = (%v, %v), expected (%v, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
