package lattice

// Offset is a relative lattice displacement. Unused axes stay zero, so the
// same type serves 1D, 2D and 3D models.
type Offset struct {
	X, Y, Z int
}

// Neighborhood enumerates the supported neighborhood shapes.
type Neighborhood int

const (
	// VonNeumann is the nearest-neighbor shape: 2 offsets in 1D, 4 in 2D,
	// 6 in 3D.
	VonNeumann Neighborhood = iota
	// Hex is the hexagonal shape in axial coordinates: 6 offsets, 2D only.
	Hex
)

// NearestNeighbor selects the von Neumann nearest-neighbor shape.
func NearestNeighbor() Neighborhood { return VonNeumann }

// Hexagonal selects the hexagonal shape. Valid only with dimension 2.
func Hexagonal() Neighborhood { return Hex }

func (n Neighborhood) String() string {
	switch n {
	case VonNeumann:
		return "nearest-neighbor"
	case Hex:
		return "hexagonal"
	default:
		return "unknown"
	}
}

// ParseNeighborhood resolves a config string to a shape.
func ParseNeighborhood(s string) (Neighborhood, bool) {
	switch s {
	case "nearest-neighbor", "nearest", "von-neumann":
		return VonNeumann, true
	case "hexagonal", "hex":
		return Hex, true
	default:
		return VonNeumann, false
	}
}

// Offset tables are fixed literals so that enumeration order is identical on
// every run.
var (
	offsets1D = []Offset{{X: 1}, {X: -1}}

	offsets2D = []Offset{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

	offsets3D = []Offset{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}}

	// Axial hex coordinates: the four square neighbors plus the two
	// diagonal axial neighbors.
	offsetsHex = []Offset{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}}
)

// Offsets returns the neighbor offsets of the shape for the given
// dimensionality, in fixed order. A shape/dimension pair outside the
// supported table fails with a TopologyError.
func (n Neighborhood) Offsets(dim int) ([]Offset, error) {
	switch n {
	case VonNeumann:
		switch dim {
		case 1:
			return offsets1D, nil
		case 2:
			return offsets2D, nil
		case 3:
			return offsets3D, nil
		}
	case Hex:
		if dim == 2 {
			return offsetsHex, nil
		}
	}
	return nil, &TopologyError{Shape: n.String(), Dim: dim}
}
