package element

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ysimillides/dolfin/mesh"
)

// MeshSnapshot is a flattened, element-agnostic summary of a mesh:
// mesh-wide entity counts per topological dimension plus the geometric
// dimension. It is built once per mesh by the dof map layer and handed
// to descriptor calls by reference; it is immutable after construction.
type MeshSnapshot struct {
	// NumEntities[d] is the mesh-wide count of entities of dimension d
	// (0 for dimensions that were never initialized).
	NumEntities []int

	// GeometricDimension is the dimension of the coordinate space.
	GeometricDimension int
}

// Descriptor is the per-element capability contract queried by the dof
// map layer: local numbering rules, entity requirements and sub-element
// factories for one finite element family. A Descriptor instance is
// exclusively owned by the dof map that holds it and is never shared
// across sub-map siblings.
//
// GlobalDimension and the tabulation methods are defined only after
// InitMesh has run (and, when InitMesh returns true, after the
// per-cell initialization pass has completed).
type Descriptor interface {
	// Signature returns a human-readable identity string.
	Signature() string

	// NeedsMeshEntities reports whether tabulation requires mesh
	// entities of dimension d to exist and be numbered.
	NeedsMeshEntities(d int) bool

	// InitMesh supplies the mesh summary and reports whether a
	// per-cell initialization pass is required before tabulation.
	InitMesh(m *MeshSnapshot) bool

	// InitCell is called once per cell, in mesh order, when InitMesh
	// returned true.
	InitCell(m *MeshSnapshot, c *mesh.Cell)

	// InitCellFinalize is called once after the per-cell pass.
	InitCellFinalize()

	// GlobalDimension returns the dimension of the global dof space.
	GlobalDimension() int

	// LocalDimension returns the number of dofs on the given cell. The
	// families in this package have a fixed local dimension and accept
	// a nil cell.
	LocalDimension(c *mesh.Cell) int

	// MaxLocalDimension bounds LocalDimension over all cells.
	MaxLocalDimension() int

	// GeometricDimension returns the coordinate-space dimension the
	// element is defined in.
	GeometricDimension() int

	// TabulateDofs writes the global dof indices of the cell's local
	// basis functions into dst, which must hold LocalDimension(c)
	// entries.
	TabulateDofs(dst []int, m *MeshSnapshot, c *mesh.Cell)

	// NumFacetDofs returns the number of dofs associated with one cell
	// facet.
	NumFacetDofs() int

	// TabulateFacetDofs writes the cell-local indices of the dofs on
	// facet localFacet into dst, which must hold NumFacetDofs entries.
	TabulateFacetDofs(dst []int, localFacet int)

	// TabulateCoordinates writes the physical coordinates of the
	// cell's dofs into dst, one row per local dof.
	TabulateCoordinates(dst *mat.Dense, c *mesh.Cell)

	// NumSubMaps returns the number of sub-element dof maps (0 for
	// non-composite families).
	NumSubMaps() int

	// SubMap returns a fresh, caller-owned descriptor for sub-element
	// i. The instance shares no state with the receiver.
	SubMap(i int) (Descriptor, error)
}

// Prototype is implemented by descriptors that can stamp out fresh,
// uninitialized copies of themselves. Composite families require it of
// their children so SubMap can hand out independent instances.
type Prototype interface {
	Fresh() Descriptor
}

// Shape names the reference simplex an element is defined on.
type Shape uint8

const (
	Interval Shape = iota
	Triangle
	Tetrahedron
)

// Dim returns the topological dimension of the shape.
func (s Shape) Dim() int {
	switch s {
	case Interval:
		return 1
	case Triangle:
		return 2
	default:
		return 3
	}
}

func (s Shape) String() string {
	switch s {
	case Interval:
		return "interval"
	case Triangle:
		return "triangle"
	default:
		return "tetrahedron"
	}
}

// choose computes the binomial coefficient C(n, k).
func choose(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	c := 1
	for i := 0; i < k; i++ {
		c = c * (n - i) / (i + 1)
	}
	return c
}
