package element

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/ysimillides/dolfin/mesh"
)

// Mixed is a composite element: the concatenation of sub-elements, each
// a full descriptor in its own right. The global dof space is the
// disjoint union of the sub spaces in sibling order, so sibling dof
// slices are contiguous and pairwise disjoint; locally a cell's dofs
// are the sub-elements' cell dofs concatenated in the same order.
type Mixed struct {
	subs []Descriptor
}

// NewMixed creates a composite element over the given sub-descriptors.
// Mixed takes ownership of the instances; every sub-descriptor must
// implement Prototype so SubMap can stamp out fresh copies.
func NewMixed(subs ...Descriptor) (*Mixed, error) {
	if len(subs) == 0 {
		return nil, fmt.Errorf("mixed element requires at least one sub element")
	}
	for i, s := range subs {
		if _, ok := s.(Prototype); !ok {
			return nil, fmt.Errorf("sub element %d (%s) cannot produce fresh copies", i, s.Signature())
		}
	}
	return &Mixed{subs: subs}, nil
}

// NewVector creates a vector-valued element: n independent copies of
// the given prototype, one per component.
func NewVector(proto Descriptor, n int) (*Mixed, error) {
	p, ok := proto.(Prototype)
	if !ok {
		return nil, fmt.Errorf("element %s cannot produce fresh copies", proto.Signature())
	}
	if n < 1 {
		return nil, fmt.Errorf("vector element requires at least one component, got %d", n)
	}
	subs := make([]Descriptor, n)
	for i := range subs {
		subs[i] = p.Fresh()
	}
	return NewMixed(subs...)
}

func (me *Mixed) Signature() string {
	var sb strings.Builder
	sb.WriteString("MixedElement([")
	for i, s := range me.subs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.Signature())
	}
	sb.WriteString("])")
	return sb.String()
}

func (me *Mixed) NeedsMeshEntities(d int) bool {
	for _, s := range me.subs {
		if s.NeedsMeshEntities(d) {
			return true
		}
	}
	return false
}

func (me *Mixed) InitMesh(m *MeshSnapshot) bool {
	needCells := false
	for _, s := range me.subs {
		if s.InitMesh(m) {
			needCells = true
		}
	}
	return needCells
}

func (me *Mixed) InitCell(m *MeshSnapshot, c *mesh.Cell) {
	for _, s := range me.subs {
		s.InitCell(m, c)
	}
}

func (me *Mixed) InitCellFinalize() {
	for _, s := range me.subs {
		s.InitCellFinalize()
	}
}

func (me *Mixed) GlobalDimension() int {
	n := 0
	for _, s := range me.subs {
		n += s.GlobalDimension()
	}
	return n
}

func (me *Mixed) LocalDimension(c *mesh.Cell) int {
	n := 0
	for _, s := range me.subs {
		n += s.LocalDimension(c)
	}
	return n
}

func (me *Mixed) MaxLocalDimension() int {
	n := 0
	for _, s := range me.subs {
		n += s.MaxLocalDimension()
	}
	return n
}

func (me *Mixed) GeometricDimension() int {
	return me.subs[0].GeometricDimension()
}

// TabulateDofs concatenates the sub-elements' cell dofs, shifting each
// sub-element's entries into its slice of the composite numbering.
func (me *Mixed) TabulateDofs(dst []int, m *MeshSnapshot, c *mesh.Cell) {
	pos, offset := 0, 0
	for _, s := range me.subs {
		ld := s.LocalDimension(c)
		s.TabulateDofs(dst[pos:pos+ld], m, c)
		for i := pos; i < pos+ld; i++ {
			dst[i] += offset
		}
		pos += ld
		offset += s.GlobalDimension()
	}
}

func (me *Mixed) NumFacetDofs() int {
	n := 0
	for _, s := range me.subs {
		n += s.NumFacetDofs()
	}
	return n
}

// TabulateFacetDofs concatenates the sub-elements' facet dofs, shifting
// each into the composite cell-local numbering.
func (me *Mixed) TabulateFacetDofs(dst []int, localFacet int) {
	pos, localOffset := 0, 0
	for _, s := range me.subs {
		nf := s.NumFacetDofs()
		s.TabulateFacetDofs(dst[pos:pos+nf], localFacet)
		for i := pos; i < pos+nf; i++ {
			dst[i] += localOffset
		}
		pos += nf
		localOffset += s.LocalDimension(nil)
	}
}

func (me *Mixed) TabulateCoordinates(dst *mat.Dense, c *mesh.Cell) {
	_, gdim := c.Coordinates.Dims()
	row := 0
	for _, s := range me.subs {
		ld := s.LocalDimension(c)
		block := dst.Slice(row, row+ld, 0, gdim).(*mat.Dense)
		s.TabulateCoordinates(block, c)
		row += ld
	}
}

func (me *Mixed) NumSubMaps() int { return len(me.subs) }

func (me *Mixed) SubMap(i int) (Descriptor, error) {
	if i < 0 || i >= len(me.subs) {
		return nil, fmt.Errorf("sub element index %d out of range [0, %d)", i, len(me.subs))
	}
	return me.subs[i].(Prototype).Fresh(), nil
}

// Fresh returns an independent, uninitialized copy.
func (me *Mixed) Fresh() Descriptor {
	subs := make([]Descriptor, len(me.subs))
	for i, s := range me.subs {
		subs[i] = s.(Prototype).Fresh()
	}
	return &Mixed{subs: subs}
}
