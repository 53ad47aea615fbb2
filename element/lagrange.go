package element

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ysimillides/dolfin/mesh"
)

// Lagrange is a nodal Lagrange element on a reference simplex. In the
// continuous variant dofs attach to mesh entities (one per vertex,
// degree-1 per edge, and so on), so dofs on shared entities coincide
// between neighboring cells. The discontinuous variant attaches the
// full nodal lattice to the cell itself.
//
// Dofs are numbered entity-block-wise: all vertex dofs first (one block
// of NumEntities(0) entities), then edge dofs, up to cell dofs. Within
// a block, entity index times dofs-per-entity plus the node index.
type Lagrange struct {
	shape         Shape
	degree        int
	discontinuous bool

	// perEntity[d] is the number of dofs attached to each entity of
	// dimension d.
	perEntity []int

	globalDim int

	// nodes caches the barycentric weights of each local dof over the
	// cell vertices, in tabulation order.
	nodes [][]float64
}

// NewLagrange creates a continuous Lagrange element of the given degree
// (at least 1) on the given shape.
func NewLagrange(shape Shape, degree int) (*Lagrange, error) {
	if degree < 1 {
		return nil, fmt.Errorf("continuous Lagrange element requires degree >= 1, got %d", degree)
	}
	dim := shape.Dim()
	per := make([]int, dim+1)
	for d := 0; d <= dim; d++ {
		per[d] = choose(degree-1, d)
	}
	return &Lagrange{shape: shape, degree: degree, perEntity: per}, nil
}

// NewDiscontinuousLagrange creates a discontinuous Lagrange element of
// the given degree (at least 0) on the given shape.
func NewDiscontinuousLagrange(shape Shape, degree int) (*Lagrange, error) {
	if degree < 0 {
		return nil, fmt.Errorf("discontinuous Lagrange element requires degree >= 0, got %d", degree)
	}
	dim := shape.Dim()
	per := make([]int, dim+1)
	per[dim] = choose(degree+dim, dim)
	return &Lagrange{shape: shape, degree: degree, discontinuous: true, perEntity: per}, nil
}

func (l *Lagrange) Signature() string {
	family := "Lagrange"
	if l.discontinuous {
		family = "Discontinuous Lagrange"
	}
	return fmt.Sprintf("FiniteElement('%s', '%s', %d)", family, l.shape, l.degree)
}

func (l *Lagrange) NeedsMeshEntities(d int) bool {
	return d >= 0 && d < len(l.perEntity) && l.perEntity[d] > 0
}

func (l *Lagrange) InitMesh(m *MeshSnapshot) bool {
	total := 0
	for d, n := range l.perEntity {
		if n > 0 && d < len(m.NumEntities) {
			total += n * m.NumEntities[d]
		}
	}
	l.globalDim = total
	return false
}

func (l *Lagrange) InitCell(m *MeshSnapshot, c *mesh.Cell) {}

func (l *Lagrange) InitCellFinalize() {}

func (l *Lagrange) GlobalDimension() int { return l.globalDim }

func (l *Lagrange) LocalDimension(c *mesh.Cell) int {
	dim := l.shape.Dim()
	n := 0
	for d, per := range l.perEntity {
		n += per * choose(dim+1, d+1)
	}
	return n
}

func (l *Lagrange) MaxLocalDimension() int { return l.LocalDimension(nil) }

func (l *Lagrange) GeometricDimension() int { return l.shape.Dim() }

func (l *Lagrange) TabulateDofs(dst []int, m *MeshSnapshot, c *mesh.Cell) {
	pos, base := 0, 0
	for d, n := range l.perEntity {
		if n == 0 {
			continue
		}
		for _, ent := range c.EntityIndices[d] {
			for k := 0; k < n; k++ {
				dst[pos] = base + ent*n + k
				pos++
			}
		}
		base += n * m.NumEntities[d]
	}
}

func (l *Lagrange) NumFacetDofs() int {
	return len(l.facetDofs(0))
}

func (l *Lagrange) TabulateFacetDofs(dst []int, localFacet int) {
	copy(dst, l.facetDofs(localFacet))
}

// facetDofs lists the cell-local dofs whose nodes lie on the given
// facet: those with zero barycentric weight on every vertex outside the
// facet.
func (l *Lagrange) facetDofs(localFacet int) []int {
	dim := l.shape.Dim()
	facets := mesh.SimplexSubEntities(dim, dim-1)
	if localFacet < 0 || localFacet >= len(facets) {
		return nil
	}
	onFacet := make([]bool, dim+1)
	for _, v := range facets[localFacet] {
		onFacet[v] = true
	}
	var dofs []int
	for i, w := range l.nodeWeights() {
		keep := true
		for v, wv := range w {
			if !onFacet[v] && wv != 0 {
				keep = false
				break
			}
		}
		if keep {
			dofs = append(dofs, i)
		}
	}
	return dofs
}

func (l *Lagrange) TabulateCoordinates(dst *mat.Dense, c *mesh.Cell) {
	_, gdim := c.Coordinates.Dims()
	for i, w := range l.nodeWeights() {
		for j := 0; j < gdim; j++ {
			x := 0.0
			for v, wv := range w {
				x += wv * c.Coordinates.At(v, j)
			}
			dst.Set(i, j, x)
		}
	}
}

// nodeWeights enumerates the barycentric weights of every local dof
// over the cell's vertices, in tabulation order.
func (l *Lagrange) nodeWeights() [][]float64 {
	if l.nodes != nil {
		return l.nodes
	}
	dim := l.shape.Dim()
	q := l.degree
	var nodes [][]float64
	if l.discontinuous {
		// Full nodal lattice over the cell; the centroid for degree 0.
		if q == 0 {
			w := make([]float64, dim+1)
			for v := range w {
				w[v] = 1.0 / float64(dim+1)
			}
			nodes = append(nodes, w)
		} else {
			for _, mi := range lattice(dim+1, q, 0) {
				w := make([]float64, dim+1)
				for v, iv := range mi {
					w[v] = float64(iv) / float64(q)
				}
				nodes = append(nodes, w)
			}
		}
	} else {
		for d, per := range l.perEntity {
			if per == 0 {
				continue
			}
			for _, sub := range mesh.SimplexSubEntities(dim, d) {
				for _, mi := range lattice(d+1, q, 1) {
					w := make([]float64, dim+1)
					for j, iv := range mi {
						w[sub[j]] = float64(iv) / float64(q)
					}
					nodes = append(nodes, w)
				}
			}
		}
	}
	l.nodes = nodes
	return nodes
}

// lattice enumerates, lexicographically, the compositions of total into
// parts entries each at least min.
func lattice(parts, total, min int) [][]int {
	var out [][]int
	cur := make([]int, parts)
	var rec func(i, rem int)
	rec = func(i, rem int) {
		if i == parts-1 {
			if rem >= min {
				cur[i] = rem
				out = append(out, append([]int(nil), cur...))
			}
			return
		}
		for v := min; v <= rem-min*(parts-1-i); v++ {
			cur[i] = v
			rec(i+1, rem-v)
		}
	}
	if parts > 0 {
		rec(0, total)
	}
	return out
}

func (l *Lagrange) NumSubMaps() int { return 0 }

func (l *Lagrange) SubMap(i int) (Descriptor, error) {
	return nil, fmt.Errorf("%s has no sub elements", l.Signature())
}

// Fresh returns an independent, uninitialized copy.
func (l *Lagrange) Fresh() Descriptor {
	per := append([]int(nil), l.perEntity...)
	return &Lagrange{shape: l.shape, degree: l.degree, discontinuous: l.discontinuous, perEntity: per}
}
