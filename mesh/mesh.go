package mesh

import (
	"fmt"
	"sort"

	"github.com/ysimillides/dolfin/partitions"
)

// Mesh is a simplicial mesh with per-dimension entity collections.
// Vertices and cells are fixed at construction; intermediate entities
// (edges, facets) are derived on demand by Init. In the distributed
// case the mesh holds one rank's partition plus the metadata needed to
// number entities consistently across the group.
type Mesh struct {
	dim    int
	gdim   int
	coords [][]float64
	cells  [][]int

	// ents[d] is the entity collection of dimension d.
	ents []dimEntities

	ordered bool

	dist *partitions.Dist
	comm partitions.Comm
}

// NewMesh builds a serial mesh of the given topological dimension from
// vertex coordinates and cell vertex tuples. Every cell must list
// dim+1 vertices. Vertex and cell entities exist immediately;
// dimensions in between are derived by Init.
func NewMesh(dim int, vertices [][]float64, cells [][]int) (*Mesh, error) {
	return NewDistributedMesh(dim, vertices, cells, nil, partitions.SerialComm{})
}

// NewDistributedMesh builds one rank's partition of a mesh. dist
// carries the global vertex numbering and sharing metadata; comm is the
// process group used by collective entity numbering. A nil dist with a
// single-rank comm reduces to the serial case.
func NewDistributedMesh(dim int, vertices [][]float64, cells [][]int,
	dist *partitions.Dist, comm partitions.Comm) (*Mesh, error) {
	if dim < 1 {
		return nil, fmt.Errorf("topological dimension must be positive, got %d", dim)
	}
	gdim := 0
	if len(vertices) > 0 {
		gdim = len(vertices[0])
	}
	if gdim < dim && len(vertices) > 0 {
		return nil, fmt.Errorf("geometric dimension %d below topological dimension %d", gdim, dim)
	}
	for k, cell := range cells {
		if len(cell) != dim+1 {
			return nil, fmt.Errorf("cell %d has %d vertices, want %d", k, len(cell), dim+1)
		}
		for _, v := range cell {
			if v < 0 || v >= len(vertices) {
				return nil, fmt.Errorf("cell %d references vertex %d of %d", k, v, len(vertices))
			}
		}
	}
	if dist != nil && dist.NumLocalVertices() != len(vertices) {
		return nil, fmt.Errorf("distribution covers %d vertices, mesh has %d",
			dist.NumLocalVertices(), len(vertices))
	}
	if comm == nil {
		comm = partitions.SerialComm{}
	}

	m := &Mesh{
		dim:    dim,
		gdim:   gdim,
		coords: vertices,
		cells:  cells,
		ents:   make([]dimEntities, dim+1),
		dist:   dist,
		comm:   comm,
	}

	// Vertices and cells are always present.
	e0 := &m.ents[0]
	e0.verts = make([][]int, len(vertices))
	e0.cellEnts = make([][]int, len(cells))
	for v := range vertices {
		e0.verts[v] = []int{v}
	}
	for k, cell := range cells {
		e0.cellEnts[k] = cell
	}
	if dist != nil {
		// Global vertex numbering is handed in by the partitioner.
		e0.global = make([]int, len(vertices))
		for v := range vertices {
			e0.global[v] = dist.GlobalVertex(v)
		}
		e0.numGlobal = dist.NumGlobalVertices()
		e0.numbered = true
	} else {
		e0.numGlobal = len(vertices)
	}

	eD := &m.ents[dim]
	eD.verts = make([][]int, len(cells))
	eD.cellEnts = make([][]int, len(cells))
	for k, cell := range cells {
		sorted := append([]int(nil), cell...)
		sort.Ints(sorted)
		eD.verts[k] = sorted
		eD.cellEnts[k] = []int{k}
	}
	eD.numGlobal = len(cells)

	m.ordered = m.checkOrdered()
	return m, nil
}

// TopologyDim returns the topological dimension.
func (m *Mesh) TopologyDim() int { return m.dim }

// GeometricDim returns the dimension of the coordinate space.
func (m *Mesh) GeometricDim() int { return m.gdim }

// NumCells returns the number of cells on this rank.
func (m *Mesh) NumCells() int { return len(m.cells) }

// NumVertices returns the number of vertices on this rank.
func (m *Mesh) NumVertices() int { return len(m.coords) }

// NumEntities returns the local entity count of dimension d, or 0 when
// that dimension has not been initialized.
func (m *Mesh) NumEntities(d int) int {
	if d < 0 || d > m.dim {
		return 0
	}
	return len(m.ents[d].verts)
}

// GlobalNumEntities returns the mesh-wide entity count of dimension d.
// Before NumberEntities has run for d the local count stands in, which
// is exact in the serial case.
func (m *Mesh) GlobalNumEntities(d int) int {
	if d < 0 || d > m.dim {
		return 0
	}
	e := &m.ents[d]
	if e.numbered {
		return e.numGlobal
	}
	return len(e.verts)
}

// Parallel reports whether this mesh cooperates with peer ranks.
func (m *Mesh) Parallel() bool { return m.comm.Size() > 1 }

// Comm returns the process group this mesh belongs to.
func (m *Mesh) Comm() partitions.Comm { return m.comm }

// Ordered reports whether every cell lists its vertices in ascending
// global order, the numbering convention element tabulation relies on.
func (m *Mesh) Ordered() bool { return m.ordered }

// Order canonicalizes the mesh by sorting each cell's vertex tuple by
// global vertex number. Derived entity collections keep their identity
// (their vertex tuples are already canonical), but the per-cell entity
// lists of already-derived dimensions are rebuilt so local entity
// positions follow the SimplexSubEntities convention of the sorted
// tuples.
func (m *Mesh) Order() {
	if m.ordered {
		return
	}
	for k := range m.cells {
		cell := m.cells[k]
		sort.Slice(cell, func(i, j int) bool {
			return m.globalVertex(cell[i]) < m.globalVertex(cell[j])
		})
		m.ents[0].cellEnts[k] = cell
	}
	for d := 1; d < m.dim; d++ {
		if m.ents[d].verts != nil {
			m.rebuildCellEntities(d)
		}
	}
	m.ordered = true
}

func (m *Mesh) checkOrdered() bool {
	for _, cell := range m.cells {
		for i := 1; i < len(cell); i++ {
			if m.globalVertex(cell[i-1]) > m.globalVertex(cell[i]) {
				return false
			}
		}
	}
	return true
}

func (m *Mesh) globalVertex(v int) int {
	if m.dist != nil {
		return m.dist.GlobalVertex(v)
	}
	return v
}

// Init creates the entities of dimension d if absent. Idempotent: once
// a dimension exists a second call does nothing.
func (m *Mesh) Init(d int) error {
	return m.initEntities(d)
}

// NumberEntities assigns globally consistent numbers to the entities of
// dimension d across all ranks of the mesh's process group. The call is
// collective: every rank must request the same dimensions in the same
// order. Ownership of a shared entity goes to the lowest rank holding
// it; owners number their entities inside a rank-offset block and push
// the numbers to the other sharers. Idempotent per dimension.
//
// The per-vertex sharing metadata must be conforming: an entity whose
// vertices are all shared with rank r is assumed to exist on rank r.
// A violation surfaces as an explicit numbering error, not silent
// misnumbering.
func (m *Mesh) NumberEntities(d int) error {
	if err := m.Init(d); err != nil {
		return err
	}
	e := &m.ents[d]
	if e.numbered {
		return nil
	}
	if !m.Parallel() || m.dist == nil {
		e.global = make([]int, len(e.verts))
		for i := range e.global {
			e.global[i] = i
		}
		e.numGlobal = len(e.verts)
		e.numbered = true
		return nil
	}

	rank := m.comm.Rank()
	size := m.comm.Size()

	// Decide ownership per entity from the candidate sharer sets.
	owner := make([]int, len(e.verts))
	sharers := make([][]int, len(e.verts))
	numOwned := 0
	for i, verts := range e.verts {
		sh := m.dist.Sharers(verts)
		sharers[i] = sh
		o := rank
		for _, r := range sh {
			if r < o {
				o = r
			}
		}
		owner[i] = o
		if o == rank {
			numOwned++
		}
	}

	// Exclusive scan of owned counts gives each rank its number block.
	counts := m.comm.AllGather(numOwned)
	offset, total := 0, 0
	for r, c := range counts {
		if r < rank {
			offset += c
		}
		total += c
	}

	e.global = make([]int, len(e.verts))
	next := offset
	for i := range e.verts {
		if owner[i] == rank {
			e.global[i] = next
			next++
		} else {
			e.global[i] = -1
		}
	}

	// Owners push (global vertex key, number) records to every other
	// sharer; receivers match records against their own entities.
	stride := d + 2
	send := make([][]int, size)
	for i, verts := range e.verts {
		if owner[i] != rank || len(sharers[i]) == 0 {
			continue
		}
		rec := make([]int, 0, stride)
		rec = append(rec, m.entityGlobalKey(verts)...)
		rec = append(rec, e.global[i])
		for _, r := range sharers[i] {
			send[r] = append(send[r], rec...)
		}
	}
	recv := m.comm.AllToAll(send)

	lookup := make(map[string]int, len(e.verts))
	for i, verts := range e.verts {
		if e.global[i] < 0 {
			lookup[vertexKey(m.entityGlobalKey(verts))] = i
		}
	}
	for r, buf := range recv {
		if r == rank {
			continue
		}
		for pos := 0; pos+stride <= len(buf); pos += stride {
			if i, ok := lookup[vertexKey(buf[pos:pos+stride-1])]; ok {
				e.global[i] = buf[pos+stride-1]
			}
		}
	}

	for i, g := range e.global {
		if g < 0 {
			return fmt.Errorf("entity numbering for dimension %d: rank %d received no number for shared entity %v from rank %d",
				d, rank, m.entityGlobalKey(e.verts[i]), owner[i])
		}
	}

	e.numGlobal = total
	e.numbered = true
	return nil
}

// entityGlobalKey returns the sorted global vertex numbers of an
// entity, the identity used to match shared entities across ranks.
func (m *Mesh) entityGlobalKey(verts []int) []int {
	key := make([]int, len(verts))
	for i, v := range verts {
		key[i] = m.globalVertex(v)
	}
	sort.Ints(key)
	return key
}
