package partitions

import (
	"fmt"
	"sort"
)

// Dist describes one rank's slice of a partitioned mesh: the global
// identity of its local vertices and which other ranks also hold each
// of them. Entity ownership during global numbering is derived from
// this per-vertex sharing information, so it must be symmetric across
// ranks (if rank a lists rank b as a sharer of vertex v, rank b lists
// rank a for the same global vertex).
type Dist struct {
	// globalVertex maps local vertex index to global vertex number.
	globalVertex []int

	// sharers[v] lists the other ranks holding local vertex v, sorted
	// ascending.
	sharers [][]int

	// numGlobalVertices is the vertex count across the whole mesh.
	numGlobalVertices int
}

// NewDist builds distribution metadata for one rank. globalVertex maps
// local to global vertex numbers; sharers lists, per local vertex, the
// other ranks holding it.
func NewDist(globalVertex []int, sharers [][]int, numGlobalVertices int) *Dist {
	d := &Dist{
		globalVertex:      globalVertex,
		sharers:           make([][]int, len(sharers)),
		numGlobalVertices: numGlobalVertices,
	}
	for v, s := range sharers {
		d.sharers[v] = append([]int(nil), s...)
		sort.Ints(d.sharers[v])
	}
	return d
}

// NumLocalVertices returns the number of vertices on this rank.
func (d *Dist) NumLocalVertices() int { return len(d.globalVertex) }

// NumGlobalVertices returns the mesh-wide vertex count.
func (d *Dist) NumGlobalVertices() int { return d.numGlobalVertices }

// GlobalVertex returns the global number of local vertex v.
func (d *Dist) GlobalVertex(v int) int { return d.globalVertex[v] }

// Sharers returns the ranks (excluding this one) that hold every vertex
// in verts, i.e. the candidate sharers of the entity those vertices
// span. verts holds local vertex indices.
func (d *Dist) Sharers(verts []int) []int {
	if len(verts) == 0 {
		return nil
	}
	common := append([]int(nil), d.sharers[verts[0]]...)
	for _, v := range verts[1:] {
		common = intersectSorted(common, d.sharers[v])
		if len(common) == 0 {
			return nil
		}
	}
	return common
}

func intersectSorted(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// Piece is one rank's share of a split mesh: vertex coordinates and
// cells in local numbering, plus the distribution metadata linking them
// back to the global mesh.
type Piece struct {
	Vertices [][]float64
	Cells    [][]int
	Dist     *Dist

	// LocalToGlobalCell maps local cell index to global cell index.
	LocalToGlobalCell []int
}

// Split decomposes a mesh into per-rank pieces according to an
// element-to-partition assignment. eToP[k] names the partition owning
// global cell k; partitions are numbered 0..max(eToP). Vertices used by
// cells of more than one partition are replicated on every user and
// recorded as shared.
//
// How the cells are assigned to partitions is up to the caller (block,
// round-robin, graph partitioner); Split only materializes the
// decomposition.
func Split(vertices [][]float64, cells [][]int, eToP []int) ([]Piece, error) {
	if len(eToP) != len(cells) {
		return nil, fmt.Errorf("eToP length %d does not match cell count %d", len(eToP), len(cells))
	}
	numParts := 0
	for k, p := range eToP {
		if p < 0 {
			return nil, fmt.Errorf("cell %d assigned to negative partition %d", k, p)
		}
		if p+1 > numParts {
			numParts = p + 1
		}
	}
	if numParts == 0 {
		return nil, fmt.Errorf("empty partition assignment")
	}

	// Which partitions use each global vertex.
	vertexUsers := make([][]int, len(vertices))
	for k, cell := range cells {
		p := eToP[k]
		for _, v := range cell {
			users := vertexUsers[v]
			if len(users) == 0 || users[len(users)-1] != p {
				vertexUsers[v] = append(users, p)
			}
		}
	}
	for v := range vertexUsers {
		sort.Ints(vertexUsers[v])
		vertexUsers[v] = dedupSorted(vertexUsers[v])
	}

	pieces := make([]Piece, numParts)
	globalToLocal := make([]map[int]int, numParts)
	for p := range globalToLocal {
		globalToLocal[p] = make(map[int]int)
	}

	for k, cell := range cells {
		p := eToP[k]
		local := make([]int, len(cell))
		for i, v := range cell {
			lv, ok := globalToLocal[p][v]
			if !ok {
				lv = len(pieces[p].Vertices)
				globalToLocal[p][v] = lv
				pieces[p].Vertices = append(pieces[p].Vertices, vertices[v])
			}
			local[i] = lv
		}
		pieces[p].Cells = append(pieces[p].Cells, local)
		pieces[p].LocalToGlobalCell = append(pieces[p].LocalToGlobalCell, k)
	}

	for p := range pieces {
		nv := len(pieces[p].Vertices)
		localToGlobal := make([]int, nv)
		sharers := make([][]int, nv)
		for gv, lv := range globalToLocal[p] {
			localToGlobal[lv] = gv
			for _, q := range vertexUsers[gv] {
				if q != p {
					sharers[lv] = append(sharers[lv], q)
				}
			}
		}
		pieces[p].Dist = NewDist(localToGlobal, sharers, len(vertices))
	}
	return pieces, nil
}

func dedupSorted(a []int) []int {
	out := a[:0]
	for i, v := range a {
		if i == 0 || v != a[i-1] {
			out = append(out, v)
		}
	}
	return out
}
