package mesh

import (
	"fmt"
	"sort"
)

// SimplexSubEntities lists the sub-entities of dimension entDim within
// a reference simplex of dimension cellDim, as tuples of local vertex
// indices. Tuples are emitted in lexicographic order of their sorted
// vertex indices, which fixes the local entity numbering used
// everywhere in this module (e.g. facet f of a tetrahedron is the
// vertex triple excluding vertex 3-f).
func SimplexSubEntities(cellDim, entDim int) [][]int {
	return combinations(cellDim+1, entDim+1)
}

// combinations enumerates the k-subsets of {0..n-1} lexicographically.
func combinations(n, k int) [][]int {
	if k < 0 || k > n {
		return nil
	}
	var out [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		out = append(out, append([]int(nil), idx...))
		// Advance to the next combination.
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}

// dimEntities holds the entity collection of one topological dimension.
type dimEntities struct {
	// verts[e] lists the sorted local vertex indices of entity e.
	verts [][]int

	// cellEnts[k] lists cell k's entities of this dimension, ordered by
	// the SimplexSubEntities convention.
	cellEnts [][]int

	// global[e] is the mesh-wide number of entity e, or -1 while a
	// shared entity awaits its number from the owning rank. nil until
	// NumberEntities has run; local indices double as global numbers in
	// the serial case.
	global []int

	// numGlobal is the mesh-wide entity count once numbered; otherwise
	// the local count stands in.
	numGlobal int

	numbered bool
}

// initEntities derives the entities of dimension d from the cells by
// matching canonical sorted-vertex keys, the same way shared faces are
// matched between neighboring elements. Idempotent: a second call for
// an already-derived dimension is a no-op.
func (m *Mesh) initEntities(d int) error {
	if d < 0 || d > m.dim {
		return fmt.Errorf("mesh has no entities of dimension %d (topology dimension %d)", d, m.dim)
	}
	e := &m.ents[d]
	if e.verts != nil {
		return nil
	}

	subs := SimplexSubEntities(m.dim, d)
	index := make(map[string]int)
	e.cellEnts = make([][]int, len(m.cells))
	for k, cell := range m.cells {
		ents := make([]int, len(subs))
		for s, sub := range subs {
			tuple := make([]int, len(sub))
			for i, li := range sub {
				tuple[i] = cell[li]
			}
			sort.Ints(tuple)
			key := vertexKey(tuple)
			id, ok := index[key]
			if !ok {
				id = len(e.verts)
				e.verts = append(e.verts, tuple)
				index[key] = id
			}
			ents[s] = id
		}
		e.cellEnts[k] = ents
	}
	return nil
}

// rebuildCellEntities recomputes the per-cell entity lists of an
// already-derived dimension against the current cell vertex tuples.
// Entity identities (their sorted vertex tuples) are stable under
// reordering, so only the cell-local positions change.
func (m *Mesh) rebuildCellEntities(d int) {
	e := &m.ents[d]
	index := make(map[string]int, len(e.verts))
	for i, verts := range e.verts {
		index[vertexKey(verts)] = i
	}
	subs := SimplexSubEntities(m.dim, d)
	for k, cell := range m.cells {
		ents := make([]int, len(subs))
		for s, sub := range subs {
			tuple := make([]int, len(sub))
			for i, li := range sub {
				tuple[i] = cell[li]
			}
			sort.Ints(tuple)
			ents[s] = index[vertexKey(tuple)]
		}
		e.cellEnts[k] = ents
	}
}

// vertexKey renders a sorted vertex tuple as a canonical map key.
func vertexKey(verts []int) string {
	key := ""
	for i, v := range verts {
		if i > 0 {
			key += "-"
		}
		key += fmt.Sprint(v)
	}
	return key
}
