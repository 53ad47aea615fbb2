package mesh

import "gonum.org/v1/gonum/mat"

// Cell is a per-cell snapshot handed to element tabulation: the cell's
// entity indices per topological dimension, in the numbering current at
// snapshot time, plus its vertex coordinate block. A Cell is a value
// view; it does not track later changes to the mesh.
type Cell struct {
	// Index is the local cell index.
	Index int

	// EntityIndices[d] lists the cell's entities of dimension d in the
	// SimplexSubEntities order. Dimensions not yet initialized on the
	// mesh are nil. Indices are global once NumberEntities has run for
	// the dimension, local before that.
	EntityIndices [][]int

	// Coordinates holds one vertex per row, in cell vertex order.
	Coordinates *mat.Dense
}

// CellView builds the snapshot of cell k.
func (m *Mesh) CellView(k int) *Cell {
	c := &Cell{
		Index:         k,
		EntityIndices: make([][]int, m.dim+1),
	}
	for d := 0; d <= m.dim; d++ {
		e := &m.ents[d]
		if e.cellEnts == nil {
			continue
		}
		local := e.cellEnts[k]
		idx := make([]int, len(local))
		for i, li := range local {
			if e.global != nil {
				idx[i] = e.global[li]
			} else {
				idx[i] = li
			}
		}
		c.EntityIndices[d] = idx
	}
	if m.gdim > 0 {
		cell := m.cells[k]
		coords := mat.NewDense(len(cell), m.gdim, nil)
		for i, v := range cell {
			coords.SetRow(i, m.coords[v])
		}
		c.Coordinates = coords
	}
	return c
}
