package la

import (
	"fmt"
	"sort"

	"github.com/ysimillides/dolfin/dofmap"
	"github.com/ysimillides/dolfin/mesh"
)

// Pattern is a matrix sparsity pattern: per row, the set of coupled
// columns. It is the shape an assembly loop fills in from a dof map's
// cell tabulations.
type Pattern struct {
	rows []map[int]struct{}
}

// NewPattern creates an empty n-by-n pattern.
func NewPattern(n int) *Pattern {
	rows := make([]map[int]struct{}, n)
	for i := range rows {
		rows[i] = make(map[int]struct{})
	}
	return &Pattern{rows: rows}
}

// Dim returns the pattern's dimension.
func (p *Pattern) Dim() int { return len(p.rows) }

// InsertCellDofs couples every row dof with every column dof, the dense
// cell-local coupling an element contributes.
func (p *Pattern) InsertCellDofs(rowDofs, colDofs []int) {
	for _, r := range rowDofs {
		for _, c := range colDofs {
			p.rows[r][c] = struct{}{}
		}
	}
}

// NNZ returns the number of nonzero positions.
func (p *Pattern) NNZ() int {
	n := 0
	for _, row := range p.rows {
		n += len(row)
	}
	return n
}

// RowColumns returns the coupled columns of row i, ascending.
func (p *Pattern) RowColumns(i int) []int {
	cols := make([]int, 0, len(p.rows[i]))
	for c := range p.rows[i] {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

// BuildPattern derives the square sparsity pattern of a bilinear form
// over the given dof map: every cell couples its dofs densely.
func BuildPattern(dm *dofmap.DofMap, m *mesh.Mesh) (*Pattern, error) {
	n := dm.GlobalDimension()
	if dm.Offset() != 0 {
		return nil, fmt.Errorf("pattern requires a top-level dof map, got offset %d", dm.Offset())
	}
	p := NewPattern(n)
	for k := 0; k < m.NumCells(); k++ {
		dofs := dm.TabulateCellDofs(m, k)
		p.InsertCellDofs(dofs, dofs)
	}
	return p, nil
}
