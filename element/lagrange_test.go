package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ysimillides/dolfin/mesh"
)

func squareMesh(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.NewMesh(2,
		[][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		[][]int{{0, 1, 2}, {1, 2, 3}})
	require.NoError(t, err)
	require.NoError(t, m.Init(1))
	return m
}

func squareSnapshot() *MeshSnapshot {
	// 4 vertices, 5 edges, 2 cells.
	return &MeshSnapshot{NumEntities: []int{4, 5, 2}, GeometricDimension: 2}
}

func TestLagrangeDimensions(t *testing.T) {
	cases := []struct {
		shape   Shape
		degree  int
		local   int
		global  int
		perFace int
	}{
		{Triangle, 1, 3, 4, 2},
		{Triangle, 2, 6, 9, 3},
		{Triangle, 3, 10, 16, 4},
	}
	for _, tc := range cases {
		el, err := NewLagrange(tc.shape, tc.degree)
		require.NoError(t, err)
		needCells := el.InitMesh(squareSnapshot())
		assert.False(t, needCells)
		assert.Equal(t, tc.local, el.LocalDimension(nil), "P%d local", tc.degree)
		assert.Equal(t, tc.global, el.GlobalDimension(), "P%d global", tc.degree)
		assert.Equal(t, tc.perFace, el.NumFacetDofs(), "P%d facet", tc.degree)
	}
}

func TestLagrangeDegreeValidation(t *testing.T) {
	_, err := NewLagrange(Triangle, 0)
	assert.Error(t, err)
	_, err = NewDiscontinuousLagrange(Triangle, -1)
	assert.Error(t, err)
	_, err = NewDiscontinuousLagrange(Triangle, 0)
	assert.NoError(t, err)
}

func TestLagrangeTabulate(t *testing.T) {
	m := squareMesh(t)
	snap := squareSnapshot()

	t.Run("P1", func(t *testing.T) {
		el, err := NewLagrange(Triangle, 1)
		require.NoError(t, err)
		el.InitMesh(snap)

		dofs := make([]int, 3)
		el.TabulateDofs(dofs, snap, m.CellView(0))
		assert.Equal(t, []int{0, 1, 2}, dofs)
		el.TabulateDofs(dofs, snap, m.CellView(1))
		assert.Equal(t, []int{1, 2, 3}, dofs)
	})

	t.Run("P2", func(t *testing.T) {
		el, err := NewLagrange(Triangle, 2)
		require.NoError(t, err)
		el.InitMesh(snap)

		// Vertex dofs first, then edge dofs offset by the vertex count.
		dofs := make([]int, 6)
		el.TabulateDofs(dofs, snap, m.CellView(0))
		assert.Equal(t, []int{0, 1, 2, 4, 5, 6}, dofs)
		el.TabulateDofs(dofs, snap, m.CellView(1))
		assert.Equal(t, []int{1, 2, 3, 6, 7, 8}, dofs)
	})

	t.Run("DG1", func(t *testing.T) {
		el, err := NewDiscontinuousLagrange(Triangle, 1)
		require.NoError(t, err)
		el.InitMesh(snap)
		assert.Equal(t, 6, el.GlobalDimension())

		dofs := make([]int, 3)
		el.TabulateDofs(dofs, snap, m.CellView(0))
		assert.Equal(t, []int{0, 1, 2}, dofs)
		el.TabulateDofs(dofs, snap, m.CellView(1))
		assert.Equal(t, []int{3, 4, 5}, dofs)
	})
}

func TestLagrangeFacetDofs(t *testing.T) {
	el, err := NewLagrange(Triangle, 2)
	require.NoError(t, err)

	// Facet f spans the vertex pair SimplexSubEntities(2,1)[f]; the
	// edge dof sits at local position 3+f.
	want := [][]int{{0, 1, 3}, {0, 2, 4}, {1, 2, 5}}
	for f, w := range want {
		dofs := make([]int, el.NumFacetDofs())
		el.TabulateFacetDofs(dofs, f)
		assert.Equal(t, w, dofs, "facet %d", f)
	}
}

func TestLagrangeCoordinates(t *testing.T) {
	m := squareMesh(t)
	snap := squareSnapshot()

	el, err := NewLagrange(Triangle, 2)
	require.NoError(t, err)
	el.InitMesh(snap)

	coords := mat.NewDense(6, 2, nil)
	el.TabulateCoordinates(coords, m.CellView(0))

	// Vertices of cell 0, then edge midpoints in edge order.
	want := [][]float64{
		{0, 0}, {1, 0}, {0, 1},
		{0.5, 0}, {0, 0.5}, {0.5, 0.5},
	}
	for i, w := range want {
		assert.InDelta(t, w[0], coords.At(i, 0), 1e-14, "row %d x", i)
		assert.InDelta(t, w[1], coords.At(i, 1), 1e-14, "row %d y", i)
	}
}

func TestLagrangeTetrahedron(t *testing.T) {
	// 4 vertices, 6 edges, 4 facets, 1 cell.
	snap := &MeshSnapshot{NumEntities: []int{4, 6, 4, 1}, GeometricDimension: 3}

	p1, err := NewLagrange(Tetrahedron, 1)
	require.NoError(t, err)
	p1.InitMesh(snap)
	assert.Equal(t, 4, p1.LocalDimension(nil))
	assert.Equal(t, 4, p1.GlobalDimension())
	assert.Equal(t, 3, p1.NumFacetDofs())

	p2, err := NewLagrange(Tetrahedron, 2)
	require.NoError(t, err)
	p2.InitMesh(snap)
	assert.Equal(t, 10, p2.LocalDimension(nil))
	assert.Equal(t, 10, p2.GlobalDimension())
	assert.Equal(t, 6, p2.NumFacetDofs())
}

func TestLagrangeNeedsMeshEntities(t *testing.T) {
	p1, _ := NewLagrange(Triangle, 1)
	assert.True(t, p1.NeedsMeshEntities(0))
	assert.False(t, p1.NeedsMeshEntities(1))
	assert.False(t, p1.NeedsMeshEntities(2))

	p2, _ := NewLagrange(Triangle, 2)
	assert.True(t, p2.NeedsMeshEntities(0))
	assert.True(t, p2.NeedsMeshEntities(1))
	assert.False(t, p2.NeedsMeshEntities(2))

	dg, _ := NewDiscontinuousLagrange(Triangle, 1)
	assert.False(t, dg.NeedsMeshEntities(0))
	assert.True(t, dg.NeedsMeshEntities(2))
}

func TestLagrangeFresh(t *testing.T) {
	el, err := NewLagrange(Triangle, 1)
	require.NoError(t, err)
	el.InitMesh(squareSnapshot())

	copyEl := el.Fresh()
	assert.Equal(t, 0, copyEl.GlobalDimension(), "fresh copy must be uninitialized")
	assert.Equal(t, el.Signature(), copyEl.Signature())
}
