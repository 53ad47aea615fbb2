package mesh

import (
	"reflect"
	"testing"
)

// Two triangles sharing the diagonal of the unit square.
func unitSquare(t *testing.T) *Mesh {
	t.Helper()
	m, err := NewMesh(2,
		[][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
		[][]int{{0, 1, 2}, {1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func unitTet(t *testing.T) *Mesh {
	t.Helper()
	m, err := NewMesh(3,
		[][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][]int{{0, 1, 2, 3}})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSimplexSubEntities(t *testing.T) {
	// Triangle edges, lexicographic.
	edges := SimplexSubEntities(2, 1)
	want := [][]int{{0, 1}, {0, 2}, {1, 2}}
	if !reflect.DeepEqual(edges, want) {
		t.Errorf("triangle edges = %v, want %v", edges, want)
	}

	// Tetrahedron facets.
	facets := SimplexSubEntities(3, 2)
	want = [][]int{{0, 1, 2}, {0, 1, 3}, {0, 2, 3}, {1, 2, 3}}
	if !reflect.DeepEqual(facets, want) {
		t.Errorf("tet facets = %v, want %v", facets, want)
	}

	if n := len(SimplexSubEntities(3, 1)); n != 6 {
		t.Errorf("tet has %d edges, want 6", n)
	}
}

func TestEntityDerivation(t *testing.T) {
	t.Run("Square", func(t *testing.T) {
		m := unitSquare(t)
		if err := m.Init(1); err != nil {
			t.Fatal(err)
		}
		if n := m.NumEntities(0); n != 4 {
			t.Errorf("NumEntities(0) = %d, want 4", n)
		}
		if n := m.NumEntities(1); n != 5 {
			t.Errorf("NumEntities(1) = %d, want 5", n)
		}
		if n := m.NumEntities(2); n != 2 {
			t.Errorf("NumEntities(2) = %d, want 2", n)
		}
	})

	t.Run("Tet", func(t *testing.T) {
		m := unitTet(t)
		for d := 1; d <= 2; d++ {
			if err := m.Init(d); err != nil {
				t.Fatal(err)
			}
		}
		if n := m.NumEntities(1); n != 6 {
			t.Errorf("NumEntities(1) = %d, want 6", n)
		}
		if n := m.NumEntities(2); n != 4 {
			t.Errorf("NumEntities(2) = %d, want 4", n)
		}
	})

	t.Run("SharedEdgeMatchedOnce", func(t *testing.T) {
		m := unitSquare(t)
		if err := m.Init(1); err != nil {
			t.Fatal(err)
		}
		c0 := m.CellView(0)
		c1 := m.CellView(1)
		// Edge (1,2) is shared; both cells must reference the same
		// entity index.
		if c0.EntityIndices[1][2] != c1.EntityIndices[1][0] {
			t.Errorf("shared edge has indices %d and %d",
				c0.EntityIndices[1][2], c1.EntityIndices[1][0])
		}
	})
}

func TestInitIdempotent(t *testing.T) {
	m := unitSquare(t)
	if err := m.Init(1); err != nil {
		t.Fatal(err)
	}
	before := m.CellView(0).EntityIndices[1]
	if err := m.Init(1); err != nil {
		t.Fatal(err)
	}
	if n := m.NumEntities(1); n != 5 {
		t.Errorf("NumEntities(1) after second Init = %d, want 5", n)
	}
	after := m.CellView(0).EntityIndices[1]
	if !reflect.DeepEqual(before, after) {
		t.Errorf("entity indices changed across re-init: %v vs %v", before, after)
	}
}

func TestDimensionOutOfRange(t *testing.T) {
	m := unitSquare(t)
	if err := m.Init(3); err == nil {
		t.Error("expected error for dimension beyond topology")
	}
}
