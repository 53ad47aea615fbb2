package mesh

import (
	"os"
	"testing"
)

func TestFromFile(t *testing.T) {
	meshFile := "testdata/two_tets.neu"
	if _, err := os.Stat(meshFile); os.IsNotExist(err) {
		t.Skipf("mesh file %s not found", meshFile)
	}

	m, err := FromFile(meshFile)
	if err != nil {
		t.Fatal(err)
	}
	if m.TopologyDim() != 3 {
		t.Errorf("TopologyDim = %d, want 3", m.TopologyDim())
	}
	if m.NumCells() != 2 {
		t.Errorf("NumCells = %d, want 2", m.NumCells())
	}
	if m.NumVertices() != 8 {
		t.Errorf("NumVertices = %d, want 8", m.NumVertices())
	}
	// Both tets list their vertices ascending, so the mesh loads
	// ordered.
	if !m.Ordered() {
		t.Error("mesh loaded from file should be ordered")
	}
	c := m.CellView(0)
	if x := c.Coordinates.At(1, 0); x != 1 {
		t.Errorf("cell 0 vertex 1 x = %v, want 1", x)
	}
}

func TestFromFileMissing(t *testing.T) {
	if _, err := FromFile("testdata/no_such_mesh.neu"); err == nil {
		t.Error("expected error for missing mesh file")
	}
}
