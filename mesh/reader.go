package mesh

import (
	"fmt"

	"github.com/notargets/gocfd/DG3D/mesh/readers"
)

// FromFile loads a tetrahedral mesh from a mesh file (gambit .neu,
// gmsh, su2) and builds a serial Mesh from its vertex and connectivity
// data.
func FromFile(meshfile string) (*Mesh, error) {
	msh, err := readers.ReadMeshFile(meshfile)
	if err != nil {
		return nil, fmt.Errorf("reading mesh file %s: %w", meshfile, err)
	}
	if msh.NumElements == 0 {
		return nil, fmt.Errorf("mesh file %s has no elements", meshfile)
	}

	vertices := make([][]float64, len(msh.Vertices))
	for i, v := range msh.Vertices {
		vertices[i] = []float64{v[0], v[1], v[2]}
	}
	cells := make([][]int, len(msh.EtoV))
	for k, cell := range msh.EtoV {
		if len(cell) != 4 {
			return nil, fmt.Errorf("element %d has %d vertices; only tetrahedral meshes are supported", k, len(cell))
		}
		cells[k] = append([]int(nil), cell...)
	}
	return NewMesh(3, vertices, cells)
}
