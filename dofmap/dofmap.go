// Package dofmap assigns global numbers to the local basis-function
// coefficients a finite-element discretization associates with each
// mesh cell, and keeps the numbering consistent across nested
// sub-spaces and across distributed mesh partitions.
package dofmap

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/ysimillides/dolfin/element"
	"github.com/ysimillides/dolfin/mesh"
)

// DofMap adapts an element descriptor to a mesh: it drives entity
// creation and numbering, holds the flattened mesh snapshot tabulation
// needs, and shifts sub-space dofs into their slice of a parent's
// numbering via an offset. A DofMap owns its descriptor; sub-maps hold
// independent descriptor instances obtained from the element's factory.
type DofMap struct {
	desc     element.Descriptor
	snapshot element.MeshSnapshot

	// offset shifts tabulated dofs when this map represents a
	// sub-space: it equals the sum of global dimensions of all sibling
	// sub-maps preceding this one, 0 for a top-level map.
	offset int

	// parallel is fixed at construction: true iff the mesh cooperates
	// with peer ranks.
	parallel bool
}

// New creates a dof map for the element over the mesh. The mesh must be
// ordered. Construction creates (and, in parallel mode, globally
// numbers) every entity dimension the element needs, ascending; in
// parallel mode facets are created regardless of the element's own
// requirements, since shared-facet ownership must be resolved before
// any dof can be numbered consistently. On a distributed mesh the call
// is collective across the mesh's process group.
func New(desc element.Descriptor, m *mesh.Mesh) (*DofMap, error) {
	if !m.Ordered() {
		return nil, ErrUnorderedMesh
	}
	dm := &DofMap{desc: desc, parallel: m.Parallel()}

	D := m.TopologyDim()
	for d := 1; d <= D; d++ {
		if desc.NeedsMeshEntities(d) || (dm.parallel && d == D-1) {
			if err := m.Init(d); err != nil {
				return nil, err
			}
			if dm.parallel {
				if err := m.NumberEntities(d); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := dm.init(m); err != nil {
		return nil, err
	}
	return dm, nil
}

// newFromInitialized builds a dof map against a mesh whose entities
// have already been created and numbered (by a previous New against the
// same mesh). Used for sub-maps and collapse targets.
func newFromInitialized(desc element.Descriptor, m *mesh.Mesh) (*DofMap, error) {
	dm := &DofMap{desc: desc, parallel: m.Parallel()}
	if err := dm.init(m); err != nil {
		return nil, err
	}
	return dm, nil
}

// init builds the mesh snapshot and runs the element initialization
// protocol: the missing-entity check, InitMesh, and the per-cell pass
// when the element asks for one.
func (dm *DofMap) init(m *mesh.Mesh) error {
	if !m.Ordered() {
		return ErrUnorderedMesh
	}
	dm.snapshot = buildSnapshot(m)
	return initDescriptor(dm.desc, &dm.snapshot, m)
}

// buildSnapshot flattens the mesh into the element-agnostic summary
// descriptors consume. Rebuilt, never mutated, on reinitialization.
func buildSnapshot(m *mesh.Mesh) element.MeshSnapshot {
	counts := make([]int, m.TopologyDim()+1)
	for d := range counts {
		counts[d] = m.GlobalNumEntities(d)
	}
	return element.MeshSnapshot{
		NumEntities:        counts,
		GeometricDimension: m.GeometricDim(),
	}
}

// initDescriptor runs the element initialization protocol against an
// already-entitized mesh. Pure preparation: it produces no externally
// observable numbering.
func initDescriptor(desc element.Descriptor, snap *element.MeshSnapshot, m *mesh.Mesh) error {
	for d := 0; d <= m.TopologyDim(); d++ {
		if desc.NeedsMeshEntities(d) && m.NumEntities(d) == 0 {
			return &MissingEntitiesError{Dim: d}
		}
	}
	if desc.InitMesh(snap) {
		for k := 0; k < m.NumCells(); k++ {
			desc.InitCell(snap, m.CellView(k))
		}
		desc.InitCellFinalize()
	}
	return nil
}

// GlobalDimension returns the dimension of the global dof space.
func (dm *DofMap) GlobalDimension() int { return dm.desc.GlobalDimension() }

// LocalDimension returns the number of dofs on the given cell.
func (dm *DofMap) LocalDimension(c *mesh.Cell) int { return dm.desc.LocalDimension(c) }

// MaxLocalDimension bounds LocalDimension over all cells.
func (dm *DofMap) MaxLocalDimension() int { return dm.desc.MaxLocalDimension() }

// GeometricDimension returns the coordinate-space dimension.
func (dm *DofMap) GeometricDimension() int { return dm.desc.GeometricDimension() }

// NumFacetDofs returns the number of dofs on one cell facet.
func (dm *DofMap) NumFacetDofs() int { return dm.desc.NumFacetDofs() }

// Signature returns the element's identity string.
func (dm *DofMap) Signature() string { return dm.desc.Signature() }

// Offset returns the shift applied to tabulated dofs: the sum of global
// dimensions of the sibling sub-maps preceding this one, 0 for a
// top-level map.
func (dm *DofMap) Offset() int { return dm.offset }

// TabulateDofs returns the global dof indices of the cell's local basis
// functions, shifted by the map's offset when it represents a
// sub-space.
func (dm *DofMap) TabulateDofs(c *mesh.Cell) []int {
	dofs := make([]int, dm.desc.LocalDimension(c))
	dm.desc.TabulateDofs(dofs, &dm.snapshot, c)
	if dm.offset > 0 {
		for i := range dofs {
			dofs[i] += dm.offset
		}
	}
	return dofs
}

// TabulateCellDofs is a convenience that builds the cell view
// internally.
func (dm *DofMap) TabulateCellDofs(m *mesh.Mesh, k int) []int {
	return dm.TabulateDofs(m.CellView(k))
}

// TabulateFacetDofs returns the cell-local dof indices on the given
// local facet. The facet map is defined relative to the containing
// element, so no offset applies.
func (dm *DofMap) TabulateFacetDofs(localFacet int) []int {
	dofs := make([]int, dm.desc.NumFacetDofs())
	dm.desc.TabulateFacetDofs(dofs, localFacet)
	return dofs
}

// TabulateCoordinates returns the physical coordinates of the cell's
// dofs, one row per local dof.
func (dm *DofMap) TabulateCoordinates(c *mesh.Cell) *mat.Dense {
	coords := mat.NewDense(dm.desc.LocalDimension(c), dm.snapshot.GeometricDimension, nil)
	dm.desc.TabulateCoordinates(coords, c)
	return coords
}

// ExtractSubDofMap extracts the sub-space dof map selected by the
// component path (e.g. [1, 0] selects sub-system 0 of sub-system 1),
// recursively. The returned map's global dimension is the selected
// sub-element's own; its tabulated dofs are shifted by the accumulated
// offset into the disjoint slice of this map's numbering reserved for
// that sub-system (retrieve it with Offset). Sibling sub-maps are
// instantiated, measured and discarded along the way, so their global
// dimensions can accumulate into the offset. The accumulation starts
// from this map's own offset, so extracting step by step from an
// already-extracted sub-map composes with extracting the full
// component path from the root map in one call.
func (dm *DofMap) ExtractSubDofMap(component []int, m *mesh.Mesh) (*DofMap, error) {
	subDesc, offset, err := extractSubDescriptor(dm.desc, dm.offset, component, &dm.snapshot, m)
	if err != nil {
		return nil, err
	}
	sub, err := newFromInitialized(subDesc, m)
	if err != nil {
		return nil, err
	}
	sub.offset = offset
	return sub, nil
}

func extractSubDescriptor(desc element.Descriptor, offset int, component []int,
	snap *element.MeshSnapshot, m *mesh.Mesh) (element.Descriptor, int, error) {
	if desc.NumSubMaps() == 0 {
		return nil, 0, ErrNoSubsystems
	}
	if len(component) == 0 {
		return nil, 0, ErrEmptyPath
	}
	if component[0] < 0 || component[0] >= desc.NumSubMaps() {
		return nil, 0, &IndexOutOfRangeError{Index: component[0], Bound: desc.NumSubMaps()}
	}

	// Each preceding sibling is instantiated, initialized so its global
	// dimension is well-defined, measured and discarded.
	for i := 0; i < component[0]; i++ {
		sibling, err := desc.SubMap(i)
		if err != nil {
			return nil, 0, err
		}
		if err := initDescriptor(sibling, snap, m); err != nil {
			return nil, 0, err
		}
		offset += sibling.GlobalDimension()
	}

	sub, err := desc.SubMap(component[0])
	if err != nil {
		return nil, 0, err
	}
	if len(component) == 1 {
		return sub, offset, nil
	}
	return extractSubDescriptor(sub, offset, component[1:], snap, m)
}

// Collapse builds an independent dof map from the same element over the
// same mesh, with offset forced to 0, together with the correspondence
// from the collapsed numbering back to this map's numbering. The
// correspondence has one entry per collapsed dof once every dof has
// been touched by a cell; dofs shared between cells are visited
// repeatedly and map identically each time.
func (dm *DofMap) Collapse(m *mesh.Mesh) (*DofMap, map[int]int, error) {
	// Keep descriptor ownership exclusive when the element can stamp
	// out copies; otherwise the instance is shared and reinitialized.
	desc := dm.desc
	if p, ok := desc.(element.Prototype); ok {
		desc = p.Fresh()
	}
	collapsed, err := newFromInitialized(desc, m)
	if err != nil {
		return nil, nil, err
	}
	if collapsed.GlobalDimension() != dm.GlobalDimension() {
		// A mismatched descriptor/mesh pair is a programming error, not
		// a user input error.
		panic(fmt.Sprintf("collapsed dof map has global dimension %d, original has %d",
			collapsed.GlobalDimension(), dm.GlobalDimension()))
	}

	correspondence := make(map[int]int, collapsed.GlobalDimension())
	for k := 0; k < m.NumCells(); k++ {
		c := m.CellView(k)
		dofs := dm.TabulateDofs(c)
		collapsedDofs := collapsed.TabulateDofs(c)
		for i := range collapsedDofs {
			correspondence[collapsedDofs[i]] = dofs[i]
		}
	}
	return collapsed, correspondence, nil
}

// Dofs returns the distinct dof indices touched by the mesh's cells.
// With sorted set, the result is ascending; otherwise it is in
// first-insertion order.
func (dm *DofMap) Dofs(m *mesh.Mesh, sorted bool) []int {
	seen := make(map[int]struct{})
	var dofs []int
	for k := 0; k < m.NumCells(); k++ {
		for _, dof := range dm.TabulateCellDofs(m, k) {
			if _, ok := seen[dof]; !ok {
				seen[dof] = struct{}{}
				dofs = append(dofs, dof)
			}
		}
	}
	if sorted {
		sort.Ints(dofs)
	}
	return dofs
}

func (dm *DofMap) String() string {
	return fmt.Sprintf("<DofMap of global dimension %d>", dm.GlobalDimension())
}

// Describe renders the dof map; the verbose form adds the element
// signature, dimensions and sub-map counts.
func (dm *DofMap) Describe(verbose bool) string {
	if !verbose {
		return dm.String()
	}
	var sb strings.Builder
	sb.WriteString(dm.String())
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("  Signature:               %s\n", dm.desc.Signature()))
	sb.WriteString(fmt.Sprintf("  Global dimension:        %d\n", dm.desc.GlobalDimension()))
	sb.WriteString(fmt.Sprintf("  Maximum local dimension: %d\n", dm.desc.MaxLocalDimension()))
	sb.WriteString(fmt.Sprintf("  Geometric dimension:     %d\n", dm.desc.GeometricDimension()))
	sb.WriteString(fmt.Sprintf("  Number of sub dofmaps:   %d\n", dm.desc.NumSubMaps()))
	sb.WriteString(fmt.Sprintf("  Number of facet dofs:    %d\n", dm.desc.NumFacetDofs()))
	return sb.String()
}
