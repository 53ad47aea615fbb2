package dofmap

import (
	"errors"
	"fmt"
)

var (
	// ErrUnorderedMesh reports a mesh that has not been canonicalized
	// into the vertex-ordering convention element tabulation expects.
	ErrUnorderedMesh = errors.New("mesh is not ordered according to the expected numbering convention; call Order on the mesh first")

	// ErrNoSubsystems reports a sub-map extraction on an element with
	// no sub elements.
	ErrNoSubsystems = errors.New("unable to extract sub system: there are no sub systems")

	// ErrEmptyPath reports a sub-map extraction with an empty
	// component path.
	ErrEmptyPath = errors.New("unable to extract sub system: no sub system specified")
)

// MissingEntitiesError reports that a mesh dimension the element
// requires has no entities after initialization.
type MissingEntitiesError struct {
	Dim int
}

func (e *MissingEntitiesError) Error() string {
	return fmt.Sprintf("unable to create dof map: missing mesh entities of dimension %d; try calling Init(%d) on the mesh", e.Dim, e.Dim)
}

// IndexOutOfRangeError reports a sub-system index beyond the element's
// declared sub-map count.
type IndexOutOfRangeError struct {
	Index int
	Bound int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("unable to extract sub system %d: only %d sub systems defined", e.Index, e.Bound)
}
