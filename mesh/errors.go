package mesh

import (
	"errors"
	"fmt"
)

// Construction errors
var (
	// ErrEmptyGrid indicates a requested width or height below one.
	ErrEmptyGrid = errors.New("grid dimensions must be at least 1x1")
)

// Editing errors
var (
	// ErrEmptyUndoStack indicates an undo with nothing to restore.
	ErrEmptyUndoStack = errors.New("undo stack is empty")

	// ErrDegenerateGrid indicates fewer than two nodes across the seam axis.
	ErrDegenerateGrid = errors.New("grid too narrow for seam removal")

	// ErrStaleTable indicates a seam table computed before the last mutation.
	ErrStaleTable = errors.New("seam table is stale")
)

// StructuralError reports a broken mesh invariant. It is a defect, never a
// recoverable runtime condition, and is raised with panic by Build and by
// an Editor running with CheckInvariants.
type StructuralError struct {
	Node  NodeID
	Check string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("mesh not well-formed at node %d: %s", e.Node, e.Check)
}
