package mesh

// ChainID identifies one removed seam on the undo stack.
type ChainID uint64

// RemovedNode records a node excised by a removal together with the
// neighbors it had at that moment. Undo replays these links.
type RemovedNode struct {
	ID    NodeID
	Links Links
}

// UndoEntry fully describes one removed seam. Nodes are in removal order:
// the frame node past the tail, the seam from tail to head, then the frame
// node before the head.
type UndoEntry struct {
	ID        ChainID
	Direction Direction
	Weight    float64
	Nodes     []RemovedNode
}

// Peek returns the most recent undo entry without popping it.
func (e *Editor) Peek() (UndoEntry, bool) {
	if len(e.undo) == 0 {
		return UndoEntry{}, false
	}
	return e.undo[len(e.undo)-1], true
}

// Undo restores the most recently removed seam. It returns false when the
// stack is empty.
func (e *Editor) Undo() bool {
	return e.UndoErr() == nil
}

// UndoErr is Undo reporting ErrEmptyUndoStack instead of false.
func (e *Editor) UndoErr() error {
	if len(e.undo) == 0 {
		return ErrEmptyUndoStack
	}
	g := e.grid
	entry := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]

	for _, rn := range entry.Nodes {
		n := &g.nodes[rn.ID]
		if n.state != Removed {
			panic(&StructuralError{Node: rn.ID, Check: "undo of a node that is not removed"})
		}
		if n.links != rn.Links {
			panic(&StructuralError{Node: rn.ID, Check: "removed node links changed since removal"})
		}
	}

	touched := make([]NodeID, 0, len(entry.Nodes)*5)
	for _, rn := range entry.Nodes {
		n := &g.nodes[rn.ID]
		for l, nb := range rn.Links {
			if nb == rn.ID {
				continue
			}
			g.nodes[nb].links[Link(l).Opposite()] = rn.ID
			touched = append(touched, nb)
		}
		n.state = Active
		n.display = n.color
		touched = append(touched, rn.ID)
	}

	e.resize(entry.Direction, +1)
	g.refreshAround(touched)
	e.check()
	return nil
}
