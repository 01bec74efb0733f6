package mesh

import "fmt"

// IsWellFormed reports whether every active node satisfies the diagonal
// consistency invariant. It is O(node count) and meant for tests and
// integration guards.
func (g *Grid) IsWellFormed() bool {
	return g.Validate() == nil
}

// Validate checks the mesh invariant and returns a *StructuralError for
// the first violation found:
//
//	up.right == right.up, up.left == left.up,
//	down.left == left.down, down.right == right.down
//
// It also checks that no active node links to a removed node and that the
// live image is a width x height rectangle inside the frame.
func (g *Grid) Validate() error {
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.state != Active {
			continue
		}
		id := NodeID(i)
		l := n.links

		for dir, nb := range l {
			if g.nodes[nb].state != Active {
				return &StructuralError{Node: id, Check: fmt.Sprintf("%s neighbor %d is removed", Link(dir), nb)}
			}
		}

		switch {
		case g.Neighbor(l[Up], Right) != g.Neighbor(l[Right], Up):
			return &StructuralError{Node: id, Check: "up.right != right.up"}
		case g.Neighbor(l[Up], Left) != g.Neighbor(l[Left], Up):
			return &StructuralError{Node: id, Check: "up.left != left.up"}
		case g.Neighbor(l[Down], Left) != g.Neighbor(l[Left], Down):
			return &StructuralError{Node: id, Check: "down.left != left.down"}
		case g.Neighbor(l[Down], Right) != g.Neighbor(l[Right], Down):
			return &StructuralError{Node: id, Check: "down.right != right.down"}
		}
	}
	return g.validateShape()
}

// validateShape walks the live image and checks it is exactly width x
// height image cells with Border on every side.
func (g *Grid) validateShape() error {
	row := g.FindStart()
	for y := 0; y < g.height; y++ {
		if g.nodes[row].kind != Colored {
			return &StructuralError{Node: row, Check: fmt.Sprintf("row %d has no image cells", y)}
		}
		if g.nodes[g.nodes[row].links[Left]].kind != Border {
			return &StructuralError{Node: row, Check: fmt.Sprintf("row %d does not start at the frame", y)}
		}
		id := row
		for x := 0; x < g.width; x++ {
			if g.nodes[id].kind != Colored {
				return &StructuralError{Node: id, Check: fmt.Sprintf("row %d shorter than width %d", y, g.width)}
			}
			id = g.nodes[id].links[Right]
		}
		if g.nodes[id].kind != Border {
			return &StructuralError{Node: id, Check: fmt.Sprintf("row %d longer than width %d", y, g.width)}
		}
		row = g.nodes[row].links[Down]
	}
	if g.nodes[row].kind != Border {
		return &StructuralError{Node: row, Check: fmt.Sprintf("more than %d rows", g.height)}
	}
	return nil
}
