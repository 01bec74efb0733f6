package mesh

import (
	"fmt"
	"image/color"
)

// Grid owns every node of the mesh: the image cells plus one ring of
// Border nodes. Nodes are allocated once in Build and never freed.
type Grid struct {
	nodes []node

	// Live image dimensions, excluding the frame.
	width  int
	height int

	// Dimensions at construction.
	origW int
	origH int

	generation uint64
}

// Build allocates a width x height image framed by Border nodes and wires
// every node to its four neighbors. colorAt is called once per image cell
// with coordinates in [0,width) x [0,height).
//
// The outermost links of the frame loop back onto the node itself. Build
// validates the mesh before returning and panics with a *StructuralError
// if it is not well-formed.
func Build(width, height int, colorAt func(x, y int) color.Color) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrEmptyGrid, width, height)
	}

	fw, fh := width+2, height+2
	g := &Grid{
		nodes:  make([]node, fw*fh),
		width:  width,
		height: height,
		origW:  width,
		origH:  height,
	}

	for fy := 0; fy < fh; fy++ {
		for fx := 0; fx < fw; fx++ {
			id := NodeID(fy*fw + fx)
			n := &g.nodes[id]

			if fx == 0 || fy == 0 || fx == fw-1 || fy == fh-1 {
				n.kind = Border
				n.color = borderColor
			} else {
				n.kind = Colored
				n.color = toRGBA(colorAt(fx-1, fy-1))
			}
			n.display = n.color

			n.links = Links{id, id, id, id}
			if fy > 0 {
				n.links[Up] = id - NodeID(fw)
			}
			if fy < fh-1 {
				n.links[Down] = id + NodeID(fw)
			}
			if fx > 0 {
				n.links[Left] = id - 1
			}
			if fx < fw-1 {
				n.links[Right] = id + 1
			}
		}
	}

	for i := range g.nodes {
		g.UpdateEnergies(NodeID(i))
	}

	if err := g.Validate(); err != nil {
		panic(err)
	}
	return g, nil
}

// Width returns the live image width.
func (g *Grid) Width() int { return g.width }

// Height returns the live image height.
func (g *Grid) Height() int { return g.height }

// OriginalSize returns the dimensions the grid was built with.
func (g *Grid) OriginalSize() (width, height int) { return g.origW, g.origH }

// Generation increments on every structural mutation.
func (g *Grid) Generation() uint64 { return g.generation }

// Len returns the arena size, including removed and frame nodes.
func (g *Grid) Len() int { return len(g.nodes) }

// Corner returns the top-left frame node. It is never removed.
func (g *Grid) Corner() NodeID { return 0 }

// FindStart returns the first image cell: one step right and one step
// down from the top-left corner.
func (g *Grid) FindStart() NodeID {
	return g.Neighbor(g.Neighbor(g.Corner(), Right), Down)
}

// Neighbor follows one link from id.
func (g *Grid) Neighbor(id NodeID, l Link) NodeID {
	return g.nodes[id].links[l]
}

// Links returns a copy of id's four neighbors.
func (g *Grid) Links(id NodeID) Links {
	return g.nodes[id].links
}

// HasDown reports whether stepping down from id lands on an image cell.
func (g *Grid) HasDown(id NodeID) bool {
	return g.nodes[g.nodes[id].links[Down]].kind == Colored
}

// HasRight reports whether stepping right from id lands on an image cell.
func (g *Grid) HasRight(id NodeID) bool {
	return g.nodes[g.nodes[id].links[Right]].kind == Colored
}

// Kind returns the node's kind.
func (g *Grid) Kind(id NodeID) Kind { return g.nodes[id].kind }

// State returns whether the node is active or removed.
func (g *Grid) State(id NodeID) State { return g.nodes[id].state }

// Color returns the node's underlying color.
func (g *Grid) Color(id NodeID) color.RGBA { return g.nodes[id].color }

// DisplayColor returns the color a renderer should show for the node.
func (g *Grid) DisplayColor(id NodeID) color.RGBA { return g.nodes[id].display }

// SetDisplayColor overrides the displayed color without touching the
// underlying color used for energy.
func (g *Grid) SetDisplayColor(id NodeID, c color.Color) {
	g.nodes[id].display = toRGBA(c)
}

// ClearHighlight resets every active node's display color to its own color.
func (g *Grid) ClearHighlight() {
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.state == Active {
			n.display = n.color
		}
	}
}

// Walk visits the live image row by row, left to right.
func (g *Grid) Walk(fn func(x, y int, id NodeID)) {
	row := g.FindStart()
	for y := 0; y < g.height; y++ {
		id := row
		for x := 0; x < g.width; x++ {
			fn(x, y, id)
			id = g.nodes[id].links[Right]
		}
		row = g.nodes[row].links[Down]
	}
}

// At returns the node currently displayed at (x, y). It walks from the
// start node, so it costs O(x+y).
func (g *Grid) At(x, y int) (NodeID, bool) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return None, false
	}
	id := g.FindStart()
	for i := 0; i < y; i++ {
		id = g.nodes[id].links[Down]
	}
	for i := 0; i < x; i++ {
		id = g.nodes[id].links[Right]
	}
	return id, true
}

// Extent returns the number of live nodes across and along a seam of the
// given direction.
func (g *Grid) Extent(dir Direction) (across, along int) {
	if dir == Horizontal {
		return g.height, g.width
	}
	return g.width, g.height
}
