package mesh

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Direction selects the orientation of a seam.
type Direction uint8

const (
	// Vertical seams hold one node per row and remove a column.
	Vertical Direction = iota
	// Horizontal seams hold one node per column and remove a row.
	Horizontal
)

func (d Direction) String() string {
	switch d {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return "unknown"
	}
}

// ParseDirection accepts "vertical"/"v" or "horizontal"/"h".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "vertical", "v":
		return Vertical, nil
	case "horizontal", "h":
		return Horizontal, nil
	default:
		return Vertical, fmt.Errorf("unknown seam direction %q", s)
	}
}

// axis names the links a seam of one direction travels along (from head
// to tail) and across (within one row of the table).
type axis struct {
	along  Link
	across Link
}

func (d Direction) axis() axis {
	if d == Horizontal {
		return axis{along: Right, across: Down}
	}
	return axis{along: Down, across: Right}
}

// SeamInfo is one cell of the seam table: the node, the cheapest total
// energy of any seam from the first row ending at it, and the entry in the
// previous row that seam came from.
type SeamInfo struct {
	Node   NodeID
	Weight float64
	Prev   *SeamInfo

	// Pos is the node's index across its row.
	Pos int
}

// SeamTable is the full dynamic-programming table for one direction. Row i
// holds the entries for the i-th row (vertical) or column (horizontal).
type SeamTable struct {
	grid       *Grid
	dir        Direction
	generation uint64
	rows       [][]SeamInfo
}

// FindSeams runs the minimum-seam dynamic program over the live grid. The
// table is empty when the grid has fewer than two nodes across the seam.
func FindSeams(g *Grid, dir Direction) *SeamTable {
	t := &SeamTable{grid: g, dir: dir, generation: g.generation}

	across, along := g.Extent(dir)
	if across < 2 {
		return t
	}

	ax := dir.axis()
	t.rows = make([][]SeamInfo, along)

	head := g.FindStart()
	for i := 0; i < along; i++ {
		row := make([]SeamInfo, across)
		id := head
		for j := 0; j < across; j++ {
			e := g.Energy(id)
			if i == 0 {
				row[j] = SeamInfo{Node: id, Weight: e, Pos: j}
			} else {
				prev := t.rows[i-1]
				p := &prev[j+ChoosePredecessor(prev, j)]
				row[j] = SeamInfo{Node: id, Weight: p.Weight + e, Prev: p, Pos: j}
			}
			id = g.nodes[id].links[ax.across]
		}
		t.rows[i] = row
		head = g.nodes[head].links[ax.along]
	}
	return t
}

// ChoosePredecessor returns the offset (-1, 0 or +1) of the entry in prev
// that position j extends. Missing neighbors at the edges weigh +Inf.
// Ties resolve left first, then above, then right.
func ChoosePredecessor(prev []SeamInfo, j int) int {
	left, right := math.Inf(1), math.Inf(1)
	above := prev[j].Weight
	if j > 0 {
		left = prev[j-1].Weight
	}
	if j < len(prev)-1 {
		right = prev[j+1].Weight
	}
	return pick(left, above, right)
}

func pick(left, above, right float64) int {
	switch {
	case left <= above && left <= right && !math.IsInf(left, 1):
		return -1
	case above <= right && above <= left:
		return 0
	case !math.IsInf(right, 1):
		return 1
	default:
		return 0
	}
}

// Direction returns the seam orientation of the table.
func (t *SeamTable) Direction() Direction { return t.dir }

// Generation returns the grid generation the table was computed at.
func (t *SeamTable) Generation() uint64 { return t.generation }

// Fresh reports whether the grid has not changed since the table was built.
func (t *SeamTable) Fresh() bool {
	return t.grid != nil && t.generation == t.grid.generation
}

// Len returns the number of rows in the table.
func (t *SeamTable) Len() int { return len(t.rows) }

// Empty reports whether the table holds no seam.
func (t *SeamTable) Empty() bool { return len(t.rows) == 0 }

// Row returns the i-th row of the table.
func (t *SeamTable) Row(i int) []SeamInfo { return t.rows[i] }

// Tail returns the first entry of the last row with strictly minimal
// weight, or nil for an empty table.
func (t *SeamTable) Tail() *SeamInfo {
	if len(t.rows) == 0 {
		return nil
	}
	last := t.rows[len(t.rows)-1]
	best := &last[0]
	for i := range last {
		if last[i].Weight < best.Weight {
			best = &last[i]
		}
	}
	return best
}

// MinimumWeight returns the total energy of the cheapest seam, or +Inf
// for an empty table.
func (t *SeamTable) MinimumWeight() float64 {
	tail := t.Tail()
	if tail == nil {
		return math.Inf(1)
	}
	return tail.Weight
}

// MaxWeight returns the largest cumulative weight in the table.
func (t *SeamTable) MaxWeight() float64 {
	var max float64
	for _, row := range t.rows {
		for i := range row {
			if row[i].Weight > max {
				max = row[i].Weight
			}
		}
	}
	return max
}

// Chain returns the minimum seam's entries from tail back to head.
func (t *SeamTable) Chain() []*SeamInfo {
	var chain []*SeamInfo
	for s := t.Tail(); s != nil; s = s.Prev {
		chain = append(chain, s)
	}
	return chain
}

// Path returns the minimum seam's nodes from head to tail.
func (t *SeamTable) Path() []NodeID {
	chain := t.Chain()
	path := make([]NodeID, len(chain))
	for i, s := range chain {
		path[len(chain)-1-i] = s.Node
	}
	return path
}

// Coordinates returns the minimum seam as image coordinates, head first.
func (t *SeamTable) Coordinates() []image.Point {
	chain := t.Chain()
	pts := make([]image.Point, len(chain))
	for i, s := range chain {
		row := len(chain) - 1 - i
		if t.dir == Horizontal {
			pts[row] = image.Pt(row, s.Pos)
		} else {
			pts[row] = image.Pt(s.Pos, row)
		}
	}
	return pts
}

// Highlight sets the display color of every node on the minimum seam.
// It returns the number of nodes painted; a stale or empty table paints
// nothing.
func (t *SeamTable) Highlight(c color.Color) int {
	if !t.Fresh() {
		return 0
	}
	rgba := toRGBA(c)
	n := 0
	for s := t.Tail(); s != nil; s = s.Prev {
		t.grid.nodes[s.Node].display = rgba
		n++
	}
	return n
}
