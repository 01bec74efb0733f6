package mesh

// EditorOptions configures an Editor.
type EditorOptions struct {
	// CheckInvariants runs Validate and the stale-cache check after every
	// removal and undo, panicking with a *StructuralError on failure.
	CheckInvariants bool
}

// Editor removes and restores seams on a grid and owns its undo stack.
type Editor struct {
	grid   *Grid
	opts   EditorOptions
	undo   []UndoEntry
	nextID ChainID
}

// NewEditor creates an editor for g.
func NewEditor(g *Grid, opts EditorOptions) *Editor {
	return &Editor{grid: g, opts: opts, nextID: 1}
}

// Grid returns the edited grid.
func (e *Editor) Grid() *Grid { return e.grid }

// Depth returns the number of seams that can be undone.
func (e *Editor) Depth() int { return len(e.undo) }

// Clear drops the undo stack. Removed nodes stay in the arena but can no
// longer be restored.
func (e *Editor) Clear() {
	e.undo = e.undo[:0]
}

// Remove excises the minimum seam of t from the mesh. It is a no-op
// returning false when t is empty, stale, built for another grid, or the
// grid has fewer than two nodes across the seam.
//
// Each seam node is unlinked across the seam axis; nodes that sat
// diagonally across a step in the seam are reconnected along it. The
// excised nodes keep their own links and go onto the undo stack.
func (e *Editor) Remove(t *SeamTable) (ChainID, bool) {
	g := e.grid
	if t == nil || t.grid != g || !t.Fresh() || t.Empty() {
		return 0, false
	}
	if across, _ := g.Extent(t.dir); across < 2 {
		return 0, false
	}

	ax := t.dir.axis()
	back, fwd := ax.along.Opposite(), ax.along
	left, right := ax.across.Opposite(), ax.across

	path := t.Path()
	chain := make([]NodeID, 0, len(path)+2)
	chain = append(chain, g.nodes[path[0]].links[back])
	chain = append(chain, path...)
	chain = append(chain, g.nodes[path[len(path)-1]].links[fwd])

	entry := UndoEntry{
		ID:        e.nextID,
		Direction: t.dir,
		Weight:    t.MinimumWeight(),
		Nodes:     make([]RemovedNode, 0, len(chain)),
	}
	touched := make([]NodeID, 0, len(chain)*4)

	for i := len(chain) - 1; i >= 0; i-- {
		id := chain[i]
		links := g.nodes[id].links
		entry.Nodes = append(entry.Nodes, RemovedNode{ID: id, Links: links})

		// Join the two neighbors across the seam.
		p, q := links[left], links[right]
		g.nodes[p].links[right] = q
		g.nodes[q].links[left] = p
		touched = append(touched, p, q)

		if i == 0 {
			continue
		}

		// When the seam steps sideways between chain[i-1] and id, the
		// node that sat before id takes the place after chain[i-1].
		prev := chain[i-1]
		if u := links[back]; u != prev {
			d := g.nodes[prev].links[fwd]
			g.nodes[u].links[fwd] = d
			g.nodes[d].links[back] = u
			touched = append(touched, u, d)
		}
	}

	for _, rn := range entry.Nodes {
		g.nodes[rn.ID].state = Removed
	}
	e.resize(t.dir, -1)
	g.refreshAround(touched)

	e.undo = append(e.undo, entry)
	e.nextID++
	e.check()
	return entry.ID, true
}

func (e *Editor) resize(dir Direction, delta int) {
	if dir == Horizontal {
		e.grid.height += delta
	} else {
		e.grid.width += delta
	}
	e.grid.generation++
}

func (e *Editor) check() {
	if !e.opts.CheckInvariants {
		return
	}
	if err := e.grid.Validate(); err != nil {
		panic(err)
	}
	if stale := e.grid.StaleEnergies(); len(stale) > 0 {
		panic(&StructuralError{Node: stale[0], Check: "cached energy is stale"})
	}
}
