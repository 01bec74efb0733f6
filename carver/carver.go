// Package carver is the API a render loop or batch tool drives: it owns one
// mesh, remembers the last seam table per direction and reports every
// removal and undo to an optional observer.
package carver

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/pthm-cable/carve/mesh"
)

// Phase names reported to a PhaseTimer.
const (
	PhaseSearch = "search"
	PhaseRemove = "remove"
	PhaseUndo   = "undo"
)

// PixelSource returns the color of image cell (x, y).
type PixelSource func(x, y int) color.Color

// Change describes one removed or restored seam.
type Change struct {
	Chain     mesh.ChainID
	Direction mesh.Direction
	Weight    float64

	// Live image size after the change.
	Width  int
	Height int

	// Head and Tail are the seam's end points in image coordinates at the
	// time it was removed.
	Head image.Point
	Tail image.Point
}

// Observer is notified after every successful removal and undo.
type Observer interface {
	SeamRemoved(Change)
	SeamRestored(Change)
}

// PhaseTimer receives the start of each timed phase. It is satisfied by
// telemetry.PerfCollector.
type PhaseTimer interface {
	StartPhase(name string)
}

// Options configures a Carver.
type Options struct {
	// CheckInvariants validates the mesh after every mutation.
	CheckInvariants bool

	Logger   *slog.Logger
	Observer Observer
	Timer    PhaseTimer
}

// Carver drives seam search and removal on one mesh.
type Carver struct {
	grid   *mesh.Grid
	editor *mesh.Editor
	opts   Options
	log    *slog.Logger

	// Last table computed per direction, reused while still fresh.
	last [2]*mesh.SeamTable

	// changes parallels the editor's undo stack.
	changes []Change
}

// Construct builds the mesh for a width x height image read from src.
func Construct(width, height int, src PixelSource, opts Options) (*Carver, error) {
	if src == nil {
		return nil, errors.New("carver: nil pixel source")
	}
	g, err := mesh.Build(width, height, src)
	if err != nil {
		return nil, fmt.Errorf("construct carver: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Carver{
		grid:   g,
		editor: mesh.NewEditor(g, mesh.EditorOptions{CheckInvariants: opts.CheckInvariants}),
		opts:   opts,
		log:    log,
	}, nil
}

// FromImage builds a carver over every pixel of img.
func FromImage(img image.Image, opts Options) (*Carver, error) {
	b := img.Bounds()
	return Construct(b.Dx(), b.Dy(), func(x, y int) color.Color {
		return img.At(b.Min.X+x, b.Min.Y+y)
	}, opts)
}

func (c *Carver) phase(name string) {
	if c.opts.Timer != nil {
		c.opts.Timer.StartPhase(name)
	}
}

// ComputeSeamTable runs the seam search for dir and remembers the table.
func (c *Carver) ComputeSeamTable(dir mesh.Direction) *mesh.SeamTable {
	c.phase(PhaseSearch)
	t := mesh.FindSeams(c.grid, dir)
	c.last[dir] = t
	return t
}

// SeamTable returns the remembered table for dir, recomputing it when the
// grid changed since it was built.
func (c *Carver) SeamTable(dir mesh.Direction) *mesh.SeamTable {
	if t := c.last[dir]; t != nil && t.Fresh() {
		return t
	}
	return c.ComputeSeamTable(dir)
}

// MinimumSeamWeight returns the total energy of the table's cheapest seam.
func (c *Carver) MinimumSeamWeight(t *mesh.SeamTable) float64 {
	return t.MinimumWeight()
}

// HighlightSeam paints the table's minimum seam with col.
func (c *Carver) HighlightSeam(t *mesh.SeamTable, col color.Color) int {
	return t.Highlight(col)
}

// ClearHighlight restores every display color.
func (c *Carver) ClearHighlight() {
	c.grid.ClearHighlight()
}

// RemoveSeam removes the minimum seam of t. It fails with
// mesh.ErrStaleTable when the grid changed after t was computed and with
// mesh.ErrDegenerateGrid when no seam fits.
func (c *Carver) RemoveSeam(t *mesh.SeamTable) (mesh.ChainID, error) {
	if t == nil || !t.Fresh() {
		return 0, mesh.ErrStaleTable
	}
	if t.Empty() {
		return 0, fmt.Errorf("%w: %dx%d %s", mesh.ErrDegenerateGrid, c.grid.Width(), c.grid.Height(), t.Direction())
	}

	pts := t.Coordinates()
	ch := Change{
		Direction: t.Direction(),
		Weight:    t.MinimumWeight(),
		Head:      pts[0],
		Tail:      pts[len(pts)-1],
	}

	c.phase(PhaseRemove)
	id, ok := c.editor.Remove(t)
	if !ok {
		return 0, fmt.Errorf("%w: %s table rejected", mesh.ErrStaleTable, t.Direction())
	}
	ch.Chain = id
	ch.Width, ch.Height = c.grid.Width(), c.grid.Height()
	c.changes = append(c.changes, ch)

	c.log.Debug("seam removed",
		"chain", id,
		"direction", ch.Direction.String(),
		"weight", ch.Weight,
		"width", ch.Width,
		"height", ch.Height,
	)
	if c.opts.Observer != nil {
		c.opts.Observer.SeamRemoved(ch)
	}
	return id, nil
}

// RemoveMinimumSeam removes the cheapest seam in dir, reusing the last table
// for dir when it is still fresh. It returns false when the grid is too
// narrow across dir.
func (c *Carver) RemoveMinimumSeam(dir mesh.Direction) (mesh.ChainID, bool) {
	id, err := c.RemoveSeam(c.SeamTable(dir))
	return id, err == nil
}

// Undo restores the most recently removed seam. It returns false when
// nothing is left to undo.
func (c *Carver) Undo() bool {
	c.phase(PhaseUndo)
	if err := c.editor.UndoErr(); err != nil {
		return false
	}
	ch := c.changes[len(c.changes)-1]
	c.changes = c.changes[:len(c.changes)-1]
	ch.Width, ch.Height = c.grid.Width(), c.grid.Height()

	c.log.Debug("seam restored",
		"chain", ch.Chain,
		"direction", ch.Direction.String(),
		"width", ch.Width,
		"height", ch.Height,
	)
	if c.opts.Observer != nil {
		c.opts.Observer.SeamRestored(ch)
	}
	return true
}

// ReadDisplayColor returns the display color at (x, y) in the live image.
func (c *Carver) ReadDisplayColor(x, y int) (color.RGBA, bool) {
	id, ok := c.grid.At(x, y)
	if !ok {
		return color.RGBA{}, false
	}
	return c.grid.DisplayColor(id), true
}

// ReadEnergy returns the cached energy at (x, y) in the live image.
func (c *Carver) ReadEnergy(x, y int) (float64, bool) {
	id, ok := c.grid.At(x, y)
	if !ok {
		return 0, false
	}
	return c.grid.CachedEnergy(id), true
}

// Energies returns the cached energy of every live cell, row-major.
func (c *Carver) Energies() []float64 {
	out := make([]float64, 0, c.grid.Width()*c.grid.Height())
	c.grid.Walk(func(_, _ int, id mesh.NodeID) {
		out = append(out, c.grid.CachedEnergy(id))
	})
	return out
}

// Width returns the live image width.
func (c *Carver) Width() int { return c.grid.Width() }

// Height returns the live image height.
func (c *Carver) Height() int { return c.grid.Height() }

// UndoDepth returns how many removals can be undone.
func (c *Carver) UndoDepth() int { return c.editor.Depth() }

// Grid exposes the mesh for read-only views.
func (c *Carver) Grid() *mesh.Grid { return c.grid }
