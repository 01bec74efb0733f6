// Package viewer drives interactive carving: a pure Session state machine
// and the raylib window that renders it.
package viewer

import (
	"image/color"
	"math/rand"

	"github.com/pthm-cable/carve/carver"
	"github.com/pthm-cable/carve/config"
	"github.com/pthm-cable/carve/imageio"
	"github.com/pthm-cable/carve/mesh"
)

// DirectionMode selects which seams a session carves.
type DirectionMode uint8

const (
	ModeRandom DirectionMode = iota
	ModeVertical
	ModeHorizontal
)

func (m DirectionMode) String() string {
	switch m {
	case ModeVertical:
		return config.DirectionVertical
	case ModeHorizontal:
		return config.DirectionHorizontal
	default:
		return config.DirectionRandom
	}
}

// ParseDirectionMode maps a config direction to a mode. Unknown names are
// random.
func ParseDirectionMode(s string) DirectionMode {
	switch s {
	case config.DirectionVertical:
		return ModeVertical
	case config.DirectionHorizontal:
		return ModeHorizontal
	default:
		return ModeRandom
	}
}

// TickResult reports what a tick did.
type TickResult uint8

const (
	TickIdle TickResult = iota
	TickHighlight
	TickRemove
	TickUndo
	TickDone
)

func (r TickResult) String() string {
	switch r {
	case TickHighlight:
		return "highlight"
	case TickRemove:
		return "remove"
	case TickUndo:
		return "undo"
	case TickDone:
		return "done"
	default:
		return "idle"
	}
}

// SessionOptions configures a Session.
type SessionOptions struct {
	Mode      DirectionMode
	Highlight color.Color
	MinWidth  int
	MinHeight int
	Rand      *rand.Rand
}

// Session holds the interactive modes and advances carving one tick at a
// time. Carving alternates between two ticks: the first highlights the
// next seam, the second removes it.
type Session struct {
	c    *carver.Carver
	opts SessionOptions
	rng  *rand.Rand

	Paused   bool
	Mode     DirectionMode
	View     imageio.View
	UndoMode bool

	// Highlighted seam awaiting removal
	pending *mesh.SeamTable
}

// NewSession creates a paused session over c.
func NewSession(c *carver.Carver, opts SessionOptions) *Session {
	if opts.Highlight == nil {
		opts.Highlight = color.RGBA{R: 0xff, A: 0xff}
	}
	opts.MinWidth = max(opts.MinWidth, 1)
	opts.MinHeight = max(opts.MinHeight, 1)
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Session{c: c, opts: opts, rng: rng, Paused: true, Mode: opts.Mode}
}

// Carver returns the carver the session drives.
func (s *Session) Carver() *carver.Carver { return s.c }

// Pending reports whether a highlighted seam is waiting to be removed.
func (s *Session) Pending() bool { return s.pending != nil }

// Key handles a key press. A highlighted seam is removed first so no
// highlight outlives a mode change. Unknown keys only do that.
func (s *Session) Key(k rune) {
	s.completePending()

	switch k {
	case ' ':
		s.Paused = !s.Paused
		if s.Paused {
			s.Mode = ModeRandom
		}
	case 'v':
		s.Mode = ModeVertical
	case 'h':
		s.Mode = ModeHorizontal
	case 'e':
		s.View = toggleView(s.View, imageio.ViewEnergy)
	case 'w':
		s.View = toggleView(s.View, imageio.ViewWeights)
	case 'u':
		s.UndoMode = !s.UndoMode
	}
}

func toggleView(cur, v imageio.View) imageio.View {
	if cur == v {
		return imageio.ViewColor
	}
	return v
}

// Tick advances the session by one step.
func (s *Session) Tick() TickResult {
	if s.Paused {
		return TickIdle
	}
	if s.UndoMode {
		if s.c.Undo() {
			return TickUndo
		}
		return TickIdle
	}
	if s.pending != nil {
		s.completePending()
		return TickRemove
	}

	dir, ok := s.chooseDirection()
	if !ok {
		return TickDone
	}
	t := s.c.ComputeSeamTable(dir)
	if t.Empty() {
		return TickDone
	}
	s.c.HighlightSeam(t, s.opts.Highlight)
	s.pending = t
	return TickHighlight
}

// CarveOne removes one seam immediately, without the highlight tick. It
// returns false once no direction allowed by the mode can be carved.
func (s *Session) CarveOne() (mesh.Direction, bool) {
	s.completePending()
	dir, ok := s.chooseDirection()
	if !ok {
		return dir, false
	}
	_, ok = s.c.RemoveMinimumSeam(dir)
	return dir, ok
}

func (s *Session) completePending() {
	if s.pending == nil {
		return
	}
	t := s.pending
	s.pending = nil
	if _, err := s.c.RemoveSeam(t); err != nil {
		s.c.ClearHighlight()
	}
}

func (s *Session) canCarve(dir mesh.Direction) bool {
	if dir == mesh.Horizontal {
		return s.c.Height() > s.opts.MinHeight
	}
	return s.c.Width() > s.opts.MinWidth
}

// chooseDirection picks the next seam direction. In random mode a
// direction that has reached its minimum size yields to the other one.
func (s *Session) chooseDirection() (mesh.Direction, bool) {
	switch s.Mode {
	case ModeVertical:
		return mesh.Vertical, s.canCarve(mesh.Vertical)
	case ModeHorizontal:
		return mesh.Horizontal, s.canCarve(mesh.Horizontal)
	}

	first, second := mesh.Horizontal, mesh.Vertical
	if s.rng.Float64() > 0.5 {
		first, second = second, first
	}
	if s.canCarve(first) {
		return first, true
	}
	return second, s.canCarve(second)
}
