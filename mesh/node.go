// Package mesh implements the linked pixel mesh used for seam carving:
// an arena of nodes wired to their four neighbors, the gradient energy
// model over those links, the seam-search dynamic program, and the
// in-place seam removal and undo surgery.
//
// A Grid is not safe for concurrent use. All calls on one grid must be
// sequenced by the caller.
package mesh

import "image/color"

// NodeID addresses a node in the grid's arena. IDs are stable for the
// lifetime of the grid; removed nodes keep their ID.
type NodeID int32

// None is the zero-value sentinel for "no node".
const None NodeID = -1

// Link selects one of a node's four neighbor relations.
type Link uint8

const (
	Up Link = iota
	Down
	Left
	Right
)

// Opposite returns the reverse relation (Up <-> Down, Left <-> Right).
func (l Link) Opposite() Link {
	return l ^ 1
}

func (l Link) String() string {
	switch l {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Kind distinguishes image cells from the surrounding frame.
type Kind uint8

const (
	// Colored is a cell of the source image.
	Colored Kind = iota
	// Border is a black sentinel cell of the one-cell frame.
	Border
)

// State records whether a node is reachable from the frame.
type State uint8

const (
	Active State = iota
	Removed
)

// Links holds a node's four neighbors, indexed by Link.
type Links [4]NodeID

// node is a single arena entry.
type node struct {
	kind    Kind
	state   State
	color   color.RGBA
	display color.RGBA
	links   Links

	// Cached gradient inputs, refreshed by UpdateEnergies.
	cachedV float64
	cachedH float64
}

var borderColor = color.RGBA{A: 0xff}

func toRGBA(c color.Color) color.RGBA {
	if c == nil {
		return borderColor
	}
	return color.RGBAModel.Convert(c).(color.RGBA)
}
