// Package telemetry records seam removals, windowed energy statistics and
// phase timings, and writes them as CSV.
package telemetry

import "github.com/pthm-cable/carve/carver"

// Action identifies what happened to a seam.
type Action string

const (
	ActionRemove Action = "remove"
	ActionUndo   Action = "undo"
)

// SeamEvent is one row of seams.csv.
type SeamEvent struct {
	Seq       int     `csv:"seq"`
	Action    Action  `csv:"action"`
	Chain     uint64  `csv:"chain"`
	Direction string  `csv:"direction"`
	Weight    float64 `csv:"weight"`

	// Live image size after the action
	Width  int `csv:"width"`
	Height int `csv:"height"`

	HeadX int `csv:"head_x"`
	HeadY int `csv:"head_y"`
	TailX int `csv:"tail_x"`
	TailY int `csv:"tail_y"`
}

// NewSeamEvent builds the event for a carver change.
func NewSeamEvent(seq int, action Action, ch carver.Change) SeamEvent {
	return SeamEvent{
		Seq:       seq,
		Action:    action,
		Chain:     uint64(ch.Chain),
		Direction: ch.Direction.String(),
		Weight:    ch.Weight,
		Width:     ch.Width,
		Height:    ch.Height,
		HeadX:     ch.Head.X,
		HeadY:     ch.Head.Y,
		TailX:     ch.Tail.X,
		TailY:     ch.Tail.Y,
	}
}
