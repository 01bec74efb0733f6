package telemetry

import (
	"github.com/pthm-cable/carve/carver"
	"github.com/pthm-cable/carve/mesh"
)

// Collector accumulates seam actions within windows and produces WindowStats.
type Collector struct {
	windowSize int
	window     int

	// Counters for current window
	vertical   int
	horizontal int
	undos      int
	weights    []float64
}

// NewCollector creates a new stats collector.
// windowSize: number of seam actions (removals plus undos) per window.
func NewCollector(windowSize int) *Collector {
	if windowSize < 1 {
		windowSize = 1
	}
	return &Collector{windowSize: windowSize}
}

// RecordRemoval records a removed seam.
func (c *Collector) RecordRemoval(ch carver.Change) {
	if ch.Direction == mesh.Horizontal {
		c.horizontal++
	} else {
		c.vertical++
	}
	c.weights = append(c.weights, ch.Weight)
}

// RecordUndo records a restored seam.
func (c *Collector) RecordUndo(carver.Change) {
	c.undos++
}

// Pending returns the number of actions in the current window.
func (c *Collector) Pending() int {
	return c.vertical + c.horizontal + c.undos
}

// ShouldFlush returns true once the current window is full.
func (c *Collector) ShouldFlush() bool {
	return c.Pending() >= c.windowSize
}

// Flush produces a WindowStats from the counters and the carver's current
// state, then resets counters for the next window.
func (c *Collector) Flush(cv *carver.Carver) WindowStats {
	s := WindowStats{
		Window:     c.window,
		Removals:   c.vertical + c.horizontal,
		Vertical:   c.vertical,
		Horizontal: c.horizontal,
		Undos:      c.undos,
		Width:      cv.Width(),
		Height:     cv.Height(),
		UndoDepth:  cv.UndoDepth(),
	}
	s.WeightMean, s.WeightMin, s.WeightMax = ComputeWeightStats(c.weights)
	s.EnergyMean, s.EnergyStd, s.EnergyP10, s.EnergyP50, s.EnergyP90 = ComputeEnergyStats(cv.Energies())

	c.window++
	c.vertical, c.horizontal, c.undos = 0, 0, 0
	c.weights = c.weights[:0]
	return s
}
