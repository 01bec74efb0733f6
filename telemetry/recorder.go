package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/carve/carver"
)

// Recorder implements carver.Observer. It numbers every seam action, feeds
// the collector and appends to the output logs.
type Recorder struct {
	collector *Collector
	output    *OutputManager
	logStats  bool

	seq    int
	events []SeamEvent
	err    error
}

// NewRecorder creates a recorder. output may be nil.
func NewRecorder(collector *Collector, output *OutputManager, logStats bool) *Recorder {
	return &Recorder{collector: collector, output: output, logStats: logStats}
}

// SeamRemoved implements carver.Observer.
func (r *Recorder) SeamRemoved(ch carver.Change) {
	r.collector.RecordRemoval(ch)
	r.record(ActionRemove, ch)
}

// SeamRestored implements carver.Observer.
func (r *Recorder) SeamRestored(ch carver.Change) {
	r.collector.RecordUndo(ch)
	r.record(ActionUndo, ch)
}

func (r *Recorder) record(action Action, ch carver.Change) {
	r.seq++
	ev := NewSeamEvent(r.seq, action, ch)
	r.events = append(r.events, ev)
	r.keep(r.output.WriteSeam(ev))
}

func (r *Recorder) keep(err error) {
	if err != nil && r.err == nil {
		slog.Error("telemetry write failed", "error", err)
		r.err = err
	}
}

// MaybeFlush writes and returns the window stats once the collector's
// window is full.
func (r *Recorder) MaybeFlush(c *carver.Carver) (WindowStats, bool) {
	if !r.collector.ShouldFlush() {
		return WindowStats{}, false
	}
	return r.Flush(c), true
}

// Flush closes the current window regardless of how full it is.
func (r *Recorder) Flush(c *carver.Carver) WindowStats {
	stats := r.collector.Flush(c)
	r.keep(r.output.WriteTelemetry(stats))
	if r.logStats {
		stats.LogStats()
	}
	return stats
}

// Events returns every event recorded so far.
func (r *Recorder) Events() []SeamEvent { return r.events }

// Err returns the first write error, if any.
func (r *Recorder) Err() error { return r.err }
