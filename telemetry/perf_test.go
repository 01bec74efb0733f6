package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time            { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestPerf(window int) (*PerfCollector, *fakeClock) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	pc := NewPerfCollector(window)
	pc.now = clk.now
	return pc, clk
}

func TestPerfCollector_PhaseTiming(t *testing.T) {
	pc, clk := newTestPerf(10)

	for i := 0; i < 4; i++ {
		pc.StartStep()
		pc.StartPhase(PhaseSearch)
		clk.advance(300 * time.Microsecond)
		pc.StartPhase(PhaseRemove)
		clk.advance(100 * time.Microsecond)
		pc.EndStep()
	}

	stats := pc.Stats()
	if stats.Samples != 4 {
		t.Errorf("samples = %d, want 4", stats.Samples)
	}
	if stats.AvgStep != 400*time.Microsecond {
		t.Errorf("avg step = %v, want 400µs", stats.AvgStep)
	}
	if got := stats.PhaseAvg[PhaseSearch]; got != 300*time.Microsecond {
		t.Errorf("search avg = %v, want 300µs", got)
	}
	if got := stats.PhasePct[PhaseRemove]; got != 25 {
		t.Errorf("remove pct = %v, want 25", got)
	}
	if stats.StepsPerSecond != 2500 {
		t.Errorf("steps/sec = %v, want 2500", stats.StepsPerSecond)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clk := newTestPerf(3)

	// Three slow steps fall out of the window behind three fast ones.
	for _, d := range []time.Duration{9, 9, 9, 1, 2, 3} {
		pc.StartStep()
		pc.StartPhase(PhaseRender)
		clk.advance(d * time.Millisecond)
		pc.EndStep()
	}

	stats := pc.Stats()
	if stats.Samples != 3 {
		t.Errorf("samples = %d, want window size 3", stats.Samples)
	}
	if stats.MinStep != time.Millisecond || stats.MaxStep != 3*time.Millisecond {
		t.Errorf("min/max = %v/%v, want 1ms/3ms", stats.MinStep, stats.MaxStep)
	}
	if stats.AvgStep != 2*time.Millisecond {
		t.Errorf("avg = %v, want 2ms", stats.AvgStep)
	}
}

func TestPerfCollector_Empty(t *testing.T) {
	pc, _ := newTestPerf(0)
	stats := pc.Stats()
	if stats.Samples != 0 || stats.AvgStep != 0 {
		t.Errorf("empty collector stats = %+v", stats)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("maps should be initialized even when empty")
	}
}

func TestPerfCollector_Frames(t *testing.T) {
	pc, clk := newTestPerf(5)
	pc.RecordFrame()
	clk.advance(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration != 20*time.Millisecond || stats.FPS != 50 {
		t.Errorf("frame = %v fps = %v, want 20ms and 50", stats.FrameDuration, stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	pc, clk := newTestPerf(5)
	pc.StartStep()
	pc.StartPhase(PhaseUndo)
	clk.advance(time.Millisecond)
	pc.StartPhase(PhaseTelemetry)
	clk.advance(time.Millisecond)
	pc.EndStep()

	row := pc.Stats().ToCSV(7)
	if row.Window != 7 {
		t.Errorf("window = %d, want 7", row.Window)
	}
	if row.UndoPct != 50 || row.TelemetryPct != 50 {
		t.Errorf("undo/telemetry pct = %v/%v, want 50/50", row.UndoPct, row.TelemetryPct)
	}
	if row.AvgStepUS != 2000 {
		t.Errorf("avg step = %dµs, want 2000", row.AvgStepUS)
	}
}
