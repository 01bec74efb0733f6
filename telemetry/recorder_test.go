package telemetry

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/carve/carver"
	"github.com/pthm-cable/carve/config"
	"github.com/pthm-cable/carve/mesh"
)

func newTestCarver(t *testing.T, obs carver.Observer) *carver.Carver {
	t.Helper()
	c, err := carver.Construct(6, 5, func(x, y int) color.Color {
		return color.RGBA{uint8(x * 40), uint8(y * 50), uint8((x * y) % 256), 255}
	}, carver.Options{Observer: obs, CheckInvariants: true})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

var allLogs = config.OutputConfig{SeamLog: true, TelemetryLog: true, PerfLog: true}

func TestCollectorFlush(t *testing.T) {
	col := NewCollector(3)
	rec := NewRecorder(col, nil, false)
	c := newTestCarver(t, rec)

	c.RemoveMinimumSeam(mesh.Vertical)
	c.RemoveMinimumSeam(mesh.Horizontal)
	if col.ShouldFlush() {
		t.Fatal("window flushed after 2 of 3 actions")
	}
	c.Undo()

	stats, ok := rec.MaybeFlush(c)
	if !ok {
		t.Fatal("window not flushed after 3 actions")
	}
	if stats.Removals != 2 || stats.Vertical != 1 || stats.Horizontal != 1 || stats.Undos != 1 {
		t.Errorf("stats counts = %+v", stats)
	}
	if stats.Width != 5 || stats.Height != 5 || stats.UndoDepth != 1 {
		t.Errorf("stats size = %dx%d depth %d, want 5x5 depth 1", stats.Width, stats.Height, stats.UndoDepth)
	}
	if stats.WeightMin > stats.WeightMean || stats.WeightMean > stats.WeightMax {
		t.Errorf("weight stats out of order: %+v", stats)
	}
	if stats.EnergyP10 > stats.EnergyP50 || stats.EnergyP50 > stats.EnergyP90 {
		t.Errorf("energy percentiles out of order: %+v", stats)
	}
	if col.Pending() != 0 {
		t.Errorf("pending = %d after flush, want 0", col.Pending())
	}

	next := rec.Flush(c)
	if next.Window != 1 || next.Removals != 0 {
		t.Errorf("second window = %+v", next)
	}
}

func TestRecorderEvents(t *testing.T) {
	rec := NewRecorder(NewCollector(10), nil, false)
	c := newTestCarver(t, rec)

	c.RemoveMinimumSeam(mesh.Vertical)
	c.Undo()

	evs := rec.Events()
	if len(evs) != 2 {
		t.Fatalf("got %d events, want 2", len(evs))
	}
	if evs[0].Action != ActionRemove || evs[0].Width != 5 || evs[0].Direction != "vertical" {
		t.Errorf("remove event = %+v", evs[0])
	}
	if evs[1].Action != ActionUndo || evs[1].Width != 6 || evs[1].Chain != evs[0].Chain {
		t.Errorf("undo event = %+v", evs[1])
	}
	if evs[0].Seq != 1 || evs[1].Seq != 2 {
		t.Errorf("sequence numbers %d, %d", evs[0].Seq, evs[1].Seq)
	}
	if evs[0].HeadY != 0 || evs[0].TailY != 4 {
		t.Errorf("vertical seam should span rows 0..4, got %d..%d", evs[0].HeadY, evs[0].TailY)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("", allLogs)
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	if err := om.WriteSeam(SeamEvent{}); err != nil {
		t.Errorf("nil WriteSeam: %v", err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("nil WriteTelemetry: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
	if om.Path("x") != "" || om.Dir() != "" {
		t.Error("nil manager should report empty paths")
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir, allLogs)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	rec := NewRecorder(NewCollector(2), om, false)
	c := newTestCarver(t, rec)

	for i := 0; i < 4; i++ {
		c.RemoveMinimumSeam(mesh.Vertical)
		rec.MaybeFlush(c)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if rec.Err() != nil {
		t.Fatalf("recorder error: %v", rec.Err())
	}

	f, err := os.Open(filepath.Join(dir, "seams.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var events []SeamEvent
	if err := gocsv.UnmarshalFile(f, &events); err != nil {
		t.Fatalf("reading seams.csv: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("seams.csv has %d rows, want 4", len(events))
	}
	if events[3].Width != 2 || events[3].Seq != 4 {
		t.Errorf("last row = %+v", events[3])
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("telemetry.csv has %d lines, want header plus 2 windows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window,removals") {
		t.Errorf("telemetry header = %q", lines[0])
	}

	for _, name := range []string{"perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestOutputManagerSkipsDisabledLogs(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, config.OutputConfig{SeamLog: true})
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("disabled telemetry log: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "telemetry.csv")); !os.IsNotExist(err) {
		t.Error("telemetry.csv created while disabled")
	}
}
