package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/carve/config"
)

// csvLog appends gocsv records to one file, writing the header once.
type csvLog struct {
	name          string
	file          *os.File
	headerWritten bool
}

func openCSVLog(dir, name string) (*csvLog, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvLog{name: name, file: f}, nil
}

func (l *csvLog) write(records any) error {
	if l == nil {
		return nil
	}
	var err error
	if !l.headerWritten {
		err = gocsv.Marshal(records, l.file)
		l.headerWritten = true
	} else {
		err = gocsv.MarshalWithoutHeaders(records, l.file)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", l.name, err)
	}
	return nil
}

func (l *csvLog) close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}

// OutputManager handles run output: CSV logs and a config snapshot.
type OutputManager struct {
	dir       string
	seams     *csvLog
	telemetry *csvLog
	perf      *csvLog
}

// NewOutputManager creates dir and opens the logs enabled in opts.
// Returns nil if dir is empty (output disabled); every method is safe on a
// nil manager.
func NewOutputManager(dir string, opts config.OutputConfig) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	logs := []struct {
		enabled bool
		name    string
		dst     **csvLog
	}{
		{opts.SeamLog, "seams.csv", &om.seams},
		{opts.TelemetryLog, "telemetry.csv", &om.telemetry},
		{opts.PerfLog, "perf.csv", &om.perf},
	}
	for _, l := range logs {
		if !l.enabled {
			continue
		}
		f, err := openCSVLog(dir, l.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*l.dst = f
	}
	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteSeam appends one event to seams.csv.
func (om *OutputManager) WriteSeam(ev SeamEvent) error {
	if om == nil {
		return nil
	}
	return om.seams.write([]SeamEvent{ev})
}

// WriteTelemetry appends a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write([]WindowStats{stats})
}

// WritePerf appends a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, window int) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(window)})
}

// Path returns name inside the output directory, or "" when disabled.
func (om *OutputManager) Path(name string) string {
	if om == nil {
		return ""
	}
	return filepath.Join(om.dir, name)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, l := range []*csvLog{om.seams, om.telemetry, om.perf} {
		if err := l.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
