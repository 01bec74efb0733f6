package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pthm-cable/carve/carver"
	"github.com/pthm-cable/carve/config"
	"github.com/pthm-cable/carve/imageio"
	"github.com/pthm-cable/carve/telemetry"
	"github.com/pthm-cable/carve/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	imagePath := flag.String("image", "", "Image to carve (png, jpeg, gif, bmp, tiff, webp)")
	headless := flag.Bool("headless", false, "Carve without graphics and write the result")
	seams := flag.Int("seams", 0, "Seams to remove in headless mode (0 = until minimum size)")
	direction := flag.String("direction", "", "vertical, horizontal or random (empty = use config)")
	seed := flag.Int64("seed", 0, "RNG seed for random direction (0 = time-based)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	outPath := flag.String("out", "", "Carved image path (default: output dir / output.image)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *direction != "" {
		if viewer.ParseDirectionMode(*direction).String() != *direction {
			slog.Error("unknown -direction", "direction", *direction)
			os.Exit(2)
		}
		cfg.Carve.Direction = *direction
	}

	if *imagePath == "" {
		slog.Error("missing -image")
		flag.Usage()
		os.Exit(2)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	if err := run(cfg, *imagePath, *headless, *seams, rngSeed, *outputDir, *outPath, *logStats); err != nil {
		slog.Error("carve failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, imagePath string, headless bool, seams int, seed int64, outputDir, outPath string, logStats bool) error {
	img, err := imageio.Load(imagePath)
	if err != nil {
		return err
	}

	output, err := telemetry.NewOutputManager(outputDir, cfg.Output)
	if err != nil {
		return err
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		return err
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	recorder := telemetry.NewRecorder(telemetry.NewCollector(cfg.Telemetry.StatsWindow), output, logStats)

	c, err := carver.FromImage(img, carver.Options{
		CheckInvariants: cfg.Carve.CheckInvariants,
		Logger:          slog.Default(),
		Observer:        recorder,
		Timer:           perf,
	})
	if err != nil {
		return err
	}

	session := viewer.NewSession(c, viewer.SessionOptions{
		Mode:      viewer.ParseDirectionMode(cfg.Carve.Direction),
		Highlight: cfg.Derived.HighlightRGBA,
		MinWidth:  cfg.Carve.MinWidth,
		MinHeight: cfg.Carve.MinHeight,
		Rand:      rand.New(rand.NewSource(seed)),
	})

	slog.Info("loaded image",
		"path", imagePath,
		"width", c.Width(),
		"height", c.Height(),
		"direction", cfg.Carve.Direction,
		"seed", seed,
		"headless", headless,
	)

	if !headless {
		viewer.NewApp(session, cfg, viewer.AppOptions{
			Recorder: recorder,
			Perf:     perf,
			Output:   output,
			LogStats: logStats,
		}).Run()
		return recorder.Err()
	}

	return carveHeadless(session, recorder, perf, output, cfg, seams, outPath, logStats)
}

func carveHeadless(
	s *viewer.Session,
	recorder *telemetry.Recorder,
	perf *telemetry.PerfCollector,
	output *telemetry.OutputManager,
	cfg *config.Config,
	seams int,
	outPath string,
	logStats bool,
) error {
	c := s.Carver()
	removed := 0
	for seams == 0 || removed < seams {
		perf.StartStep()
		_, ok := s.CarveOne()
		perf.StartPhase(telemetry.PhaseTelemetry)
		recorder.MaybeFlush(c)
		perf.EndStep()
		if !ok {
			break
		}
		removed++
	}
	recorder.Flush(c)

	stats := perf.Stats()
	if err := output.WritePerf(stats, 0); err != nil {
		return err
	}
	if logStats {
		stats.LogStats()
	}

	if outPath == "" && output != nil {
		outPath = output.Path(cfg.Output.Image)
	}
	if outPath != "" {
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return err
		}
		c.ClearHighlight()
		if err := imageio.WritePNG(outPath, imageio.ColorView(nil, c)); err != nil {
			return err
		}
	}

	slog.Info("headless carve finished",
		"removed", removed,
		"width", c.Width(),
		"height", c.Height(),
		"out", outPath,
	)
	return recorder.Err()
}
