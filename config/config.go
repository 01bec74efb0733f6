// Package config provides configuration loading from YAML files.
package config

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Direction modes accepted by carve.direction.
const (
	DirectionRandom     = "random"
	DirectionVertical   = "vertical"
	DirectionHorizontal = "horizontal"
)

// Config holds all configuration.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Carve     CarveConfig     `yaml:"carve"`
	Display   DisplayConfig   `yaml:"display"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Output    OutputConfig    `yaml:"output"`

	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds window parameters.
type ScreenConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"`
	Title     string `yaml:"title"`
}

// CarveConfig holds seam carving parameters.
type CarveConfig struct {
	Direction       string  `yaml:"direction"`        // random, vertical or horizontal
	HighlightColor  string  `yaml:"highlight_color"`  // SVG color name, see x/image/colornames
	TicksPerSecond  float64 `yaml:"ticks_per_second"` // Highlight and removal each take one tick
	CheckInvariants bool    `yaml:"check_invariants"` // Validate the mesh after every mutation
	MinWidth        int     `yaml:"min_width"`        // Stop vertical carving at this width
	MinHeight       int     `yaml:"min_height"`       // Stop horizontal carving at this height
}

// DisplayConfig holds view parameters.
type DisplayConfig struct {
	EnergyScaleMax float64 `yaml:"energy_scale_max"` // Energy mapped to white (0 = sqrt(32))
	ShowHUD        bool    `yaml:"show_hud"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // Removals per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// OutputConfig holds headless output parameters.
type OutputConfig struct {
	Image        string `yaml:"image"` // Carved image file name inside the output dir
	SeamLog      bool   `yaml:"seam_log"`
	TelemetryLog bool   `yaml:"telemetry_log"`
	PerfLog      bool   `yaml:"perf_log"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	HighlightRGBA color.RGBA    // Carve.HighlightColor resolved, red if unknown
	TickInterval  time.Duration // 1 / Carve.TicksPerSecond
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	c.Carve.Direction = strings.ToLower(strings.TrimSpace(c.Carve.Direction))
	switch c.Carve.Direction {
	case DirectionRandom, DirectionVertical, DirectionHorizontal:
	default:
		return fmt.Errorf("carve.direction: unknown mode %q", c.Carve.Direction)
	}
	if c.Carve.TicksPerSecond <= 0 {
		return fmt.Errorf("carve.ticks_per_second must be positive, got %v", c.Carve.TicksPerSecond)
	}
	if c.Carve.MinWidth < 1 || c.Carve.MinHeight < 1 {
		return fmt.Errorf("carve.min_width and carve.min_height must be at least 1")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.HighlightRGBA = colornames.Red
	if rgba, ok := colornames.Map[strings.ToLower(c.Carve.HighlightColor)]; ok {
		c.Derived.HighlightRGBA = rgba
	}
	c.Derived.TickInterval = time.Duration(float64(time.Second) / c.Carve.TicksPerSecond)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
