package viewer

import (
	"image"
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/carve/config"
	"github.com/pthm-cable/carve/imageio"
	"github.com/pthm-cable/carve/telemetry"
)

// AppOptions wires telemetry into the window loop. Every field is optional.
type AppOptions struct {
	Recorder *telemetry.Recorder
	Perf     *telemetry.PerfCollector
	Output   *telemetry.OutputManager
	LogStats bool
}

// App is the raylib window around a Session.
type App struct {
	session *Session
	cfg     *config.Config
	opts    AppOptions

	viewport *Viewport
	texture  rl.Texture2D

	// Frame is the rendered view; pixels is the texture-sized upload buffer.
	frame  *image.RGBA
	pixels []color.RGBA
	texW   int
	texH   int

	tickAccum  float32
	frames     int
	perfWindow int
	showHUD    bool
	lastTick   TickResult
}

// NewApp creates the window loop for s. Call Run to open the window.
func NewApp(s *Session, cfg *config.Config, opts AppOptions) *App {
	c := s.Carver()
	return &App{
		session:  s,
		cfg:      cfg,
		opts:     opts,
		texW:     c.Width(),
		texH:     c.Height(),
		pixels:   make([]color.RGBA, c.Width()*c.Height()),
		showHUD:  cfg.Display.ShowHUD,
		viewport: NewViewport(float32(cfg.Screen.Width), float32(cfg.Screen.Height), float32(c.Width()), float32(c.Height())),
	}
}

// Run opens the window and blocks until it is closed.
func (a *App) Run() {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(a.cfg.Screen.Width), int32(a.cfg.Screen.Height), a.cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(a.cfg.Screen.TargetFPS))

	img := rl.GenImageColor(a.texW, a.texH, rl.Black)
	a.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(a.texture)

	a.perfWindow = a.cfg.Telemetry.PerfCollectorWindow
	if a.perfWindow < 1 {
		a.perfWindow = 60
	}

	for !rl.WindowShouldClose() {
		a.step()
	}

	if a.opts.Recorder != nil {
		a.opts.Recorder.Flush(a.session.Carver())
	}
}

func (a *App) step() {
	perf := a.opts.Perf
	if perf != nil {
		perf.RecordFrame()
		perf.StartStep()
	}

	a.handleInput()

	interval := float32(a.cfg.Derived.TickInterval.Seconds())
	a.tickAccum += rl.GetFrameTime()
	for a.tickAccum >= interval {
		a.tickAccum -= interval
		if r := a.session.Tick(); r != TickIdle {
			a.lastTick = r
		}
	}

	if perf != nil {
		perf.StartPhase(telemetry.PhaseRender)
	}
	a.draw()

	if perf != nil {
		perf.StartPhase(telemetry.PhaseTelemetry)
	}
	if a.opts.Recorder != nil {
		a.opts.Recorder.MaybeFlush(a.session.Carver())
	}
	if perf != nil {
		perf.EndStep()
		a.frames++
		if a.frames%a.perfWindow == 0 {
			stats := perf.Stats()
			if err := a.opts.Output.WritePerf(stats, a.frames/a.perfWindow); err != nil {
				slog.Error("failed to write perf", "error", err)
			}
			if a.opts.LogStats {
				stats.LogStats()
			}
		}
	}
}

var sessionKeys = []struct {
	key int32
	r   rune
}{
	{rl.KeySpace, ' '},
	{rl.KeyV, 'v'},
	{rl.KeyH, 'h'},
	{rl.KeyE, 'e'},
	{rl.KeyW, 'w'},
	{rl.KeyU, 'u'},
}

// handleInput processes keyboard and mouse input.
func (a *App) handleInput() {
	if rl.IsWindowResized() {
		a.viewport.Resize(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	}

	for _, k := range sessionKeys {
		if rl.IsKeyPressed(k.key) {
			a.session.Key(k.r)
		}
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		a.showHUD = !a.showHUD
	}

	// Viewport controls
	const panSpeed = 8
	if rl.IsKeyDown(rl.KeyRight) {
		a.viewport.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.viewport.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.viewport.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.viewport.Pan(0, -panSpeed)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.viewport.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		a.viewport.Reset()
	}
}

// upload copies the current view into the texture, padding the area the
// carved image no longer covers with black.
func (a *App) upload() {
	s := a.session
	a.frame = imageio.Render(a.frame, s.Carver(), s.View, a.cfg.Display.EnergyScaleMax)

	w, h := a.frame.Rect.Dx(), a.frame.Rect.Dy()
	black := color.RGBA{A: 0xff}
	for y := 0; y < a.texH; y++ {
		row := a.pixels[y*a.texW : (y+1)*a.texW]
		for x := range row {
			if x < w && y < h {
				row[x] = a.frame.RGBAAt(x, y)
			} else {
				row[x] = black
			}
		}
	}
	rl.UpdateTexture(a.texture, a.pixels)
}

func (a *App) draw() {
	a.upload()

	rl.BeginDrawing()
	rl.ClearBackground(rl.DarkGray)

	x, y := a.viewport.ImageToScreen(0, 0)
	scale := a.viewport.Scale()
	rl.DrawTexturePro(
		a.texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(a.texW), Height: float32(a.texH)},
		rl.Rectangle{X: x, Y: y, Width: float32(a.texW) * scale, Height: float32(a.texH) * scale},
		rl.Vector2{X: 0, Y: 0},
		0,
		rl.White,
	)

	if a.showHUD {
		a.drawHUD()
	}
	rl.EndDrawing()
}
