package viewer

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/carve/imageio"
)

const (
	hudX       = 10
	hudY       = 10
	hudWidth   = 220
	hudButtonH = 26
	hudSpacing = 6
)

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}

// drawHUD draws the control panel. Buttons feed the same keys as the
// keyboard so both paths share the session's rules.
func (a *App) drawHUD() {
	s := a.session
	c := s.Carver()

	panelH := float32(8*(hudButtonH+hudSpacing) + 70)
	rl.DrawRectangle(hudX-5, hudY-5, hudWidth+10, int32(panelH), rl.Fade(rl.Black, 0.6))

	y := float32(hudY)
	button := func(label string) bool {
		r := rl.Rectangle{X: hudX, Y: y, Width: hudWidth, Height: hudButtonH}
		y += hudButtonH + hudSpacing
		return gui.Button(r, label)
	}

	if button(toggleText(s.Paused, "Start [space]", "Pause [space]")) {
		s.Key(' ')
	}
	if button("Vertical seams [v]") {
		s.Key('v')
	}
	if button("Horizontal seams [h]") {
		s.Key('h')
	}
	if button(toggleText(s.View == imageio.ViewEnergy, "Show colors [e]", "Show energy [e]")) {
		s.Key('e')
	}
	if button(toggleText(s.View == imageio.ViewWeights, "Show colors [w]", "Show weights [w]")) {
		s.Key('w')
	}
	if button(toggleText(s.UndoMode, "Stop undo [u]", "Undo mode [u]")) {
		s.Key('u')
	}

	y += hudSpacing
	lines := []string{
		fmt.Sprintf("Size: %d x %d", c.Width(), c.Height()),
		fmt.Sprintf("Mode: %s  View: %s", s.Mode, s.View),
		fmt.Sprintf("Undo depth: %d", c.UndoDepth()),
		fmt.Sprintf("Last: %s  FPS: %d", a.lastTick, rl.GetFPS()),
	}
	for _, line := range lines {
		rl.DrawText(line, hudX, int32(y), 16, rl.RayWhite)
		y += 20
	}
}
