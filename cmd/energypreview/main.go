// Energy preview tool - interactive energy view with a scale slider.
//
// Usage: go run ./cmd/energypreview -image photo.png
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/carve/carver"
	"github.com/pthm-cable/carve/imageio"
	"github.com/pthm-cable/carve/mesh"
	"github.com/pthm-cable/carve/telemetry"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

func main() {
	imagePath := flag.String("image", "", "Image to preview")
	flag.Parse()
	if *imagePath == "" {
		fmt.Fprintln(os.Stderr, "usage: energypreview -image <file>")
		os.Exit(2)
	}

	src, err := imageio.Load(*imagePath)
	if err != nil {
		slog.Error("failed to load image", "error", err)
		os.Exit(1)
	}
	c, err := carver.FromImage(src, carver.Options{})
	if err != nil {
		slog.Error("failed to build mesh", "error", err)
		os.Exit(1)
	}

	rl.InitWindow(windowWidth, windowHeight, "Energy Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	scaleMax := float32(mesh.MaxEnergy)
	showEnergy := true
	var texture rl.Texture2D
	var shown image.Image
	needsRegen := true

	for !rl.WindowShouldClose() {
		if needsRegen {
			var view *image.RGBA
			if showEnergy {
				view = imageio.EnergyView(nil, c, float64(scaleMax))
			} else {
				view = imageio.ColorView(nil, c)
			}
			shown = imageio.Thumbnail(view, previewSize)
			if texture.ID != 0 {
				rl.UnloadTexture(texture)
			}
			img := rl.NewImageFromImage(shown)
			texture = rl.LoadTextureFromImage(img)
			rl.UnloadImage(img)
			needsRegen = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		b := shown.Bounds()
		rl.DrawTexture(texture, 10, 10, rl.White)
		rl.DrawRectangleLines(10, 10, int32(b.Dx()), int32(b.Dy()), rl.DarkGray)

		mean, std, p10, p50, p90 := telemetry.ComputeEnergyStats(c.Energies())
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Size: %d x %d  Undo depth: %d", c.Width(), c.Height(), c.UndoDepth()), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Mean: %.3f  Std: %.3f", mean, std), 15, statsY+20, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("P10: %.3f  P50: %.3f  P90: %.3f", p10, p50, p90), 15, statsY+40, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Energy View", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		rl.DrawText("Scale max (energy shown as white)", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newScale := gui.SliderBar(
			rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
			"0.1", "5.7",
			scaleMax, 0.1, float32(mesh.MaxEnergy),
		)
		rl.DrawText(fmt.Sprintf("%.2f", scaleMax), int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
		if newScale != scaleMax {
			scaleMax = newScale
			needsRegen = true
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(showEnergy, "Show colors", "Show energy")) {
			showEnergy = !showEnergy
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset scale") {
			scaleMax = float32(mesh.MaxEnergy)
			needsRegen = true
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Carve 10 V") {
			carve(c, mesh.Vertical, 10)
			needsRegen = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Carve 10 H") {
			carve(c, mesh.Horizontal, 10)
			needsRegen = true
		}
		panelY += 40
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 250, Height: 30}, "Undo all") {
			for c.Undo() {
			}
			needsRegen = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := fmt.Sprintf("display:\n  energy_scale_max: %.2f", scaleMax)
		for _, line := range []string{"display:", fmt.Sprintf("  energy_scale_max: %.2f", scaleMax)} {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
	if texture.ID != 0 {
		rl.UnloadTexture(texture)
	}
}

// carve removes up to n seams in dir, stopping early when the image is
// too narrow.
func carve(c *carver.Carver, dir mesh.Direction, n int) {
	for i := 0; i < n; i++ {
		if _, ok := c.RemoveMinimumSeam(dir); !ok {
			return
		}
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
