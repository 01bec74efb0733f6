package imageio

import (
	"image"
	"image/color"
	"math"

	"github.com/pthm-cable/carve/carver"
	"github.com/pthm-cable/carve/mesh"
)

// View selects what a rendered frame shows.
type View uint8

const (
	ViewColor View = iota
	ViewEnergy
	ViewWeights
)

func (v View) String() string {
	switch v {
	case ViewColor:
		return "color"
	case ViewEnergy:
		return "energy"
	case ViewWeights:
		return "weights"
	default:
		return "unknown"
	}
}

// Render draws view v of c into dst, reallocating when dst is nil or the
// wrong size. scaleMax applies to ViewEnergy.
func Render(dst *image.RGBA, c *carver.Carver, v View, scaleMax float64) *image.RGBA {
	switch v {
	case ViewEnergy:
		return EnergyView(dst, c, scaleMax)
	case ViewWeights:
		return WeightView(dst, c)
	default:
		return ColorView(dst, c)
	}
}

func sized(dst *image.RGBA, w, h int) *image.RGBA {
	if dst == nil || dst.Rect.Dx() != w || dst.Rect.Dy() != h {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return dst
}

// ColorView draws the display colors of the live image, highlights included.
func ColorView(dst *image.RGBA, c *carver.Carver) *image.RGBA {
	g := c.Grid()
	dst = sized(dst, g.Width(), g.Height())
	g.Walk(func(x, y int, id mesh.NodeID) {
		dst.SetRGBA(x, y, g.DisplayColor(id))
	})
	return dst
}

// EnergyView draws each cell's energy as gray, with scaleMax mapped to
// white. A non-positive scaleMax uses mesh.MaxEnergy.
func EnergyView(dst *image.RGBA, c *carver.Carver, scaleMax float64) *image.RGBA {
	if scaleMax <= 0 {
		scaleMax = mesh.MaxEnergy
	}
	g := c.Grid()
	dst = sized(dst, g.Width(), g.Height())
	g.Walk(func(x, y int, id mesh.NodeID) {
		dst.SetRGBA(x, y, grayLevel(g.CachedEnergy(id)/scaleMax))
	})
	return dst
}

// WeightView draws the cumulative vertical seam weights, normalized by the
// largest weight in the table. A grid too narrow for a vertical seam
// renders black.
func WeightView(dst *image.RGBA, c *carver.Carver) *image.RGBA {
	dst = sized(dst, c.Width(), c.Height())
	t := c.SeamTable(mesh.Vertical)
	if t.Empty() {
		for i := range dst.Pix {
			dst.Pix[i] = 0
			if i%4 == 3 {
				dst.Pix[i] = 0xff
			}
		}
		return dst
	}
	maxW := t.MaxWeight()
	for y := 0; y < t.Len(); y++ {
		for _, s := range t.Row(y) {
			frac := 0.0
			if maxW > 0 {
				frac = s.Weight / maxW
			}
			dst.SetRGBA(s.Pos, y, grayLevel(frac))
		}
	}
	return dst
}

func grayLevel(frac float64) color.RGBA {
	v := uint8(math.Round(math.Max(0, math.Min(1, frac)) * 255))
	return color.RGBA{v, v, v, 0xff}
}
