package viewer

// Viewport maps the carved image onto the window. The image is drawn with
// its top-left corner fixed so carving visibly shrinks it toward the origin.
// Supports pan and zoom clamped to the original image bounds.
type Viewport struct {
	// Center is the image point shown at the middle of the viewport
	X, Y float32

	// Zoom relative to the fit scale (1.0 = whole image fits)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Original image dimensions
	ImageW, ImageH float32

	MinZoom, MaxZoom float32
}

// NewViewport creates a viewport that fits the whole image.
func NewViewport(viewportW, viewportH, imageW, imageH float32) *Viewport {
	return &Viewport{
		X:         imageW / 2,
		Y:         imageH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		ImageW:    imageW,
		ImageH:    imageH,
		MinZoom:   1.0,
		MaxZoom:   16.0,
	}
}

// FitScale is the screen pixels per image pixel at zoom 1.
func (v *Viewport) FitScale() float32 {
	sx := v.ViewportW / v.ImageW
	sy := v.ViewportH / v.ImageH
	if sy < sx {
		return sy
	}
	return sx
}

// Scale is the current screen pixels per image pixel.
func (v *Viewport) Scale() float32 {
	return v.FitScale() * v.Zoom
}

// ImageToScreen converts image coordinates to screen coordinates.
func (v *Viewport) ImageToScreen(ix, iy float32) (sx, sy float32) {
	s := v.Scale()
	return v.ViewportW/2 + (ix-v.X)*s, v.ViewportH/2 + (iy-v.Y)*s
}

// ScreenToImage converts screen coordinates to image coordinates.
func (v *Viewport) ScreenToImage(sx, sy float32) (ix, iy float32) {
	s := v.Scale()
	return v.X + (sx-v.ViewportW/2)/s, v.Y + (sy-v.ViewportH/2)/s
}

// Resize updates viewport dimensions.
func (v *Viewport) Resize(viewportW, viewportH float32) {
	v.ViewportW = viewportW
	v.ViewportH = viewportH
	v.clampCenter()
}

// Pan moves the view by the given delta in screen pixels.
func (v *Viewport) Pan(dx, dy float32) {
	s := v.Scale()
	v.X += dx / s
	v.Y += dy / s
	v.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (v *Viewport) SetZoom(zoom float32) {
	v.Zoom = clamp(zoom, v.MinZoom, v.MaxZoom)
	v.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (v *Viewport) ZoomBy(factor float32) {
	v.SetZoom(v.Zoom * factor)
}

// Reset returns to the fitted view.
func (v *Viewport) Reset() {
	v.X = v.ImageW / 2
	v.Y = v.ImageH / 2
	v.Zoom = 1.0
}

// clampCenter keeps the visible area inside the image where possible. When
// the image is smaller than the view along an axis it stays centered.
func (v *Viewport) clampCenter() {
	s := v.Scale()
	halfW := v.ViewportW / (2 * s)
	halfH := v.ViewportH / (2 * s)
	v.X = clampAxis(v.X, halfW, v.ImageW)
	v.Y = clampAxis(v.Y, halfH, v.ImageH)
}

func clampAxis(c, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(c, half, size-half)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
