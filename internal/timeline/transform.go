// Package timeline maps between timeline pixels and media time under a zoom
// and pan transform.
package timeline

import "math"

const (
	ZoomFactor = 1.2
	MinScale   = 1.0
)

// Transform is the zoom (Scale) and horizontal pan in pixels (Offset) applied
// to a timeline.
type Transform struct {
	Scale  float64 `json:"scale"`
	Offset float64 `json:"offset"`
}

// Viewport is the visible timeline width and the media duration it spans at
// scale 1.
type Viewport struct {
	WidthPx    float64 `json:"width_px"`
	DurationMS float64 `json:"duration_ms"`
}

func Identity() Transform {
	return Transform{Scale: MinScale}
}

func (vp Viewport) worldWidth(scale float64) float64 {
	return vp.WidthPx * scale
}

func (vp Viewport) clampOffset(offset, scale float64) float64 {
	maxOffset := math.Max(0, vp.worldWidth(scale)-vp.WidthPx)
	return math.Min(math.Max(offset, 0), maxOffset)
}

// TimeAt returns the media time in milliseconds under mouseX.
func TimeAt(t Transform, vp Viewport, mouseX float64) float64 {
	world := vp.worldWidth(t.Scale)
	if world <= 0 {
		return 0
	}
	return (mouseX + t.Offset) / world * vp.DurationMS
}

// PixelAt is the inverse of TimeAt.
func PixelAt(t Transform, vp Viewport, timeMS float64) float64 {
	if vp.DurationMS <= 0 {
		return -t.Offset
	}
	return timeMS/vp.DurationMS*vp.worldWidth(t.Scale) - t.Offset
}

// Wheel zooms one step around mouseX so the time under the cursor stays put.
// Negative deltaY zooms in, positive zooms out and zero keeps the scale.
func Wheel(t Transform, vp Viewport, mouseX, deltaY float64) Transform {
	world := vp.worldWidth(t.Scale)
	fraction := 0.0
	if world > 0 {
		fraction = (t.Offset + mouseX) / world
	}

	scale := t.Scale
	switch {
	case deltaY < 0:
		scale *= ZoomFactor
	case deltaY > 0:
		scale /= ZoomFactor
	}
	scale = math.Max(scale, MinScale)

	offset := fraction*vp.worldWidth(scale) - mouseX
	return Transform{Scale: scale, Offset: vp.clampOffset(offset, scale)}
}

// Pan moves the offset opposite to the drag from startX to currentX, relative
// to the transform at drag start.
func Pan(start Transform, vp Viewport, startX, currentX float64) Transform {
	offset := start.Offset - (currentX - startX)
	return Transform{Scale: start.Scale, Offset: vp.clampOffset(offset, start.Scale)}
}
