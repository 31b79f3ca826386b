// Package camera provides pan and zoom over the windowed world viewport.
package camera

import (
	"math"

	"github.com/pthm-cable/habitat/render"
)

// Camera controls which part of the world grid is visible. Positions are
// in world pixels; the center wraps around the torus when panning past an
// edge.
type Camera struct {
	// X, Y is the camera center in world pixels
	X, Y float32

	// Zoom level (1.0 = one world pixel per screen pixel)
	Zoom float32

	ViewportW, ViewportH float32
	WorldW, WorldH       float32

	MinZoom, MaxZoom float32
}

// New creates a camera centered on the world with 1:1 zoom. The minimum
// zoom keeps the visible area within the world bounds.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	minZoom := viewportW / worldW
	if z := viewportH / worldH; z > minZoom {
		minZoom = z
	}

	return &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MinZoom:   minZoom,
		MaxZoom:   8.0,
	}
}

// View returns the draw transform that places the camera center in the
// middle of the viewport at the current zoom.
func (c *Camera) View() render.Transform {
	return render.Transform{
		OffsetX: int32(c.ViewportW/2 - c.X*c.Zoom),
		OffsetY: int32(c.ViewportH/2 - c.Y*c.Zoom),
		Scale:   c.Zoom,
	}
}

// Pan moves the camera by the given delta in screen pixels, wrapping
// around the world edges.
func (c *Camera) Pan(dx, dy float32) {
	c.X = mod(c.X+dx/c.Zoom, c.WorldW)
	c.Y = mod(c.Y+dy/c.Zoom, c.WorldH)
}

// SetZoom sets the zoom level, clamped to the allowed range.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the world center at 1:1 zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1.0
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
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
