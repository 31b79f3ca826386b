// Package render draws tile worlds with raylib. The simulation engine is
// agnostic to both types here; demos pass Canvas and Transform through as
// the opaque draw collaborators.
package render

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/geom"
)

// Transform maps grid coordinates to screen pixels.
type Transform struct {
	OffsetX int32
	OffsetY int32
	Scale   float32
}

// Identity returns the transform that leaves tiles at their natural
// pixel positions.
func Identity() Transform {
	return Transform{Scale: 1}
}

// Canvas draws grid tiles at a fixed side length in pixels.
type Canvas struct {
	cellSide int32
}

// NewCanvas returns a canvas drawing tiles of the given side length.
func NewCanvas(cellSide int) *Canvas {
	if cellSide < 1 {
		cellSide = 1
	}
	return &Canvas{cellSide: int32(cellSide)}
}

// CellSide returns the tile side length in pixels.
func (c *Canvas) CellSide() int32 {
	return c.cellSide
}

func (c *Canvas) tileRect(loc geom.Location, t Transform) (x, y, side int32) {
	scale := t.Scale
	if scale <= 0 {
		scale = 1
	}
	side = int32(float32(c.cellSide) * scale)
	if side < 1 {
		side = 1
	}
	x = t.OffsetX + int32(float32(loc.X)*float32(c.cellSide)*scale)
	y = t.OffsetY + int32(float32(loc.Y)*float32(c.cellSide)*scale)
	return x, y, side
}

// FillTile paints the tile at loc with the given color.
func (c *Canvas) FillTile(loc geom.Location, t Transform, color rl.Color) {
	x, y, side := c.tileRect(loc, t)
	rl.DrawRectangle(x, y, side, side, color)
}

// OutlineTile strokes the tile border at loc with the given color.
func (c *Canvas) OutlineTile(loc geom.Location, t Transform, color rl.Color) {
	x, y, side := c.tileRect(loc, t)
	rl.DrawRectangleLines(x, y, side, side, color)
}

// GridLines strokes the tile boundaries of the whole world grid.
func (c *Canvas) GridLines(dim geom.Dimension, t Transform, color rl.Color) {
	_, _, side := c.tileRect(geom.Location{}, t)
	w := int32(dim.Width) * side
	h := int32(dim.Height) * side
	for x := int32(0); x <= int32(dim.Width); x++ {
		rl.DrawLine(t.OffsetX+x*side, t.OffsetY, t.OffsetX+x*side, t.OffsetY+h, color)
	}
	for y := int32(0); y <= int32(dim.Height); y++ {
		rl.DrawLine(t.OffsetX, t.OffsetY+y*side, t.OffsetX+w, t.OffsetY+y*side, color)
	}
}

// Window owns the raylib window for a grid world.
type Window struct {
	canvas *Canvas
}

// OpenWindow initializes a raylib window sized to the world grid.
func OpenWindow(title string, dim geom.Dimension, cellSide, targetFPS int) *Window {
	c := NewCanvas(cellSide)
	rl.InitWindow(int32(dim.Width)*c.cellSide, int32(dim.Height)*c.cellSide, title)
	rl.SetTargetFPS(int32(targetFPS))
	return &Window{canvas: c}
}

// Canvas returns the window's drawing canvas.
func (w *Window) Canvas() *Canvas {
	return w.canvas
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return rl.WindowShouldClose()
}

// Frame clears the screen and runs draw between raylib's begin and end
// drawing calls.
func (w *Window) Frame(draw func()) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	draw()
	rl.EndDrawing()
}

// Close tears the raylib window down.
func (w *Window) Close() {
	rl.CloseWindow()
}
