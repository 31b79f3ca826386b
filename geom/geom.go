// Package geom provides the integer geometry of a toroidal grid: cell
// locations, relative offsets, grid dimensions and scopes of influence.
// All coordinate arithmetic wraps around the grid edges, so any raw offset,
// however large or negative, resolves to a valid cell.
package geom

// Location identifies a single cell of the grid as a pair of column (X) and
// row (Y) coordinates.
type Location struct {
	X, Y int
}

// Offset is a relative displacement between two locations.
type Offset struct {
	X, Y int
}

// Dimension is the size of a grid as number of columns and rows.
type Dimension struct {
	Width, Height int
}

// Scope is the radius, in cells, of an entity's visibility and influence.
// A scope of 0 covers only the cell the entity resides in, a scope of 1 also
// covers the 8 surrounding cells, and so on.
type Scope int

// wrap maps v into [0, m) with euclidean remainder semantics.
func wrap(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}

// Translate returns the location reached by moving from l by the given
// offset on a torus of the given dimension.
func (l Location) Translate(o Offset, d Dimension) Location {
	return Location{
		X: wrap(l.X+o.X, d.Width),
		Y: wrap(l.Y+o.Y, d.Height),
	}
}

// Index maps the location to its row-major position in a linearized grid of
// the given dimension. The location must lie within the dimension.
func (l Location) Index(d Dimension) int {
	return l.Y*d.Width + l.X
}

// Add returns the component-wise sum of two offsets.
func (o Offset) Add(other Offset) Offset {
	return Offset{X: o.X + other.X, Y: o.Y + other.Y}
}

// Corners returns the offsets of the 4 corners of the square of given scope
// centered on the origin.
func Corners(s Scope) [4]Offset {
	m := int(s)
	return [4]Offset{
		{X: -m, Y: -m},
		{X: m, Y: -m},
		{X: -m, Y: m},
		{X: m, Y: m},
	}
}

// Border returns the offsets of the ring of cells at exact Chebyshev
// distance s from the origin, in row-major order. For a scope of 0 the ring
// degenerates to the origin itself.
func Border(s Scope) []Offset {
	m := int(s)
	if m == 0 {
		return []Offset{{}}
	}
	ring := make([]Offset, 0, s.Perimeter())
	for x := -m; x <= m; x++ {
		ring = append(ring, Offset{X: x, Y: -m})
	}
	for y := -m + 1; y <= m-1; y++ {
		ring = append(ring, Offset{X: -m, Y: y}, Offset{X: m, Y: y})
	}
	for x := -m; x <= m; x++ {
		ring = append(ring, Offset{X: x, Y: m})
	}
	return ring
}

// Len returns the number of cells in a grid of this dimension.
func (d Dimension) Len() int {
	return d.Width * d.Height
}

// Contains reports whether the given location lies within the dimension.
func (d Dimension) Contains(l Location) bool {
	return l.X >= 0 && l.X < d.Width && l.Y >= 0 && l.Y < d.Height
}

// Center returns the central location of a grid of this dimension, rounded
// towards the origin for even sizes.
func (d Dimension) Center() Location {
	return Location{X: d.Width / 2, Y: d.Height / 2}
}

// Location returns the location whose row-major index is i in a grid of this
// dimension.
func (d Dimension) Location(i int) Location {
	return Location{X: i % d.Width, Y: i / d.Width}
}

// SplitRect factors n into the most square grid of rectangles, preferring
// width over height. Used to partition a grid into n macro-tiles.
func SplitRect(n int) Dimension {
	if n < 1 {
		return Dimension{}
	}
	f := 1
	for c := 1; c*c <= n; c++ {
		if n%c == 0 {
			f = c
		}
	}
	return Dimension{Width: n / f, Height: f}
}

// Side returns the side length of the square window covered by the scope.
func (s Scope) Side() int {
	return 2*int(s) + 1
}

// Area returns the number of cells in the window covered by the scope.
func (s Scope) Area() int {
	side := s.Side()
	return side * side
}

// Perimeter returns the number of cells in the ring at exact distance s from
// its center.
func (s Scope) Perimeter() int {
	if s == 0 {
		return 1
	}
	return 8 * int(s)
}
