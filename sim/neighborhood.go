package sim

import (
	"iter"

	"github.com/pthm-cable/habitat/geom"
)

// Neighborhood is the ephemeral square window of cells an entity sees during
// one phase of a generation, centered on the entity and with side 2*scope+1.
// It is built fresh for every entity and phase and never persisted.
//
// The window reflects entity positions as of the start of the generation:
// the grid behind it is not touched until every entity has reacted.
type Neighborhood[C, T any] struct {
	env   *Environment[C, T]
	owner ID
	scope geom.Scope
	// row-major window of grid cell indices, top-left corner first
	cells []int
}

// Scope returns the scope the window was built for.
func (n *Neighborhood[C, T]) Scope() geom.Scope {
	return n.scope
}

// Dimension returns the window size, always square with side 2*scope+1.
func (n *Neighborhood[C, T]) Dimension() geom.Dimension {
	side := n.scope.Side()
	return geom.Dimension{Width: side, Height: side}
}

// Tile returns the view of the cell at the given offset from the center of
// the window. The window itself is treated as a torus: out of bounds offsets
// wrap around its edges.
func (n *Neighborhood[C, T]) Tile(offset geom.Offset) TileView[C, T] {
	dim := n.Dimension()
	cell := dim.Center().Translate(offset, dim).Index(dim)
	return TileView[C, T]{env: n.env, owner: n.owner, cell: n.cells[cell]}
}

// Center returns the view of the cell the requesting entity resides in.
func (n *Neighborhood[C, T]) Center() TileView[C, T] {
	return n.Tile(geom.Offset{})
}

// Tiles iterates over the whole window in row-major order.
func (n *Neighborhood[C, T]) Tiles() iter.Seq[TileView[C, T]] {
	return func(yield func(TileView[C, T]) bool) {
		for _, cell := range n.cells {
			if !yield(TileView[C, T]{env: n.env, owner: n.owner, cell: cell}) {
				return
			}
		}
	}
}

// Border returns the ring of cells at exact perimeter distance s from the
// cell at the given offset from the center. Reports false when any cell of
// the ring falls outside the window.
func (n *Neighborhood[C, T]) Border(offset geom.Offset, s geom.Scope) ([]TileView[C, T], bool) {
	dim := n.Dimension()
	loc := geom.Location{
		X: dim.Center().X + offset.X,
		Y: dim.Center().Y + offset.Y,
	}
	for _, corner := range geom.Corners(s) {
		at := geom.Location{X: loc.X + corner.X, Y: loc.Y + corner.Y}
		if !dim.Contains(at) {
			return nil, false
		}
	}

	ring := make([]TileView[C, T], 0, s.Perimeter())
	for _, delta := range geom.Border(s) {
		ring = append(ring, n.Tile(offset.Add(delta)))
	}
	return ring, true
}

// TileView is a single cell of the grid as seen by one entity through its
// neighborhood.
type TileView[C, T any] struct {
	env   *Environment[C, T]
	owner ID
	cell  int
}

// Location returns the grid coordinate of the viewed cell.
func (v TileView[C, T]) Location() geom.Location {
	return v.env.dim.Location(v.cell)
}

// Entities returns the entities registered in this cell, excluding the
// entity the view was built for. The order is arbitrary.
func (v TileView[C, T]) Entities() []Entity[C, T] {
	ids := v.env.grid.at(v.cell)
	if len(ids) == 0 {
		return nil
	}
	entities := make([]Entity[C, T], 0, len(ids))
	for id := range ids {
		if id == v.owner {
			continue
		}
		if e, ok := v.env.arena[id]; ok {
			entities = append(entities, e)
		}
	}
	return entities
}

// Count returns the number of entities registered in this cell, including
// the entity the view was built for.
func (v TileView[C, T]) Count() int {
	return len(v.env.grid.at(v.cell))
}

// Empty reports whether no entity is registered in this cell.
func (v TileView[C, T]) Empty() bool {
	return v.Count() == 0
}
