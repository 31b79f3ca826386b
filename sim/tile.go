package sim

import "github.com/pthm-cable/habitat/geom"

// grid maps torus coordinates to the IDs of the entities currently
// registered there. It stores plain IDs, never entity values: the population
// map owns the entities, the grid is derived bookkeeping rebuilt
// incrementally as entities move.
type grid struct {
	cells []map[ID]struct{}
	dim   geom.Dimension
}

func newGrid(dim geom.Dimension) *grid {
	return &grid{
		cells: make([]map[ID]struct{}, dim.Len()),
		dim:   dim,
	}
}

// insert registers the entity ID at the given location.
func (g *grid) insert(id ID, loc geom.Location) {
	i := loc.Index(g.dim)
	if g.cells[i] == nil {
		g.cells[i] = make(map[ID]struct{}, 1)
	}
	g.cells[i][id] = struct{}{}
}

// remove unregisters the entity ID from the given location.
func (g *grid) remove(id ID, loc geom.Location) {
	delete(g.cells[loc.Index(g.dim)], id)
}

// move re-registers the entity ID from one location to another.
func (g *grid) move(id ID, from, to geom.Location) {
	i := from.Index(g.dim)
	if _, ok := g.cells[i][id]; !ok {
		return
	}
	delete(g.cells[i], id)
	g.insert(id, to)
}

// at returns the ID set registered at the given cell index, possibly nil.
func (g *grid) at(cell int) map[ID]struct{} {
	return g.cells[cell]
}
