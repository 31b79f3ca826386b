package main

import (
	"fmt"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/geom"
	"github.com/pthm-cable/habitat/render"
	"github.com/pthm-cable/habitat/script"
	"github.com/pthm-cable/habitat/sim"
)

// The demos draw through a raylib canvas with a pixel transform.
type (
	ctxC = *render.Canvas
	ctxT = render.Transform
)

type entity = sim.Entity[ctxC, ctxT]

const kindCell sim.Kind = 0

// world is the state shared by every cell of one run: the per-generation
// claim set that keeps two parallel cells from spawning into the same dead
// tile, and the birth and death tallies the census reads between steps.
type world struct {
	mu      sync.Mutex
	claimed map[int]struct{}
	births  int
	deaths  int
}

func newWorld() *world {
	return &world{claimed: make(map[int]struct{})}
}

// claim reserves a tile index for the calling cell. Only the first caller
// per generation gets true.
func (w *world) claim(idx int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, taken := w.claimed[idx]; taken {
		return false
	}
	w.claimed[idx] = struct{}{}
	return true
}

func (w *world) addBirth() {
	w.mu.Lock()
	w.births++
	w.mu.Unlock()
}

func (w *world) addDeath() {
	w.mu.Lock()
	w.deaths++
	w.mu.Unlock()
}

// flush returns and clears the per-generation tallies and claims.
func (w *world) flush() (births, deaths int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	births, deaths = w.births, w.deaths
	w.births, w.deaths = 0, 0
	w.claimed = make(map[int]struct{})
	return births, deaths
}

// cell is a live cell of the automaton. Dead cells are not represented;
// scope 2 lets a live cell inspect the neighbors of its adjacent dead
// tiles and spawn into any that should come alive.
type cell struct {
	sim.Base[ctxC, ctxT]

	id    sim.ID
	loc   geom.Location
	dim   geom.Dimension
	life  sim.Lifespan
	world *world
	rule  *script.CellRule
	brood sim.Offspring[ctxC, ctxT]
}

func newCell(loc geom.Location, dim geom.Dimension, w *world, rule *script.CellRule) *cell {
	c := &cell{
		id:    sim.NextID(),
		loc:   loc,
		dim:   dim,
		life:  sim.Immortal(),
		world: w,
	}
	if rule != nil {
		c.rule = rule.Clone()
	}
	return c
}

func (c *cell) ID() sim.ID { return c.id }

func (c *cell) Kind() sim.Kind { return kindCell }

func (c *cell) Location() (geom.Location, bool) { return c.loc, true }

func (c *cell) Scope() (geom.Scope, bool) { return 2, true }

func (c *cell) Lifespan() (sim.Lifespan, bool) { return c.life, true }

func (c *cell) LifespanRef() *sim.Lifespan { return &c.life }

// next decides the fate of a tile from its liveness and live neighbor
// count, via the scripted rule when one is loaded.
func (c *cell) next(alive bool, neighbors int) (bool, error) {
	if c.rule != nil {
		return c.rule.Next(alive, neighbors)
	}
	if alive {
		return neighbors == 2 || neighbors == 3, nil
	}
	return neighbors == 3, nil
}

func (c *cell) React(n *sim.Neighborhood[ctxC, ctxT]) error {
	if n == nil {
		return fmt.Errorf("cell at %v: world too small for its window", c.loc)
	}

	// survival: count the live cells in the immediate ring
	ring, ok := n.Border(geom.Offset{}, 1)
	if !ok {
		return fmt.Errorf("cell at %v: ring out of window", c.loc)
	}
	neighbors := 0
	for _, tile := range ring {
		neighbors += tile.Count()
	}
	alive, err := c.next(true, neighbors)
	if err != nil {
		return err
	}
	if !alive {
		c.life.Kill()
		c.world.addDeath()
	}

	// birth: every adjacent dead tile with the right neighbor count
	// comes alive, spawned by whichever live cell claims it first
	for _, off := range geom.Border(1) {
		tile := n.Tile(off)
		if !tile.Empty() {
			continue
		}
		loc := c.loc.Translate(off, c.dim)
		if !c.world.claim(loc.Index(c.dim)) {
			continue
		}
		ring, ok := n.Border(off, 1)
		if !ok {
			continue
		}
		count := 0
		for _, t := range ring {
			count += t.Count()
		}
		born, err := c.next(false, count)
		if err != nil {
			return err
		}
		if born {
			c.brood.Insert(newCell(loc, c.dim, c.world, c.rule))
			c.world.addBirth()
		}
	}
	return nil
}

func (c *cell) Offspring() []entity {
	return c.brood.Drain()
}

func (c *cell) Draw(canvas *render.Canvas, t render.Transform) error {
	canvas.FillTile(c.loc, t, rl.Lime)
	return nil
}
