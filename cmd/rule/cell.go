package main

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/geom"
	"github.com/pthm-cable/habitat/render"
	"github.com/pthm-cable/habitat/script"
	"github.com/pthm-cable/habitat/sim"
)

type (
	ctxC = *render.Canvas
	ctxT = render.Transform
)

type entity = sim.Entity[ctxC, ctxT]

const kindCell sim.Kind = 0

// cell is one tile of the elementary automaton. Each generation the active
// row computes its successor and paints it one row below via offspring,
// then freezes; frozen cells only age out. A cell lives one generation
// short of a full loop around the torus, so each row expires right before
// the paint head comes around again.
type cell struct {
	sim.Base[ctxC, ctxT]

	id     sim.ID
	loc    geom.Location
	dim    geom.Dimension
	life   sim.Lifespan
	alive  bool
	frozen bool
	age    uint64
	rule   *script.RowRule
	brood  sim.Offspring[ctxC, ctxT]
}

func newRowCell(loc geom.Location, dim geom.Dimension, alive bool, rule *script.RowRule) *cell {
	return &cell{
		id:    sim.NextID(),
		loc:   loc,
		dim:   dim,
		life:  sim.Mortal(uint64(dim.Height) - 1),
		alive: alive,
		rule:  rule.Clone(),
	}
}

func (c *cell) ID() sim.ID { return c.id }

func (c *cell) Kind() sim.Kind { return kindCell }

func (c *cell) Location() (geom.Location, bool) { return c.loc, true }

func (c *cell) Scope() (geom.Scope, bool) { return 1, true }

func (c *cell) Lifespan() (sim.Lifespan, bool) { return c.life, true }

func (c *cell) LifespanRef() *sim.Lifespan { return &c.life }

// State exposes the cell liveness to its row neighbors. It never changes
// after construction.
func (c *cell) State() any { return c.alive }

// sideState reads the liveness of the single cell expected in the tile at
// the given offset.
func sideState(n *sim.Neighborhood[ctxC, ctxT], off geom.Offset) (bool, error) {
	entities := n.Tile(off).Entities()
	if len(entities) != 1 {
		return false, fmt.Errorf("expected one cell at offset %v, found %d", off, len(entities))
	}
	alive, ok := entities[0].State().(bool)
	if !ok {
		return false, fmt.Errorf("foreign entity at offset %v", off)
	}
	return alive, nil
}

func (c *cell) React(n *sim.Neighborhood[ctxC, ctxT]) error {
	c.life.Shorten()

	if c.frozen {
		if !c.alive {
			// dead frozen cells have nothing left to show
			c.life.Kill()
		}
		return nil
	}

	if n == nil {
		return fmt.Errorf("cell at %v: world too small for its window", c.loc)
	}

	left, err := sideState(n, geom.Offset{X: -1})
	if err != nil {
		return err
	}
	right, err := sideState(n, geom.Offset{X: 1})
	if err != nil {
		return err
	}
	next, err := c.rule.Next(left, c.alive, right)
	if err != nil {
		return err
	}

	below := c.loc.Translate(geom.Offset{Y: 1}, c.dim)
	child := newRowCell(below, c.dim, next, c.rule)
	if next {
		child.age = c.age + 1
	}
	c.brood.Insert(child)
	c.frozen = true

	return nil
}

func (c *cell) Offspring() []entity {
	return c.brood.Drain()
}

func (c *cell) Draw(canvas *render.Canvas, t render.Transform) error {
	if !c.alive {
		return nil
	}
	hue := float32(c.age%90) * 4
	canvas.FillTile(c.loc, t, rl.ColorFromHSV(hue, 0.6, 0.9))
	return nil
}
