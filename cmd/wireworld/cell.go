package main

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/geom"
	"github.com/pthm-cable/habitat/render"
	"github.com/pthm-cable/habitat/sim"
)

type (
	ctxC = *render.Canvas
	ctxT = render.Transform
)

const kindCell sim.Kind = 0

// wireState enumerates the electron states a wire cell can be in. Empty
// tiles carry no cell at all, so there is no explicit empty state.
type wireState int

const (
	conductor wireState = iota
	electronHead
	electronTail
)

func (s wireState) color() rl.Color {
	switch s {
	case electronHead:
		return rl.Blue
	case electronTail:
		return rl.Red
	default:
		return rl.Yellow
	}
}

// cell is one tile of wire. Heads decay to tails, tails cool back down to
// conductors, and a conductor charges into a head when exactly one or two
// of its eight neighbors are heads. The transition is computed against the
// start-of-generation snapshot during the observe phase and committed in
// the react phase, so cells never see a half-stepped circuit.
type cell struct {
	sim.Base[ctxC, ctxT]

	id    sim.ID
	loc   geom.Location
	state wireState
	next  wireState
}

func newCell(loc geom.Location, state wireState) *cell {
	return &cell{
		id:    sim.NextID(),
		loc:   loc,
		state: state,
		next:  state,
	}
}

func (c *cell) ID() sim.ID { return c.id }

func (c *cell) Kind() sim.Kind { return kindCell }

func (c *cell) Location() (geom.Location, bool) { return c.loc, true }

func (c *cell) Scope() (geom.Scope, bool) { return 1, true }

// State exposes the current electron state to neighboring cells. It only
// changes between generations.
func (c *cell) State() any { return c.state }

func (c *cell) Observe(n *sim.Neighborhood[ctxC, ctxT]) error {
	switch c.state {
	case electronHead:
		c.next = electronTail
	case electronTail:
		c.next = conductor
	case conductor:
		if n == nil {
			return fmt.Errorf("cell at %v: world too small for its window", c.loc)
		}
		ring, ok := n.Border(geom.Offset{}, 1)
		if !ok {
			return fmt.Errorf("cell at %v: ring out of window", c.loc)
		}
		heads := 0
		for _, tile := range ring {
			for _, e := range tile.Entities() {
				if state, ok := e.State().(wireState); ok && state == electronHead {
					heads++
				}
			}
		}
		if heads == 1 || heads == 2 {
			c.next = electronHead
		} else {
			c.next = conductor
		}
	}
	return nil
}

func (c *cell) React(*sim.Neighborhood[ctxC, ctxT]) error {
	c.state = c.next
	return nil
}

func (c *cell) Draw(canvas *render.Canvas, t render.Transform) error {
	canvas.FillTile(c.loc, t, c.state.color())
	return nil
}
