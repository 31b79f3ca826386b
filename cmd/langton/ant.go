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

type entity = sim.Entity[ctxC, ctxT]

// Kinds in draw order: grid lines first, marks above them, the ant on top.
const (
	kindGrid sim.Kind = iota
	kindMark
	kindAnt
)

type direction int

const (
	left direction = iota
	up
	right
	down
)

// ant walks the torus flipping tile colors. On a white tile it turns
// clockwise, drops a mark and moves forward; on a marked tile it turns
// counter-clockwise, kills the mark and moves forward. Scope 0: the ant
// only ever sees the tile it stands on.
type ant struct {
	sim.Base[ctxC, ctxT]

	id     sim.ID
	loc    geom.Location
	dim    geom.Dimension
	facing direction
	brood  sim.Offspring[ctxC, ctxT]
}

func newAnt(loc geom.Location, dim geom.Dimension) *ant {
	return &ant{
		id:     sim.NextID(),
		loc:    loc,
		dim:    dim,
		facing: left,
	}
}

func (a *ant) ID() sim.ID { return a.id }

func (a *ant) Kind() sim.Kind { return kindAnt }

func (a *ant) Location() (geom.Location, bool) { return a.loc, true }

func (a *ant) Scope() (geom.Scope, bool) { return 0, true }

func (a *ant) turnRightAndMove() {
	var offset geom.Offset
	switch a.facing {
	case left:
		offset, a.facing = geom.Offset{Y: -1}, up
	case up:
		offset, a.facing = geom.Offset{X: 1}, right
	case right:
		offset, a.facing = geom.Offset{Y: 1}, down
	case down:
		offset, a.facing = geom.Offset{X: -1}, left
	}
	a.loc = a.loc.Translate(offset, a.dim)
}

func (a *ant) turnLeftAndMove() {
	var offset geom.Offset
	switch a.facing {
	case up:
		offset, a.facing = geom.Offset{X: -1}, left
	case right:
		offset, a.facing = geom.Offset{Y: -1}, up
	case down:
		offset, a.facing = geom.Offset{X: 1}, right
	case left:
		offset, a.facing = geom.Offset{Y: 1}, down
	}
	a.loc = a.loc.Translate(offset, a.dim)
}

func (a *ant) React(n *sim.Neighborhood[ctxC, ctxT]) error {
	if n == nil {
		return fmt.Errorf("ant at %v: no neighborhood", a.loc)
	}

	var mark entity
	for _, e := range n.Center().Entities() {
		if e.Kind() == kindMark {
			mark = e
			break
		}
	}

	if mark != nil {
		life := mark.LifespanRef()
		if life == nil {
			return fmt.Errorf("mark at %v cannot be removed", a.loc)
		}
		life.Kill()
		a.turnLeftAndMove()
		return nil
	}

	a.brood.Insert(newMark(a.loc))
	a.turnRightAndMove()
	return nil
}

func (a *ant) Offspring() []entity {
	return a.brood.Drain()
}

func (a *ant) Draw(canvas *render.Canvas, t render.Transform) error {
	canvas.FillTile(a.loc, t, rl.Red)
	return nil
}
