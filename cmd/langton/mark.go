package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/geom"
	"github.com/pthm-cable/habitat/render"
	"github.com/pthm-cable/habitat/sim"
)

// mark is a flipped tile. It has no scope and no behavior; it lives until
// the ant walks over it again and clears its lifespan.
type mark struct {
	sim.Base[ctxC, ctxT]

	id   sim.ID
	loc  geom.Location
	life sim.Lifespan
}

func newMark(loc geom.Location) *mark {
	return &mark{
		id:   sim.NextID(),
		loc:  loc,
		life: sim.Immortal(),
	}
}

func (m *mark) ID() sim.ID { return m.id }

func (m *mark) Kind() sim.Kind { return kindMark }

func (m *mark) Location() (geom.Location, bool) { return m.loc, true }

func (m *mark) Lifespan() (sim.Lifespan, bool) { return m.life, true }

func (m *mark) LifespanRef() *sim.Lifespan { return &m.life }

func (m *mark) Draw(canvas *render.Canvas, t render.Transform) error {
	canvas.FillTile(m.loc, t, rl.DarkGray)
	return nil
}

// gridLines is a locationless entity that draws the tile boundaries under
// everything else.
type gridLines struct {
	sim.Base[ctxC, ctxT]

	id  sim.ID
	dim geom.Dimension
}

func newGridLines(dim geom.Dimension) *gridLines {
	return &gridLines{id: sim.NextID(), dim: dim}
}

func (g *gridLines) ID() sim.ID { return g.id }

func (g *gridLines) Kind() sim.Kind { return kindGrid }

func (g *gridLines) Draw(canvas *render.Canvas, t render.Transform) error {
	canvas.GridLines(g.dim, t, rl.LightGray)
	return nil
}
