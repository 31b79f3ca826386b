package main

import (
	"math/cmplx"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/geom"
	"github.com/pthm-cable/habitat/render"
	"github.com/pthm-cable/habitat/sim"
)

type (
	ctxC = *render.Canvas
	ctxT = render.Transform
)

const kindPixel sim.Kind = 0

// escapeTimeLimit bounds the iterations spent deciding set membership.
const escapeTimeLimit = 100

// plane is the region of the complex plane currently mapped onto the world.
type plane struct {
	topLeft     complex128
	bottomRight complex128
}

func defaultPlane() plane {
	return plane{
		topLeft:     complex(-2.5, -1.5),
		bottomRight: complex(1.0, 1.5),
	}
}

func (p plane) width() float64 { return real(p.bottomRight) - real(p.topLeft) }

func (p plane) height() float64 { return imag(p.bottomRight) - imag(p.topLeft) }

// pointAt maps a grid location to its point on the plane.
func (p plane) pointAt(loc geom.Location, dim geom.Dimension) complex128 {
	re := real(p.topLeft) + float64(loc.X)*p.width()/float64(dim.Width)
	im := imag(p.topLeft) + float64(loc.Y)*p.height()/float64(dim.Height)
	return complex(re, im)
}

// zoom shrinks the plane around its center by the given factor.
func (p plane) zoom(factor float64) plane {
	center := complex(
		real(p.topLeft)+p.width()/2,
		imag(p.topLeft)+p.height()/2,
	)
	half := complex(p.width()*factor/2, p.height()*factor/2)
	return plane{
		topLeft:     center - half,
		bottomRight: center + half,
	}
}

// escapeTime reports how many iterations it took for the point to leave the
// circle of radius two, or false when the iteration limit was reached
// without escape, in which case the point is assumed to belong to the set.
func escapeTime(point complex128, limit int) (int, bool) {
	z := complex(0, 0)
	for i := 0; i < limit; i++ {
		z = z*z + point
		if cmplx.Abs(z) > 2 {
			return i, true
		}
	}
	return 0, false
}

// pixel covers a single tile and colors it by the escape time of its point.
// Pixels have a location but no scope: they never look at each other, so
// every generation is a pure per-tile recomputation and parallel lanes can
// chew through the grid without coordination.
type pixel struct {
	sim.Base[ctxC, ctxT]

	id    sim.ID
	loc   geom.Location
	dim   geom.Dimension
	view  *plane
	value uint8
}

func newPixel(loc geom.Location, dim geom.Dimension, view *plane) *pixel {
	return &pixel{
		id:   sim.NextID(),
		loc:  loc,
		dim:  dim,
		view: view,
	}
}

func (p *pixel) ID() sim.ID { return p.id }

func (p *pixel) Kind() sim.Kind { return kindPixel }

func (p *pixel) Location() (geom.Location, bool) { return p.loc, true }

func (p *pixel) React(*sim.Neighborhood[ctxC, ctxT]) error {
	point := p.view.pointAt(p.loc, p.dim)
	if time, escaped := escapeTime(point, escapeTimeLimit); escaped {
		step := float64(^uint8(0)) / float64(escapeTimeLimit)
		p.value = ^uint8(0) - uint8(float64(time)*step)
	} else {
		p.value = 0
	}
	return nil
}

func (p *pixel) Draw(canvas *render.Canvas, t render.Transform) error {
	v := uint32(p.value)
	canvas.FillTile(p.loc, t, rl.Color{
		R: uint8(v * 15),
		G: uint8(v * 10),
		B: uint8(v * 5),
		A: 255,
	})
	return nil
}
