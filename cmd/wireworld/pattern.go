package main

import "github.com/pthm-cable/habitat/geom"

type seedCell struct {
	loc   geom.Location
	state wireState
}

// clockPattern lays out the double clock: two electron loops of different
// period feeding a shared output wire, centered on the world.
func clockPattern(dim geom.Dimension) []seedCell {
	var offsets []geom.Offset

	for _, y := range []int{-1, 1} {
		for x := 0; x < 4; x++ {
			offsets = append(offsets, geom.Offset{X: x, Y: y})
		}
	}
	for x := 3; x < 14; x++ {
		offsets = append(offsets, geom.Offset{X: x})
	}
	offsets = append(offsets, geom.Offset{X: 1, Y: -2}, geom.Offset{X: 1, Y: 2})
	for _, y := range []int{-3, 3} {
		for x := -5; x < 1; x++ {
			offsets = append(offsets, geom.Offset{X: x, Y: y})
		}
	}
	for _, y := range []int{-4, -2, 2, 4} {
		for x := -13; x < -5; x++ {
			offsets = append(offsets, geom.Offset{X: x, Y: y})
		}
	}
	offsets = append(offsets, geom.Offset{X: -14, Y: -3}, geom.Offset{X: -14, Y: 3})

	origin := dim.Center()
	cells := make([]seedCell, 0, len(offsets)+1)
	cells = append(cells, seedCell{loc: origin, state: conductor})
	for _, delta := range offsets {
		state := conductor
		switch delta {
		case geom.Offset{X: -7, Y: -2}, geom.Offset{X: -8, Y: 2}:
			state = electronTail
		case geom.Offset{X: -8, Y: -2}, geom.Offset{X: -9, Y: 2}:
			state = electronHead
		}
		cells = append(cells, seedCell{loc: origin.Translate(delta, dim), state: state})
	}
	return cells
}
