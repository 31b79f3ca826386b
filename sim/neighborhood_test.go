package sim

import (
	"testing"

	"github.com/pthm-cable/habitat/geom"
)

// buildNeighborhood steps a single scope-2 probe on a 7x7 grid and captures
// the neighborhood it receives during observe.
func buildNeighborhood(t *testing.T, env *Environment[nothing, nothing], center geom.Location) *Neighborhood[nothing, nothing] {
	t.Helper()
	var captured *Neighborhood[nothing, nothing]
	p := newProbe(center, 2)
	p.onObserve = func(_ *probe, n *Neighborhood[nothing, nothing]) error {
		captured = n
		return nil
	}
	env.Insert(p)
	if _, err := env.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if captured == nil {
		t.Fatal("no neighborhood captured")
	}
	return captured
}

func TestNeighborhoodTileLookup(t *testing.T) {
	dim := geom.Dimension{Width: 7, Height: 7}
	env := New[nothing, nothing](dim)
	center := geom.Location{X: 1, Y: 1}
	n := buildNeighborhood(t, env, center)

	tests := []struct {
		off  geom.Offset
		want geom.Location
	}{
		{geom.Offset{}, center},
		{geom.Offset{X: 1}, geom.Location{X: 2, Y: 1}},
		{geom.Offset{X: -2, Y: -2}, geom.Location{X: 6, Y: 6}}, // grid torus wrap
		{geom.Offset{X: 3}, geom.Location{X: 6, Y: 1}},         // window torus wrap
	}
	for _, tt := range tests {
		if got := n.Tile(tt.off).Location(); got != tt.want {
			t.Errorf("Tile(%v).Location() = %v, want %v", tt.off, got, tt.want)
		}
	}
	if got := n.Center().Location(); got != center {
		t.Errorf("Center().Location() = %v, want %v", got, center)
	}
}

func TestNeighborhoodBorder(t *testing.T) {
	dim := geom.Dimension{Width: 9, Height: 9}
	env := New[nothing, nothing](dim)
	center := geom.Location{X: 4, Y: 4}
	n := buildNeighborhood(t, env, center)

	ring, ok := n.Border(geom.Offset{}, 2)
	if !ok {
		t.Fatal("scope 2 ring around the center must be available")
	}
	if len(ring) != geom.Scope(2).Perimeter() {
		t.Fatalf("ring size %d, want %d", len(ring), geom.Scope(2).Perimeter())
	}
	for _, v := range ring {
		loc := v.Location()
		dx := loc.X - center.X
		dy := loc.Y - center.Y
		if max(abs(dx), abs(dy)) != 2 {
			t.Fatalf("ring tile %v not at distance 2 from %v", loc, center)
		}
	}

	// a scope 1 ring around a corner of the window has cells outside it
	if _, ok := n.Border(geom.Offset{X: 2, Y: 2}, 1); ok {
		t.Fatal("ring exceeding the window must be unavailable")
	}
	// same sub-origin, degenerate ring still fits
	if ring, ok := n.Border(geom.Offset{X: 2, Y: 2}, 0); !ok || len(ring) != 1 {
		t.Fatal("scope 0 ring on the window corner must be available")
	}
}

func TestTileViewExcludesOwner(t *testing.T) {
	dim := geom.Dimension{Width: 5, Height: 5}
	env := New[nothing, nothing](dim)
	at := geom.Location{X: 2, Y: 2}
	roommate := newProbe(at, -1)
	env.Insert(roommate)

	owner := newProbe(at, 1)
	owner.onObserve = func(p *probe, n *Neighborhood[nothing, nothing]) error {
		center := n.Center()
		if got := center.Count(); got != 2 {
			t.Errorf("Count = %d, want 2 including the owner", got)
		}
		entities := center.Entities()
		if len(entities) != 1 {
			t.Fatalf("Entities returned %d, want 1 (owner excluded)", len(entities))
		}
		if entities[0].ID() == p.id {
			t.Error("Entities must not return the owner itself")
		}
		return nil
	}
	env.Insert(owner)
	if _, err := env.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
