package sim

import (
	"errors"
	"testing"

	"github.com/pthm-cable/habitat/geom"
)

type nothing = struct{}

// probe is a configurable test entity with optional hooks per phase.
type probe struct {
	Base[nothing, nothing]
	id      ID
	kind    Kind
	loc     geom.Location
	located bool
	scope   geom.Scope
	scoped  bool
	life    *Lifespan
	brood   Offspring[nothing, nothing]

	onObserve func(p *probe, n *Neighborhood[nothing, nothing]) error
	onReact   func(p *probe, n *Neighborhood[nothing, nothing]) error
	observed  int
	reacted   int
}

// newProbe returns a located probe; a negative scope means no scope at all.
func newProbe(loc geom.Location, scope int) *probe {
	p := &probe{id: NextID(), loc: loc, located: true}
	if scope >= 0 {
		p.scope = geom.Scope(scope)
		p.scoped = true
	}
	return p
}

func (p *probe) ID() ID     { return p.id }
func (p *probe) Kind() Kind { return p.kind }

func (p *probe) Location() (geom.Location, bool) { return p.loc, p.located }
func (p *probe) Scope() (geom.Scope, bool)       { return p.scope, p.scoped }

func (p *probe) Lifespan() (Lifespan, bool) {
	if p.life == nil {
		return Lifespan{}, false
	}
	return *p.life, true
}

func (p *probe) LifespanRef() *Lifespan { return p.life }

func (p *probe) Observe(n *Neighborhood[nothing, nothing]) error {
	p.observed++
	if p.onObserve != nil {
		return p.onObserve(p, n)
	}
	return nil
}

func (p *probe) React(n *Neighborhood[nothing, nothing]) error {
	p.reacted++
	if p.onReact != nil {
		return p.onReact(p, n)
	}
	return nil
}

func (p *probe) Offspring() []Entity[nothing, nothing] { return p.brood.Drain() }

func lifespan(l Lifespan) *Lifespan { return &l }

func TestNeighborhoodUniqueness(t *testing.T) {
	for _, scope := range []int{0, 1, 2, 3} {
		env := New[nothing, nothing](geom.Dimension{Width: 7, Height: 7})
		p := newProbe(geom.Location{X: 3, Y: 3}, scope)
		seen := make(map[geom.Location]bool)
		p.onObserve = func(_ *probe, n *Neighborhood[nothing, nothing]) error {
			if n == nil {
				t.Fatalf("scope %d: neighborhood unexpectedly absent", scope)
			}
			for v := range n.Tiles() {
				seen[v.Location()] = true
			}
			return nil
		}
		env.Insert(p)
		if _, err := env.Step(); err != nil {
			t.Fatalf("scope %d: Step: %v", scope, err)
		}
		want := geom.Scope(scope).Area()
		if len(seen) != want {
			t.Fatalf("scope %d: %d distinct cells, want %d", scope, len(seen), want)
		}
	}
}

func TestAbsentNeighborhoodWithoutScope(t *testing.T) {
	env := New[nothing, nothing](geom.Dimension{Width: 5, Height: 5})
	p := newProbe(geom.Location{X: 2, Y: 2}, -1)
	assertAbsent := func(_ *probe, n *Neighborhood[nothing, nothing]) error {
		if n != nil {
			t.Fatal("entity without scope must receive an absent neighborhood")
		}
		return nil
	}
	p.onObserve = assertAbsent
	p.onReact = assertAbsent
	env.Insert(p)
	if _, err := env.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if p.observed != 1 || p.reacted != 1 {
		t.Fatalf("observed %d reacted %d, want 1 and 1", p.observed, p.reacted)
	}
}

func TestNeighborhoodUnavailableForOversizedScope(t *testing.T) {
	// a scope 2 window has side 5, which cannot map to distinct cells of a
	// 3x3 grid
	env := New[nothing, nothing](geom.Dimension{Width: 3, Height: 3})
	p := newProbe(geom.Location{X: 1, Y: 1}, 2)
	assertAbsent := func(_ *probe, n *Neighborhood[nothing, nothing]) error {
		if n != nil {
			t.Fatal("oversized scope must yield an absent neighborhood")
		}
		return nil
	}
	p.onObserve = assertAbsent
	p.onReact = assertAbsent
	env.Insert(p)
	if _, err := env.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

func TestNeighborhoodUnavailableForNegativeScope(t *testing.T) {
	env := New[nothing, nothing](geom.Dimension{Width: 5, Height: 5})
	p := newProbe(geom.Location{X: 2, Y: 2}, 0)
	p.scope = -2
	assertAbsent := func(_ *probe, n *Neighborhood[nothing, nothing]) error {
		if n != nil {
			t.Fatal("negative scope must yield an absent neighborhood")
		}
		return nil
	}
	p.onObserve = assertAbsent
	p.onReact = assertAbsent
	env.Insert(p)
	if _, err := env.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if p.observed != 1 || p.reacted != 1 {
		t.Fatalf("observed %d reacted %d, want 1 and 1", p.observed, p.reacted)
	}
}

func TestOffspringDeferral(t *testing.T) {
	env := New[nothing, nothing](geom.Dimension{Width: 5, Height: 5})
	child := newProbe(geom.Location{X: 1, Y: 1}, 0)
	parent := newProbe(geom.Location{X: 3, Y: 3}, 0)
	parent.onReact = func(p *probe, _ *Neighborhood[nothing, nothing]) error {
		if p.reacted == 1 {
			p.brood.Insert(child)
		}
		return nil
	}
	env.Insert(parent)

	if _, err := env.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if env.Count() != 2 {
		t.Fatalf("population %d after birth generation, want 2", env.Count())
	}
	if child.observed != 0 || child.reacted != 0 {
		t.Fatal("offspring must not be visited in the generation it is born in")
	}

	if _, err := env.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if child.observed != 1 || child.reacted != 1 {
		t.Fatalf("offspring visited observe=%d react=%d in the next generation, want 1 and 1",
			child.observed, child.reacted)
	}
}

func TestStepAtomicityOnReactError(t *testing.T) {
	env := New[nothing, nothing](geom.Dimension{Width: 5, Height: 5})
	boom := errors.New("boom")

	failing := newProbe(geom.Location{X: 0, Y: 0}, 0)
	failing.onReact = func(*probe, *Neighborhood[nothing, nothing]) error { return boom }

	mover := newProbe(geom.Location{X: 2, Y: 2}, 0)
	mover.onReact = func(p *probe, _ *Neighborhood[nothing, nothing]) error {
		p.loc = p.loc.Translate(geom.Offset{X: 1}, env.Dimension())
		return nil
	}

	spawner := newProbe(geom.Location{X: 4, Y: 4}, 0)
	spawner.life = lifespan(Immortal())
	spawner.onReact = func(p *probe, _ *Neighborhood[nothing, nothing]) error {
		p.brood.Insert(newProbe(geom.Location{X: 4, Y: 3}, 0))
		p.life.Kill()
		return nil
	}

	for _, p := range []*probe{failing, mover, spawner} {
		env.Insert(p)
	}

	gen, err := env.Step()
	if !errors.Is(err, boom) {
		t.Fatalf("Step error = %v, want %v", err, boom)
	}
	if gen != 0 || env.Generation() != 0 {
		t.Fatalf("generation advanced to %d on error", env.Generation())
	}
	if env.Count() != 3 {
		t.Fatalf("population %d after failed step, want 3 (no birth, no death)", env.Count())
	}
	// the grid still records every entity at its start-of-step location
	if got := env.At(geom.Location{X: 2, Y: 2}); len(got) != 1 {
		t.Fatal("mover must stay registered at its previous location on error")
	}
	if got := env.At(geom.Location{X: 3, Y: 2}); len(got) != 0 {
		t.Fatal("mover must not be registered at its new location on error")
	}
	// every entity of the failing phase was still invoked
	if mover.reacted != 1 || spawner.reacted != 1 {
		t.Fatal("all entities must be invoked even after an earlier error")
	}
}

func TestObserveErrorSkipsReact(t *testing.T) {
	env := New[nothing, nothing](geom.Dimension{Width: 3, Height: 3})
	boom := errors.New("observe failed")
	a := newProbe(geom.Location{X: 0, Y: 0}, 0)
	a.onObserve = func(*probe, *Neighborhood[nothing, nothing]) error { return boom }
	b := newProbe(geom.Location{X: 2, Y: 2}, 0)
	env.Insert(a)
	env.Insert(b)

	if _, err := env.Step(); !errors.Is(err, boom) {
		t.Fatalf("Step error = %v, want %v", err, boom)
	}
	if b.observed != 1 {
		t.Fatal("remaining entities must still be observed after an error")
	}
	if a.reacted != 0 || b.reacted != 0 {
		t.Fatal("react must not run after a failed observe phase")
	}
}

// A lone live cell with a 2-3 survival rule dies of isolation.
func TestLoneSurvivorDies(t *testing.T) {
	env := New[nothing, nothing](geom.Dimension{Width: 3, Height: 3})
	cell := newProbe(geom.Location{X: 1, Y: 1}, 1)
	cell.life = lifespan(Immortal())
	var neighbors int
	cell.onObserve = func(_ *probe, n *Neighborhood[nothing, nothing]) error {
		neighbors = 0
		for v := range n.Tiles() {
			neighbors += len(v.Entities())
		}
		return nil
	}
	cell.onReact = func(p *probe, _ *Neighborhood[nothing, nothing]) error {
		if neighbors < 2 || neighbors > 3 {
			p.life.Kill()
		}
		return nil
	}
	env.Insert(cell)

	if _, err := env.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if env.Count() != 0 {
		t.Fatalf("population %d after one generation, want 0", env.Count())
	}
	if got := env.At(geom.Location{X: 1, Y: 1}); len(got) != 0 {
		t.Fatal("dead cell must be removed from the grid")
	}
}

// rowCell runs one column of an elementary (rule 90 style) automaton: each
// generation it spawns the cell below with the xor of its side neighbors,
// then freezes.
type rowCell struct {
	Base[nothing, nothing]
	id     ID
	loc    geom.Location
	life   Lifespan
	active bool
	next   bool
	frozen bool
	dim    geom.Dimension
	brood  Offspring[nothing, nothing]
}

func newRowCell(loc geom.Location, active bool, dim geom.Dimension) *rowCell {
	return &rowCell{
		id:     NextID(),
		loc:    loc,
		life:   Mortal(uint64(dim.Height - 1)),
		active: active,
		dim:    dim,
	}
}

func (c *rowCell) ID() ID                          { return c.id }
func (c *rowCell) Kind() Kind                      { return 0 }
func (c *rowCell) Location() (geom.Location, bool) { return c.loc, true }
func (c *rowCell) Scope() (geom.Scope, bool)       { return 1, true }
func (c *rowCell) Lifespan() (Lifespan, bool)      { return c.life, true }
func (c *rowCell) LifespanRef() *Lifespan          { return &c.life }
func (c *rowCell) State() any                      { return c.active }

func (c *rowCell) Observe(n *Neighborhood[nothing, nothing]) error {
	if c.frozen {
		return nil
	}
	side := func(dx int) bool {
		for _, e := range n.Tile(geom.Offset{X: dx}).Entities() {
			if cell, ok := e.(*rowCell); ok {
				return cell.active
			}
		}
		return false
	}
	c.next = side(-1) != side(1)
	return nil
}

func (c *rowCell) React(*Neighborhood[nothing, nothing]) error {
	c.life.Shorten()
	if c.frozen {
		return nil
	}
	below := c.loc.Translate(geom.Offset{Y: 1}, c.dim)
	c.brood.Insert(newRowCell(below, c.next, c.dim))
	c.frozen = true
	return nil
}

func (c *rowCell) Offspring() []Entity[nothing, nothing] { return c.brood.Drain() }

func TestElementaryRuleRow(t *testing.T) {
	dim := geom.Dimension{Width: 7, Height: 7}
	env := New[nothing, nothing](dim)
	for x := 0; x < dim.Width; x++ {
		env.Insert(newRowCell(geom.Location{X: x, Y: 0}, x == dim.Width/2, dim))
	}

	if _, err := env.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	active := make(map[int]bool)
	for x := 0; x < dim.Width; x++ {
		for _, e := range env.At(geom.Location{X: x, Y: 1}) {
			if cell, ok := e.(*rowCell); ok && cell.active {
				active[x] = true
			}
		}
	}
	center := dim.Width / 2
	if len(active) != 2 || !active[center-1] || !active[center+1] {
		t.Fatalf("active columns in row 1 = %v, want exactly {%d, %d}", active, center-1, center+1)
	}
}
