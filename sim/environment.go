package sim

import (
	"iter"
	"maps"
	"slices"

	"github.com/pthm-cable/habitat/geom"
)

// Options configures an Environment.
type Options struct {
	// Workers is the number of lanes used to run the observe and react
	// phases. Values below 2 select the sequential engine.
	Workers int
}

// snapshot records the position of one located entity at the start of a
// generation. It is used only to detect and replay location changes into the
// grid once every entity has reacted.
type snapshot struct {
	id       ID
	location geom.Location
}

// Environment owns the population of entities and the toroidal grid they
// live on, and drives the generation protocol: snapshot, observe, react,
// reconcile moved entities, insert offspring, remove expired entities.
//
// The grid is a torus: its edges are adjacent to each other, and entities
// moving past a bound reappear on the opposite side.
type Environment[C, T any] struct {
	// id-indexed arena of all entities; the single owning store
	arena map[ID]Entity[C, T]
	// the same entities grouped by kind, for draw order and census queries
	kinds map[Kind]map[ID]Entity[C, T]
	grid  *grid
	dim   geom.Dimension

	snapshots  []snapshot
	generation uint64

	workers int
	sched   *Scheduler
	pool    *lanePool[C, T]
}

// New constructs a sequential environment with the given grid dimension.
func New[C, T any](dim geom.Dimension) *Environment[C, T] {
	return NewWithOptions[C, T](dim, Options{})
}

// NewWithOptions constructs an environment with the given grid dimension and
// options.
func NewWithOptions[C, T any](dim geom.Dimension, opts Options) *Environment[C, T] {
	if dim.Width < 1 || dim.Height < 1 {
		panic("sim: environment dimension must be positive")
	}
	env := &Environment[C, T]{
		arena: make(map[ID]Entity[C, T]),
		kinds: make(map[Kind]map[ID]Entity[C, T]),
		grid:  newGrid(dim),
		dim:   dim,
	}
	if opts.Workers > 1 {
		env.workers = opts.Workers
		env.sched = NewScheduler(dim, opts.Workers)
	}
	return env
}

// Dimension returns the grid dimension of the environment.
func (e *Environment[C, T]) Dimension() geom.Dimension {
	return e.dim
}

// Insert adds an entity to the population, registering it in the grid when
// it has a location. Used to build the initial population; during a run,
// entities are normally introduced as offspring instead.
func (e *Environment[C, T]) Insert(ent Entity[C, T]) {
	id := ent.ID()
	e.arena[id] = ent
	k := ent.Kind()
	byKind := e.kinds[k]
	if byKind == nil {
		byKind = make(map[ID]Entity[C, T])
		e.kinds[k] = byKind
	}
	byKind[id] = ent
	if loc, ok := ent.Location(); ok {
		e.grid.insert(id, loc)
	}
}

// Count returns the total number of entities in the environment.
func (e *Environment[C, T]) Count() int {
	return len(e.arena)
}

// CountKind returns the number of entities of the given kind.
func (e *Environment[C, T]) CountKind(k Kind) int {
	return len(e.kinds[k])
}

// Generation returns the current generation step number.
func (e *Environment[C, T]) Generation() uint64 {
	return e.generation
}

// All iterates over every entity in the environment in arbitrary order.
func (e *Environment[C, T]) All() iter.Seq[Entity[C, T]] {
	return func(yield func(Entity[C, T]) bool) {
		for _, ent := range e.arena {
			if !yield(ent) {
				return
			}
		}
	}
}

// At returns the entities currently registered at the given location.
func (e *Environment[C, T]) At(loc geom.Location) []Entity[C, T] {
	if !e.dim.Contains(loc) {
		return nil
	}
	ids := e.grid.at(loc.Index(e.dim))
	if len(ids) == 0 {
		return nil
	}
	entities := make([]Entity[C, T], 0, len(ids))
	for id := range ids {
		if ent, ok := e.arena[id]; ok {
			entities = append(entities, ent)
		}
	}
	return entities
}

// Draw renders every entity through the given context and transform, kinds
// in ascending order, order within a kind arbitrary. Returns the first draw
// error encountered.
func (e *Environment[C, T]) Draw(ctx C, transform T) error {
	for _, k := range slices.Sorted(maps.Keys(e.kinds)) {
		for _, ent := range e.kinds[k] {
			if err := ent.Draw(ctx, transform); err != nil {
				return err
			}
		}
	}
	return nil
}

// Step advances the environment by one generation and returns the new
// generation number.
//
// Within the observe and react phases every entity is invoked even after an
// earlier failure; the first error encountered is retained and returned once
// the phase completes. On error no later phase runs: moved entities are not
// reconciled, no offspring is inserted, no entity is removed and the
// generation counter is untouched, leaving the population exactly as the
// invoked callbacks left it.
func (e *Environment[C, T]) Step() (uint64, error) {
	e.takeSnapshot()

	if err := e.runPhases(); err != nil {
		return e.generation, err
	}

	e.reconcile()
	e.populate()
	e.depopulate()

	e.generation++
	return e.generation, nil
}

// Close releases the worker lanes of a parallel environment. It is a no-op
// for sequential environments; the environment remains usable, lanes restart
// on the next parallel step.
func (e *Environment[C, T]) Close() {
	if e.pool != nil {
		e.pool.stopWorkers()
		e.pool = nil
	}
}

type phase int

const (
	phaseObserve phase = iota
	phaseReact
)

// runPhases runs observe then react over the whole population. An error in
// observe skips react.
func (e *Environment[C, T]) runPhases() error {
	if e.workers > 1 && len(e.arena) > 0 {
		groups := e.partition()
		if err := e.runParallel(groups, phaseObserve); err != nil {
			return err
		}
		return e.runParallel(groups, phaseReact)
	}
	if err := e.runSequential(phaseObserve); err != nil {
		return err
	}
	return e.runSequential(phaseReact)
}

// runSequential invokes one phase on every entity, one at a time, in
// arbitrary order.
func (e *Environment[C, T]) runSequential(p phase) error {
	var first error
	for _, ent := range e.arena {
		if err := e.invoke(ent, p); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// runLane invokes one phase on the given entities sequentially, retaining
// the first error while still invoking every entity.
func (e *Environment[C, T]) runLane(entities []Entity[C, T], p phase) error {
	var first error
	for _, ent := range entities {
		if err := e.invoke(ent, p); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// invoke builds the entity's neighborhood and dispatches one phase to it.
func (e *Environment[C, T]) invoke(ent Entity[C, T], p phase) error {
	n := e.neighborhood(ent)
	if p == phaseObserve {
		return ent.Observe(n)
	}
	return ent.React(n)
}

// neighborhood builds the window of cells seen by the entity, or nil when
// the entity has no scope or location, reports a negative scope, or when the
// window would wrap onto itself because the grid is too small for the scope.
func (e *Environment[C, T]) neighborhood(ent Entity[C, T]) *Neighborhood[C, T] {
	center, ok := ent.Location()
	if !ok {
		return nil
	}
	scope, ok := ent.Scope()
	if !ok || scope < 0 {
		return nil
	}
	side := scope.Side()
	if side > e.dim.Width || side > e.dim.Height {
		// the window cannot map to distinct cells
		return nil
	}

	cells := make([]int, 0, scope.Area())
	m := int(scope)
	for y := -m; y <= m; y++ {
		for x := -m; x <= m; x++ {
			off := geom.Offset{X: x, Y: y}
			cells = append(cells, center.Translate(off, e.dim).Index(e.dim))
		}
	}
	return &Neighborhood[C, T]{env: e, owner: ent.ID(), scope: scope, cells: cells}
}

// takeSnapshot records the location of every located entity before the
// phases run, reusing the snapshot buffer across generations.
func (e *Environment[C, T]) takeSnapshot() {
	e.snapshots = e.snapshots[:0]
	for id, ent := range e.arena {
		if loc, ok := ent.Location(); ok {
			e.snapshots = append(e.snapshots, snapshot{id: id, location: loc})
		}
	}
}

// reconcile replays location changes into the grid: every snapshot entry
// whose entity moved during react gets its grid registration updated.
func (e *Environment[C, T]) reconcile() {
	for _, snap := range e.snapshots {
		ent, ok := e.arena[snap.id]
		if !ok {
			continue
		}
		loc, ok := ent.Location()
		if !ok || loc == snap.location {
			continue
		}
		e.grid.move(snap.id, snap.location, loc)
	}
}

// populate drains the offspring of every entity and inserts the newborns
// into the population. Newborns are not visited in the generation they are
// born in.
func (e *Environment[C, T]) populate() {
	var newborn []Entity[C, T]
	for _, ent := range e.arena {
		newborn = append(newborn, ent.Offspring()...)
	}
	for _, child := range newborn {
		e.Insert(child)
	}
}

// depopulate removes every entity whose lifespan is defined and exhausted,
// from both the grid and the population.
func (e *Environment[C, T]) depopulate() {
	for id, ent := range e.arena {
		life, ok := ent.Lifespan()
		if !ok || life.Alive() {
			continue
		}
		if loc, ok := ent.Location(); ok {
			e.grid.remove(id, loc)
		}
		delete(e.arena, id)
		k := ent.Kind()
		delete(e.kinds[k], id)
		if len(e.kinds[k]) == 0 {
			delete(e.kinds, k)
		}
	}
}
