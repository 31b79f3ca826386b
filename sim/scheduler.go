package sim

import (
	"sync"

	"github.com/pthm-cable/habitat/geom"
)

// Scheduler splits the entities of an environment into disjoint groups that
// can run observe and react concurrently.
//
// The torus is partitioned into equal rectangular macro-tiles, one per lane.
// An entity whose neighborhood window lies entirely inside the macro-tile
// containing its location joins that macro-tile's sync group: sync groups
// run sequentially on one lane each, but distinct sync groups run
// concurrently. An entity whose window would cross a macro-tile boundary
// (including windows that wrap around the torus edge), or that has no
// location, joins the single unsync group, which runs alone strictly after
// every sync group has finished.
//
// Soundness is a property of the partition, not of locks: members of a sync
// group only ever reach cells within their own macro-tile, so the cells
// reachable by any two concurrently running groups are disjoint.
type Scheduler struct {
	dim   geom.Dimension
	tiles geom.Dimension
	// macro-tile size in cells; the last row and column absorb any
	// remainder of the division
	tileW, tileH int
}

// NewScheduler constructs a scheduler for a grid of the given dimension,
// partitioned into one macro-tile per lane.
func NewScheduler(dim geom.Dimension, lanes int) *Scheduler {
	if lanes < 1 {
		lanes = 1
	}
	tiles := geom.SplitRect(lanes)
	return &Scheduler{
		dim:   dim,
		tiles: tiles,
		tileW: dim.Width / tiles.Width,
		tileH: dim.Height / tiles.Height,
	}
}

// Lanes returns the number of sync groups the scheduler partitions into.
func (s *Scheduler) Lanes() int {
	return s.tiles.Len()
}

// Assign returns the index of the sync group for an entity at the given
// location with the given scope, or -1 when the entity must join the unsync
// group. Entities with a location but no scope behave as scope 0: they can
// touch no cell beyond their own.
func (s *Scheduler) Assign(loc geom.Location, scope geom.Scope) int {
	if s.tileW < 1 || s.tileH < 1 {
		// more lanes than rows or columns, no usable macro-tile
		return -1
	}

	tx := min(loc.X/s.tileW, s.tiles.Width-1)
	ty := min(loc.Y/s.tileH, s.tiles.Height-1)

	x0, x1 := tx*s.tileW, (tx+1)*s.tileW
	if tx == s.tiles.Width-1 {
		x1 = s.dim.Width
	}
	y0, y1 := ty*s.tileH, (ty+1)*s.tileH
	if ty == s.tiles.Height-1 {
		y1 = s.dim.Height
	}

	m := int(scope)
	if loc.X-m < x0 || loc.X+m >= x1 || loc.Y-m < y0 || loc.Y+m >= y1 {
		// the window reaches past the macro-tile
		return -1
	}
	return geom.Location{X: tx, Y: ty}.Index(s.tiles)
}

// groups is one generation's partition of the population.
type groups[C, T any] struct {
	sync   [][]Entity[C, T]
	unsync []Entity[C, T]
}

// partition assigns every entity of the environment to its group, based on
// its start-of-generation location.
func (e *Environment[C, T]) partition() groups[C, T] {
	g := groups[C, T]{sync: make([][]Entity[C, T], e.sched.Lanes())}
	for _, ent := range e.arena {
		loc, ok := ent.Location()
		if !ok {
			g.unsync = append(g.unsync, ent)
			continue
		}
		scope, _ := ent.Scope()
		lane := e.sched.Assign(loc, scope)
		if lane < 0 {
			g.unsync = append(g.unsync, ent)
			continue
		}
		g.sync[lane] = append(g.sync[lane], ent)
	}
	return g
}

// runParallel runs one phase over a partition: sync groups fan out to the
// worker lanes, the unsync group runs on the calling goroutine strictly
// after the join barrier. Every group still runs after an earlier failure;
// the first error observed is returned.
func (e *Environment[C, T]) runParallel(g groups[C, T], p phase) error {
	if e.pool == nil {
		e.pool = newLanePool(e, e.workers)
	}

	dispatched := 0
	for _, lane := range g.sync {
		if len(lane) == 0 {
			continue
		}
		e.pool.work <- laneJob[C, T]{entities: lane, phase: p}
		dispatched++
	}

	var first error
	for i := 0; i < dispatched; i++ {
		if err := <-e.pool.errs; err != nil && first == nil {
			first = err
		}
	}

	// join barrier passed, the unsync group may now reach across
	// macro-tile boundaries
	if err := e.runLane(g.unsync, p); err != nil && first == nil {
		first = err
	}
	return first
}

// laneJob is one sync group to run on a worker lane.
type laneJob[C, T any] struct {
	entities []Entity[C, T]
	phase    phase
}

// lanePool is the set of persistent worker goroutines that execute sync
// groups. There are no per-entity or per-cell locks: exclusivity is
// guaranteed by the partition.
type lanePool[C, T any] struct {
	work chan laneJob[C, T]
	errs chan error
	stop chan struct{}
	wg   sync.WaitGroup
}

func newLanePool[C, T any](env *Environment[C, T], workers int) *lanePool[C, T] {
	p := &lanePool[C, T]{
		work: make(chan laneJob[C, T], workers),
		errs: make(chan error, workers),
		stop: make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(env)
	}
	return p
}

func (p *lanePool[C, T]) worker(env *Environment[C, T]) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			return
		case job, ok := <-p.work:
			if !ok {
				return
			}
			p.errs <- env.runLane(job.entities, job.phase)
		}
	}
}

func (p *lanePool[C, T]) stopWorkers() {
	close(p.stop)
	p.wg.Wait()
	close(p.work)
	close(p.errs)
}
