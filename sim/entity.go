// Package sim implements a discrete-time simulation of autonomous entities
// placed on a toroidal grid. The environment advances the population through
// synchronized generations; each entity observes a scoped neighborhood of
// nearby cells and reacts by mutating itself and reachable neighbors, with
// results independent of the order entities are visited in.
//
// The package is generic over the rendering collaborators: C is the opaque
// drawing context and T the opaque transform, both passed through unmodified
// to Entity.Draw.
package sim

import (
	"sync/atomic"

	"github.com/pthm-cable/habitat/geom"
)

// ID uniquely identifies an entity for its whole life. It is a logic error
// for two entities in the same environment to share an ID.
type ID uint64

// Kind is the user-defined type of an entity. Kinds are totally ordered and
// control grouping and draw order: lower kinds are drawn first.
type Kind int

var lastID atomic.Uint64

// NextID returns a process-wide unique entity ID.
func NextID() ID {
	return ID(lastID.Add(1))
}

// Entity is the contract every simulated object satisfies. The environment
// only ever reaches concrete entities through this interface.
//
// An entity either has a location for its entire lifetime or never has one;
// a scope requires a location. Neighborhoods passed to Observe and React
// reflect entity positions as of the start of the generation, regardless of
// what any entity has already mutated during the current phase.
// Implementations must not assume other entities have already reacted.
type Entity[C, T any] interface {
	// ID returns the unique, stable identifier of the entity.
	ID() ID

	// Kind returns the entity kind.
	Kind() Kind

	// Location returns the cell the entity resides in, or false if the
	// entity has no location.
	Location() (geom.Location, bool)

	// Scope returns the radius of visibility and influence of the entity,
	// or false if the entity cannot see or affect any cell.
	Scope() (geom.Scope, bool)

	// Lifespan returns the remaining lifespan of the entity, or false if
	// the entity has none.
	Lifespan() (Lifespan, bool)

	// LifespanRef returns mutable access to the entity lifespan, letting
	// other entities shorten or clear it. A nil return means the lifespan,
	// if any, cannot be affected from outside.
	LifespanRef() *Lifespan

	// State returns the opaque entity state, to be type-asserted by the
	// consumer, or nil if the entity carries none.
	State() any

	// Observe lets the entity inspect its surroundings and record intent.
	// It must not apply externally visible changes. The neighborhood is nil
	// when the entity has no scope or the grid cannot host its window.
	Observe(neighborhood *Neighborhood[C, T]) error

	// React lets the entity apply its behavior: location, lifespan and
	// state changes take effect here. The neighborhood follows the same
	// rules as in Observe.
	React(neighborhood *Neighborhood[C, T]) error

	// Offspring drains and returns the entities produced by this entity
	// during the current generation, or nil.
	Offspring() []Entity[C, T]

	// Draw renders the entity through the caller-supplied context and
	// transform. Entities that have no shape should return nil.
	Draw(ctx C, transform T) error
}

// Base provides safe defaults for every optional Entity method. Embed it in
// concrete entities and override only what applies.
type Base[C, T any] struct{}

func (Base[C, T]) Location() (geom.Location, bool) { return geom.Location{}, false }

func (Base[C, T]) Scope() (geom.Scope, bool) { return 0, false }

func (Base[C, T]) Lifespan() (Lifespan, bool) { return Lifespan{}, false }

func (Base[C, T]) LifespanRef() *Lifespan { return nil }

func (Base[C, T]) State() any { return nil }

func (Base[C, T]) Observe(*Neighborhood[C, T]) error { return nil }

func (Base[C, T]) React(*Neighborhood[C, T]) error { return nil }

func (Base[C, T]) Offspring() []Entity[C, T] { return nil }

func (Base[C, T]) Draw(C, T) error { return nil }
