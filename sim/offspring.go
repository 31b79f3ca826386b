package sim

// Offspring is the per-entity staging list for entities produced during a
// generation. Parents insert newborns here and hand them over to the
// environment by returning Drain from their Offspring method; the drained
// entities enter the population at the end of the generation and are first
// visited in the next one.
type Offspring[C, T any] struct {
	entities []Entity[C, T]
}

// Insert adds a newborn entity to the staging list.
func (o *Offspring[C, T]) Insert(e Entity[C, T]) {
	o.entities = append(o.entities, e)
}

// Count returns the number of staged entities.
func (o *Offspring[C, T]) Count() int {
	return len(o.entities)
}

// Drain takes the staged entities out of the list, moving their ownership to
// the caller. Returns nil when nothing was staged.
func (o *Offspring[C, T]) Drain() []Entity[C, T] {
	if len(o.entities) == 0 {
		return nil
	}
	drained := o.entities
	o.entities = nil
	return drained
}
