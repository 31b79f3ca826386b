package sim

// Lifespan is the mortality counter of an entity: either immortal, or a
// remaining number of generations. An immortal lifespan is unaffected by
// shortening and lengthening, but can still be ended with Kill.
//
// The zero value is a mortal lifespan with no span left.
type Lifespan struct {
	immortal bool
	span     uint64
}

// Mortal returns a lifespan of the given number of remaining generations.
func Mortal(span uint64) Lifespan {
	return Lifespan{span: span}
}

// Immortal returns a lifespan that does not decrease with time.
func Immortal() Lifespan {
	return Lifespan{immortal: true}
}

// Alive reports whether there is lifespan left. Always true if immortal.
func (l Lifespan) Alive() bool {
	return l.immortal || l.span > 0
}

// IsImmortal reports whether the lifespan is unaffected by time.
func (l Lifespan) IsImmortal() bool {
	return l.immortal
}

// Remaining returns the number of generations left. Meaningless (and zero)
// when immortal.
func (l Lifespan) Remaining() uint64 {
	if l.immortal {
		return 0
	}
	return l.span
}

// Shorten decreases the remaining span by one generation.
func (l *Lifespan) Shorten() {
	l.ShortenBy(1)
}

// ShortenBy decreases the remaining span by n generations, saturating at
// zero. No effect if immortal.
func (l *Lifespan) ShortenBy(n uint64) {
	if l.immortal {
		return
	}
	if n > l.span {
		n = l.span
	}
	l.span -= n
}

// Lengthen increases the remaining span by one generation.
func (l *Lifespan) Lengthen() {
	l.LengthenBy(1)
}

// LengthenBy increases the remaining span by n generations. No effect if
// immortal.
func (l *Lifespan) LengthenBy(n uint64) {
	if l.immortal {
		return
	}
	l.span += n
}

// Kill replaces the lifespan with an empty mortal one, ending the entity at
// the next generation boundary. Works on immortal lifespans too.
func (l *Lifespan) Kill() {
	*l = Lifespan{}
}
