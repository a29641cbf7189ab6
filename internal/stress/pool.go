package stress

import (
	"math/rand/v2"

	"github.com/edwinsyarief/kizuna"
)

type handled interface {
	kizuna.Entity
	Handle() kizuna.Handle
}

// pool remembers built entities together with the handle they had when
// added. Entries whose handle no longer matches were destroyed, possibly by
// a cascade, and are dropped lazily.
type pool[T handled] struct {
	items   []T
	handles []kizuna.Handle
}

func (p *pool[T]) add(e T) {
	p.items = append(p.items, e)
	p.handles = append(p.handles, e.Handle())
}

// pick returns a random live entry.
func (p *pool[T]) pick(r *rand.Rand) (T, bool) {
	for len(p.items) > 0 {
		i := r.IntN(len(p.items))
		if p.items[i].Handle() == p.handles[i] {
			return p.items[i], true
		}
		p.drop(i)
	}
	var zero T
	return zero, false
}

func (p *pool[T]) drop(i int) {
	last := len(p.items) - 1
	p.items[i], p.handles[i] = p.items[last], p.handles[last]
	var zero T
	p.items[last] = zero
	p.items, p.handles = p.items[:last], p.handles[:last]
}
