package ontology

import "github.com/edwinsyarief/kizuna"

// named keeps an entity's name registered in its universe's registry. The
// universe is remembered together with its handle so a name is never erased
// from a universe that has since been destroyed and rebuilt in the same slot.
type named struct {
	name     string
	universe *Universe
	home     kizuna.Handle
	kind     Datatype
	events   *kizuna.EventBus
}

// release erases the name and announces the destruction of e.
func (n *named) release(e kizuna.Entity) {
	n.forget(e)
	kizuna.Publish(n.events, Destroyed{Type: n.kind, Handle: kizuna.HandleOf(e), Name: n.name})
}

func (n *named) register(u *Universe, e kizuna.Entity, name string) {
	n.name = name
	n.universe = u
	n.home = kizuna.Handle{}
	if u == nil {
		return
	}
	n.home = u.Handle()
	u.registry.AddEntity(e, name)
}

// forget erases the name if it still refers to e.
func (n *named) forget(e kizuna.Entity) {
	u := n.universe
	if u == nil || n.name == "" || u.Handle() != n.home {
		return
	}
	if u.registry.Entity(n.name) == e {
		u.registry.EraseEntity(n.name)
	}
}

// move re-registers the name when e changes universe.
func (n *named) move(u *Universe, e kizuna.Entity) {
	if u == n.universe {
		return
	}
	n.forget(e)
	n.register(u, e, n.name)
}

// Name returns the entity's name.
func (n *named) Name() string { return n.name }

// Universe returns the universe the name is registered in, or nil.
func (n *named) Universe() *Universe { return n.universe }
