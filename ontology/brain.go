package ontology

import "github.com/edwinsyarief/kizuna"

// Brain drives the objects of its scene that follow it.
type Brain struct {
	kizuna.Slot
	named
	registry kizuna.Registry
	child    kizuna.ChildModule
	movables kizuna.MasterModule[*Brain]
}

func (b *Brain) init(s *Scene, name string) {
	b.movables.Init(b, &b.registry, "movables")
	var parent *kizuna.GenericParentModule
	var u *Universe
	if s != nil {
		parent = &s.brains
		u = s.universe
	}
	b.child.Init(parent, b)
	b.register(u, b, name)
}

// Release unlinks the brain's movables and leaves its scene.
func (b *Brain) Release() {
	b.movables.Release()
	b.child.Release()
	b.release(b)
}

// Scene returns the owning scene, or nil.
func (b *Brain) Scene() kizuna.Entity { return b.child.Parent() }

// Movables returns the master module objects follow.
func (b *Brain) Movables() *kizuna.MasterModule[*Brain] { return &b.movables }

// NumberOfMovables returns the number of objects following the brain.
func (b *Brain) NumberOfMovables() int { return b.movables.NumberOfApprentices() }

// Registry returns the brain's registry of modules.
func (b *Brain) Registry() *kizuna.Registry { return &b.registry }

// ChildID returns the brain's index inside its scene.
func (b *Brain) ChildID() int { return b.child.ChildID() }
