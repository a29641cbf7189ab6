package ontology

import "github.com/edwinsyarief/kizuna"

// Scene is the top-level grouping of a world. Associations never cross scene
// boundaries.
type Scene struct {
	kizuna.Slot
	named
	registry  kizuna.Registry
	child     kizuna.ChildModule
	materials kizuna.GenericParentModule
	brains    kizuna.GenericParentModule
	objects   kizuna.GenericParentModule
}

func (s *Scene) init(u *Universe, name string) {
	s.materials.Init(s, &s.registry, "materials")
	s.brains.Init(s, &s.registry, "brains")
	s.objects.Init(s, &s.registry, "objects")
	var parent *kizuna.GenericParentModule
	if u != nil {
		parent = &u.scenes
	}
	s.child.Init(parent, s)
	s.register(u, s, name)
}

// Release destroys everything the scene owns and leaves its universe.
func (s *Scene) Release() {
	s.objects.Release()
	s.brains.Release()
	s.materials.Release()
	s.child.Release()
	s.release(s)
}

// Scene reports the scene itself.
func (s *Scene) Scene() kizuna.Entity { return s }

// Parent returns the owning universe, or nil.
func (s *Scene) Parent() *Universe {
	u, _ := s.child.Parent().(*Universe)
	return u
}

// ChildID returns the scene's index inside its universe.
func (s *Scene) ChildID() int { return s.child.ChildID() }

// Registry returns the scene's registry of modules.
func (s *Scene) Registry() *kizuna.Registry { return &s.registry }

// Materials returns the parent module materials bind to.
func (s *Scene) Materials() *kizuna.GenericParentModule { return &s.materials }

// Brains returns the parent module brains bind to.
func (s *Scene) Brains() *kizuna.GenericParentModule { return &s.brains }

// Objects returns the parent module objects bind to.
func (s *Scene) Objects() *kizuna.GenericParentModule { return &s.objects }

// NumberOfDescendants counts everything the scene owns, transitively.
func (s *Scene) NumberOfDescendants() int {
	return s.materials.NumberOfDescendants() +
		s.brains.NumberOfDescendants() +
		s.objects.NumberOfDescendants()
}
