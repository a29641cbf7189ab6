package ontology

import "github.com/edwinsyarief/kizuna"

// Material belongs to a scene and owns the species drawn with it.
type Material struct {
	kizuna.Slot
	named
	registry kizuna.Registry
	child    kizuna.ChildModule
	species  kizuna.GenericParentModule
}

func (m *Material) init(s *Scene, name string) {
	m.species.Init(m, &m.registry, "species")
	var parent *kizuna.GenericParentModule
	var u *Universe
	if s != nil {
		parent = &s.materials
		u = s.universe
	}
	m.child.Init(parent, m)
	m.register(u, m, name)
}

// Release destroys the material's species.
func (m *Material) Release() {
	m.species.Release()
	m.child.Release()
	m.release(m)
}

// Scene returns the owning scene, or nil.
func (m *Material) Scene() kizuna.Entity { return m.child.Parent() }

// Parent returns the owning scene, or nil.
func (m *Material) Parent() *Scene {
	s, _ := m.child.Parent().(*Scene)
	return s
}

// SetParent moves the material to scene. Objects of the material's species
// that live in another scene stop following those species.
func (m *Material) SetParent(scene *Scene) {
	if scene == nil || scene == m.Parent() {
		return
	}
	m.child.BindToNewParent(&scene.materials)
	m.move(scene.universe, m)
	for _, e := range m.species.All() {
		sp := e.(*Species)
		sp.move(scene.universe, sp)
		sp.objects.UnbindAllApprenticeModulesBelongingToOtherScenes(scene)
	}
}

// Species returns the parent module species bind to.
func (m *Material) Species() *kizuna.GenericParentModule { return &m.species }

// NumberOfDescendants counts the material's species.
func (m *Material) NumberOfDescendants() int { return m.species.NumberOfDescendants() }

// Registry returns the material's registry of modules.
func (m *Material) Registry() *kizuna.Registry { return &m.registry }

// ChildID returns the material's index inside its scene.
func (m *Material) ChildID() int { return m.child.ChildID() }
