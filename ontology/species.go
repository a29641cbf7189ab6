package ontology

import "github.com/edwinsyarief/kizuna"

// Species belongs to a material and is followed by the objects built from
// it. Destroying a species leaves its objects alive.
type Species struct {
	kizuna.Slot
	named
	registry kizuna.Registry
	child    kizuna.ChildModule
	objects  kizuna.MasterModule[*Species]
}

func (sp *Species) init(m *Material, name string) {
	sp.objects.Init(sp, &sp.registry, "objects")
	var parent *kizuna.GenericParentModule
	var u *Universe
	if m != nil {
		parent = &m.species
		u = m.universe
	}
	sp.child.Init(parent, sp)
	sp.register(u, sp, name)
}

// Release unlinks the species' objects and leaves its material.
func (sp *Species) Release() {
	sp.objects.Release()
	sp.child.Release()
	sp.release(sp)
}

// Material returns the owning material, or nil.
func (sp *Species) Material() *Material {
	m, _ := sp.child.Parent().(*Material)
	return m
}

// Scene returns the scene of the owning material, or nil.
func (sp *Species) Scene() kizuna.Entity {
	if m := sp.Material(); m != nil {
		return m.Scene()
	}
	return nil
}

// Objects returns the master module objects follow.
func (sp *Species) Objects() *kizuna.MasterModule[*Species] { return &sp.objects }

// NumberOfObjects returns the number of objects following the species.
func (sp *Species) NumberOfObjects() int { return sp.objects.NumberOfApprentices() }

// Registry returns the species' registry of modules.
func (sp *Species) Registry() *kizuna.Registry { return &sp.registry }

// ChildID returns the species' index inside its material.
func (sp *Species) ChildID() int { return sp.child.ChildID() }
