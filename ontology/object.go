package ontology

import "github.com/edwinsyarief/kizuna"

// Apprentice module tags of an Object.
const (
	SpeciesTag = iota
	BrainTag
	numApprenticeTags
)

// Object is owned by a scene and follows at most one species and one brain.
type Object struct {
	kizuna.Slot
	named
	child       kizuna.ChildModule
	apprentices [numApprenticeTags]kizuna.ApprenticeModule
}

func (o *Object) init(s *Scene, sp *Species, b *Brain, name string) {
	var parent *kizuna.GenericParentModule
	var u *Universe
	if s != nil {
		parent = &s.objects
		u = s.universe
	}
	o.child.Init(parent, o)
	var speciesMaster, brainMaster *kizuna.GenericMasterModule
	if sp != nil {
		speciesMaster = sp.objects.Generic()
	}
	if b != nil {
		brainMaster = b.movables.Generic()
	}
	o.apprentices[SpeciesTag].Init(speciesMaster, o)
	o.apprentices[BrainTag].Init(brainMaster, o)
	o.register(u, o, name)
}

// Release unlinks the object from its masters and its scene.
func (o *Object) Release() {
	for i := range o.apprentices {
		o.apprentices[i].Release()
	}
	o.child.Release()
	o.release(o)
}

// ApprenticeModule returns the apprentice module with the given tag, or nil.
func (o *Object) ApprenticeModule(tag int) *kizuna.ApprenticeModule {
	if tag < 0 || tag >= numApprenticeTags {
		return nil
	}
	return &o.apprentices[tag]
}

// Scene returns the owning scene, or nil.
func (o *Object) Scene() kizuna.Entity { return o.child.Parent() }

// Parent returns the owning scene, or nil.
func (o *Object) Parent() *Scene {
	s, _ := o.child.Parent().(*Scene)
	return s
}

// ChildID returns the object's index inside its scene.
func (o *Object) ChildID() int { return o.child.ChildID() }

// Species returns the species the object follows, or nil.
func (o *Object) Species() *Species {
	sp, _ := kizuna.MasterOf[*Species](&o.apprentices[SpeciesTag])
	return sp
}

// Brain returns the brain the object follows, or nil.
func (o *Object) Brain() *Brain {
	b, _ := kizuna.MasterOf[*Brain](&o.apprentices[BrainTag])
	return b
}

// SetSpecies makes the object follow sp. A nil species unlinks it.
func (o *Object) SetSpecies(sp *Species) {
	var m *kizuna.GenericMasterModule
	if sp != nil {
		m = sp.objects.Generic()
	}
	o.apprentices[SpeciesTag].Rebind(m)
}

// SetBrain makes the object follow b. A nil brain unlinks it.
func (o *Object) SetBrain(b *Brain) {
	var m *kizuna.GenericMasterModule
	if b != nil {
		m = b.movables.Generic()
	}
	o.apprentices[BrainTag].Rebind(m)
}

// SetParent moves the object to scene and drops every association with a
// master that lives in another scene.
func (o *Object) SetParent(scene *Scene) {
	if scene == nil || scene == o.Parent() {
		return
	}
	o.child.BindToNewParent(&scene.objects)
	o.move(scene.universe, o)
	for i := range o.apprentices {
		o.apprentices[i].UnbindFromAnyMasterBelongingToOtherScene(scene)
	}
}
