package kizuna

import (
	"iter"
	"log/slog"
)

// ApprenticeModule is the apprentice side of a non-owning edge. Destroying
// either end only unlinks the edge. An entity may embed several apprentice
// modules, one per kind of master it follows.
//
// The zero value is an unbound module.
type ApprenticeModule struct {
	master     *GenericMasterModule
	apprentice Entity
	id         int
}

// Init records apprentice as the entity that embeds the module and, if
// master is not nil, binds it to master.
func (m *ApprenticeModule) Init(master *GenericMasterModule, apprentice Entity) {
	m.apprentice = apprentice
	m.master = nil
	m.id = NoID
	if master != nil {
		master.BindApprenticeModule(m)
	}
}

// Release unbinds the module if it is bound. Masters usually outlive many of
// their apprentices and must never keep a slot pointing at a dead one.
func (m *ApprenticeModule) Release() {
	m.Unbind()
}

// Unbind detaches the apprentice from its master. It reports false if the
// module was not bound.
func (m *ApprenticeModule) Unbind() bool {
	if m.master == nil {
		return false
	}
	return m.master.UnbindApprenticeModule(m.id)
}

// Rebind unbinds from the current master and binds to master. Rebinding to
// the current master is a no-op; rebinding to nil leaves the module unbound.
func (m *ApprenticeModule) Rebind(master *GenericMasterModule) {
	if master == m.master {
		return
	}
	m.Unbind()
	if master != nil {
		master.BindApprenticeModule(m)
	}
}

// UnbindFromAnyMasterBelongingToOtherScene unbinds the module when its
// master's scene differs from scene. It is used after a subgraph moves to
// another scene, where cross-scene associations must not survive.
func (m *ApprenticeModule) UnbindFromAnyMasterBelongingToOtherScene(scene Entity) {
	if m.master == nil {
		return
	}
	if sceneOf(m.master.owner) != scene {
		m.Unbind()
	}
}

// Master returns the entity that owns the master module, or nil.
func (m *ApprenticeModule) Master() Entity {
	if m.master == nil {
		return nil
	}
	return m.master.owner
}

// MasterModule returns the master module the apprentice is bound to, or nil.
func (m *ApprenticeModule) MasterModule() *GenericMasterModule {
	return m.master
}

// Apprentice returns the entity that embeds the module.
func (m *ApprenticeModule) Apprentice() Entity {
	return m.apprentice
}

// ApprenticeID returns the index of the apprentice inside its master, or NoID.
func (m *ApprenticeModule) ApprenticeID() int {
	if m.master == nil {
		return NoID
	}
	return m.id
}

// Bound reports whether the module has a master.
func (m *ApprenticeModule) Bound() bool {
	return m.master != nil
}

// MasterOf returns the apprentice's master as its concrete type. It reports
// false when the module is unbound or the master is of another type.
func MasterOf[M Entity](m *ApprenticeModule) (M, bool) {
	master, ok := m.Master().(M)
	return master, ok
}

// GenericMasterModule is the master side of a non-owning edge.
type GenericMasterModule struct {
	owner       Entity
	apprentices SlotVector[*ApprenticeModule]
	label       string
}

// Init records owner as the embedding entity and registers the module in
// registry under name. registry may be nil.
func (m *GenericMasterModule) Init(owner Entity, registry *Registry, name string) {
	m.owner = owner
	m.label = name
	if registry != nil {
		registry.AddIndexable(m, name)
	}
}

// BindApprenticeModule gives a the lowest free apprentice id and stores it
// there. It returns the new id, or NoID if a is nil or already bound.
func (m *GenericMasterModule) BindApprenticeModule(a *ApprenticeModule) int {
	if a == nil {
		return NoID
	}
	if a.master != nil {
		logger.Error("kizuna: apprentice is already bound to a master",
			slog.String("master", m.label), slog.Int("apprenticeID", a.id))
		return NoID
	}
	id := m.apprentices.Bind(a)
	a.master = m
	a.id = id
	return id
}

// UnbindApprenticeModule clears the apprentice slot at id and resets the
// apprentice's back-pointer. Out-of-range ids and empty slots are logged and
// ignored.
func (m *GenericMasterModule) UnbindApprenticeModule(id int) bool {
	a, ok := m.apprentices.Unbind(id)
	if !ok {
		logger.Error("kizuna: unbind of an empty or out-of-range apprentice id",
			slog.String("master", m.label), slog.Int("apprenticeID", id))
		return false
	}
	a.master = nil
	a.id = NoID
	return true
}

// UnbindAllApprenticeModules unbinds every apprentice. Apprentices stay alive.
func (m *GenericMasterModule) UnbindAllApprenticeModules() {
	for id := range m.apprentices.Backward() {
		m.UnbindApprenticeModule(id)
	}
}

// UnbindAllApprenticeModulesBelongingToOtherScenes unbinds every apprentice
// whose scene is not scene, including apprentices that belong to no scene.
func (m *GenericMasterModule) UnbindAllApprenticeModulesBelongingToOtherScenes(scene Entity) {
	for id, a := range m.apprentices.Backward() {
		if sceneOf(a.apprentice) != scene {
			m.UnbindApprenticeModule(id)
		}
	}
}

// Release unbinds every apprentice through the single-unbind path. It is
// called from the embedding entity's Release.
func (m *GenericMasterModule) Release() {
	m.UnbindAllApprenticeModules()
}

// Owner returns the entity that embeds the module.
func (m *GenericMasterModule) Owner() Entity { return m.owner }

// Name returns the name the module was registered under.
func (m *GenericMasterModule) Name() string { return m.label }

// Kind reports MasterKind.
func (m *GenericMasterModule) Kind() ModuleKind { return MasterKind }

// NumberOfApprentices returns the number of bound apprentices.
func (m *GenericMasterModule) NumberOfApprentices() int { return m.apprentices.Count() }

// Len returns the length of the apprentice vector, holes included.
func (m *GenericMasterModule) Len() int { return m.apprentices.Len() }

// Get returns the entity that embeds the apprentice module with the given
// id, or nil.
func (m *GenericMasterModule) Get(index int) Entity {
	if a := m.apprentices.At(index); a != nil {
		return a.apprentice
	}
	return nil
}

// All iterates the apprentice entities in id order, skipping recycled holes.
func (m *GenericMasterModule) All() iter.Seq2[int, Entity] {
	return func(yield func(int, Entity) bool) {
		for id, a := range m.apprentices.All() {
			if !yield(id, a.apprentice) {
				return
			}
		}
	}
}

// Modules iterates the bound apprentice modules themselves.
func (m *GenericMasterModule) Modules() iter.Seq2[int, *ApprenticeModule] {
	return m.apprentices.All()
}

// MasterModule is a master module whose owner has a known concrete type.
type MasterModule[M Entity] struct {
	GenericMasterModule
	master M
}

// Init records master as the embedding entity and registers the module.
func (m *MasterModule[M]) Init(master M, registry *Registry, name string) {
	m.master = master
	m.GenericMasterModule.Init(master, registry, name)
}

// Master returns the embedding entity with its concrete type.
func (m *MasterModule[M]) Master() M { return m.master }

// Generic returns the type-erased module that apprentices bind to.
func (m *MasterModule[M]) Generic() *GenericMasterModule { return &m.GenericMasterModule }
