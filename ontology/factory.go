package ontology

import (
	"iter"
	"log/slog"

	"github.com/edwinsyarief/kizuna"
)

// Factory builds participants in per-type allocators held by a memory
// system. Every participant binds to its parent and masters while it is
// being built.
type Factory struct {
	memory    *kizuna.MemorySystem
	events    kizuna.EventBus
	universes *kizuna.Allocator[Universe, *Universe]
	scenes    *kizuna.Allocator[Scene, *Scene]
	materials *kizuna.Allocator[Material, *Material]
	species   *kizuna.Allocator[Species, *Species]
	brains    *kizuna.Allocator[Brain, *Brain]
	objects   *kizuna.Allocator[Object, *Object]
}

// NewFactory creates a factory whose allocators use caps. Missing or
// non-positive entries fall back to DefaultCapacities.
func NewFactory(caps Capacities) *Factory {
	ms := kizuna.NewMemorySystem()
	f := &Factory{
		memory:    ms,
		universes: kizuna.GetOrCreate[Universe](ms, UniverseType.AllocatorName(), caps.Of(UniverseType)),
		scenes:    kizuna.GetOrCreate[Scene](ms, SceneType.AllocatorName(), caps.Of(SceneType)),
		materials: kizuna.GetOrCreate[Material](ms, MaterialType.AllocatorName(), caps.Of(MaterialType)),
		species:   kizuna.GetOrCreate[Species](ms, SpeciesType.AllocatorName(), caps.Of(SpeciesType)),
		brains:    kizuna.GetOrCreate[Brain](ms, BrainType.AllocatorName(), caps.Of(BrainType)),
		objects:   kizuna.GetOrCreate[Object](ms, ObjectType.AllocatorName(), caps.Of(ObjectType)),
	}
	kizuna.SetRoot[Universe](ms)
	return f
}

// CreateUniverse builds a universe.
func (f *Factory) CreateUniverse(name string) *Universe {
	universe := f.universes.Build(func(u *Universe) {
		f.stamp(&u.named, UniverseType)
		u.init(name)
	})
	f.created(UniverseType, universe, name)
	return universe
}

// CreateScene builds a scene owned by u. A nil universe yields an unowned
// scene.
func (f *Factory) CreateScene(u *Universe, name string) *Scene {
	scene := f.scenes.Build(func(s *Scene) {
		f.stamp(&s.named, SceneType)
		s.init(u, name)
	})
	f.created(SceneType, scene, name)
	return scene
}

// CreateMaterial builds a material owned by s.
func (f *Factory) CreateMaterial(s *Scene, name string) *Material {
	material := f.materials.Build(func(m *Material) {
		f.stamp(&m.named, MaterialType)
		m.init(s, name)
	})
	f.created(MaterialType, material, name)
	return material
}

// CreateSpecies builds a species owned by m.
func (f *Factory) CreateSpecies(m *Material, name string) *Species {
	species := f.species.Build(func(sp *Species) {
		f.stamp(&sp.named, SpeciesType)
		sp.init(m, name)
	})
	f.created(SpeciesType, species, name)
	return species
}

// CreateBrain builds a brain owned by s.
func (f *Factory) CreateBrain(s *Scene, name string) *Brain {
	brain := f.brains.Build(func(b *Brain) {
		f.stamp(&b.named, BrainType)
		b.init(s, name)
	})
	f.created(BrainType, brain, name)
	return brain
}

// CreateObject builds an object owned by s that follows sp and b. Either
// master may be nil.
func (f *Factory) CreateObject(s *Scene, sp *Species, b *Brain, name string) *Object {
	object := f.objects.Build(func(o *Object) {
		f.stamp(&o.named, ObjectType)
		o.init(s, sp, b, name)
	})
	f.created(ObjectType, object, name)
	return object
}

func (f *Factory) stamp(n *named, d Datatype) {
	n.kind = d
	n.events = &f.events
}

func (f *Factory) created(d Datatype, e kizuna.Entity, name string) {
	kizuna.Publish(&f.events, Created{Type: d, Handle: kizuna.HandleOf(e), Name: name})
}

// Events returns the bus Created and Destroyed are published on.
func (f *Factory) Events() *kizuna.EventBus { return &f.events }

// Destroy destroys any participant and, through ownership, everything it
// owns. It reports false for nil participants.
func (f *Factory) Destroy(e kizuna.Entity) bool {
	return kizuna.Destroy(e)
}

// Memory returns the memory system behind the factory.
func (f *Factory) Memory() *kizuna.MemorySystem { return f.memory }

// Stats returns the topology of every allocator, sorted by name.
func (f *Factory) Stats() []kizuna.AllocatorStats { return f.memory.Stats() }

// InstanceCount returns the number of live participants of type d.
func (f *Factory) InstanceCount(d Datatype) int {
	a, ok := f.memory.Allocator(d.AllocatorName())
	if !ok {
		return 0
	}
	return a.InstanceCount()
}

// Universes iterates the live universes.
func (f *Factory) Universes() iter.Seq[*Universe] { return f.universes.All() }

// Scenes iterates the live scenes, owned or not.
func (f *Factory) Scenes() iter.Seq[*Scene] { return f.scenes.All() }

// Materials iterates the live materials.
func (f *Factory) Materials() iter.Seq[*Material] { return f.materials.All() }

// AllSpecies iterates the live species.
func (f *Factory) AllSpecies() iter.Seq[*Species] { return f.species.All() }

// Brains iterates the live brains.
func (f *Factory) Brains() iter.Seq[*Brain] { return f.brains.All() }

// Objects iterates the live objects.
func (f *Factory) Objects() iter.Seq[*Object] { return f.objects.All() }

// Clear destroys every participant, universes first.
func (f *Factory) Clear() {
	kizuna.Logger().Debug("ontology: clearing factory", slog.Any("allocators", f.memory.Stats()))
	f.memory.Clear()
}
