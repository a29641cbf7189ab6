package stress

import (
	"errors"
	"fmt"

	"github.com/edwinsyarief/kizuna"
	"github.com/edwinsyarief/kizuna/ontology"
)

type childIDer interface {
	kizuna.Entity
	ChildID() int
}

// Check walks every module of every live participant and verifies that both
// ends of each edge agree, that associations stay inside one scene, and that
// the allocators count what the traversal sees.
func Check(f *ontology.Factory) error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	children := func(owner string, m *kizuna.GenericParentModule, parent kizuna.Entity) int {
		n := 0
		for id, e := range m.All() {
			n++
			c, ok := e.(childIDer)
			if !ok {
				fail("%s: child at %d has no child id", owner, id)
				continue
			}
			if c.ChildID() != id {
				fail("%s: child at %d reports child id %d", owner, id, c.ChildID())
			}
			if m.Owner() != parent {
				fail("%s: module owner mismatch", owner)
			}
		}
		if n != m.NumberOfChildren() {
			fail("%s: iterated %d children, module counts %d", owner, n, m.NumberOfChildren())
		}
		return n
	}

	universes := 0
	for u := range f.Universes() {
		universes++
		children("universe "+u.Name(), u.Scenes(), u)
		for _, e := range u.Scenes().All() {
			if s := e.(*ontology.Scene); s.Parent() != u {
				fail("scene %q: parent does not match its universe", s.Name())
			}
		}
	}

	owned := map[ontology.Datatype]int{}
	scenes := 0
	for s := range f.Scenes() {
		scenes++
		owner := "scene " + s.Name()
		owned[ontology.MaterialType] += children(owner, s.Materials(), s)
		owned[ontology.BrainType] += children(owner, s.Brains(), s)
		owned[ontology.ObjectType] += children(owner, s.Objects(), s)
		for _, e := range s.Objects().All() {
			if o := e.(*ontology.Object); o.Parent() != s {
				fail("object %q: parent does not match its scene", o.Name())
			}
		}
	}
	for m := range f.Materials() {
		owned[ontology.SpeciesType] += children("material "+m.Name(), m.Species(), m)
	}

	for sp := range f.AllSpecies() {
		checkMaster("species "+sp.Name(), sp.Objects().Generic(), sp, ontology.SpeciesTag, fail)
	}
	for b := range f.Brains() {
		checkMaster("brain "+b.Name(), b.Movables().Generic(), b, ontology.BrainTag, fail)
	}

	objects := 0
	for o := range f.Objects() {
		objects++
		for _, tag := range []int{ontology.SpeciesTag, ontology.BrainTag} {
			a := o.ApprenticeModule(tag)
			if !a.Bound() {
				continue
			}
			if a.MasterModule().Get(a.ApprenticeID()) != kizuna.Entity(o) {
				fail("object %q: master slot %d does not point back", o.Name(), a.ApprenticeID())
			}
		}
	}

	counts := map[ontology.Datatype]int{
		ontology.UniverseType: universes,
		ontology.SceneType:    scenes,
		ontology.ObjectType:   objects,
	}
	for d, n := range counts {
		if got := f.InstanceCount(d); got != n {
			fail("%s: allocator counts %d, iteration saw %d", d, got, n)
		}
	}
	for d, n := range owned {
		if got := f.InstanceCount(d); n > got {
			fail("%s: %d owned but only %d alive", d, n, got)
		}
	}
	return errors.Join(errs...)
}

func checkMaster(owner string, m *kizuna.GenericMasterModule, master kizuna.Entity, tag int, fail func(string, ...any)) {
	var scene kizuna.Entity
	if s, ok := master.(kizuna.Scoped); ok {
		scene = s.Scene()
	}
	n := 0
	for id, a := range m.Modules() {
		n++
		if a.ApprenticeID() != id {
			fail("%s: apprentice at %d reports id %d", owner, id, a.ApprenticeID())
		}
		if a.Master() != master {
			fail("%s: apprentice at %d follows another master", owner, id)
		}
		o, ok := a.Apprentice().(*ontology.Object)
		if !ok {
			fail("%s: apprentice at %d is not an object", owner, id)
			continue
		}
		if o.ApprenticeModule(tag) != a {
			fail("%s: apprentice at %d is bound through the wrong tag", owner, id)
		}
		if o.Scene() != scene {
			fail("%s: object %q follows across scenes", owner, o.Name())
		}
	}
	if n != m.NumberOfApprentices() {
		fail("%s: iterated %d apprentices, module counts %d", owner, n, m.NumberOfApprentices())
	}
}
