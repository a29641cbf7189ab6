// Package ontology is a small example world built on kizuna: a universe owns
// scenes, scenes own materials, brains and objects, materials own species,
// and objects follow a species and a brain without being owned by them.
package ontology

import (
	"fmt"
	"strings"

	"github.com/edwinsyarief/kizuna"
)

// Datatype enumerates the concrete participant types, one allocator each.
type Datatype int

const (
	UniverseType Datatype = iota
	SceneType
	MaterialType
	SpeciesType
	BrainType
	ObjectType
	numDatatypes
)

var datatypeNames = [numDatatypes]string{
	UniverseType: "universe",
	SceneType:    "scene",
	MaterialType: "material",
	SpeciesType:  "species",
	BrainType:    "brain",
	ObjectType:   "object",
}

// allocator names, as reported by the memory system
var allocatorNames = [numDatatypes]string{
	UniverseType: "universes",
	SceneType:    "scenes",
	MaterialType: "materials",
	SpeciesType:  "species",
	BrainType:    "brains",
	ObjectType:   "objects",
}

func (d Datatype) String() string {
	if d < 0 || d >= numDatatypes {
		return fmt.Sprintf("Datatype(%d)", int(d))
	}
	return datatypeNames[d]
}

// AllocatorName returns the name the datatype's allocator is registered
// under.
func (d Datatype) AllocatorName() string {
	if d < 0 || d >= numDatatypes {
		return ""
	}
	return allocatorNames[d]
}

// Datatypes returns every datatype in declaration order.
func Datatypes() []Datatype {
	ds := make([]Datatype, numDatatypes)
	for i := range ds {
		ds[i] = Datatype(i)
	}
	return ds
}

// ParseDatatype accepts a datatype name or its allocator name, in any case.
func ParseDatatype(s string) (Datatype, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := range numDatatypes {
		if datatypeNames[i] == s || allocatorNames[i] == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("ontology: unknown datatype %q", s)
}

// Capacities maps each datatype to the number of instances per storage.
type Capacities map[Datatype]int

// DefaultCapacities returns the storage sizes tuned for a typical world:
// one universe, few brains, many objects.
func DefaultCapacities() Capacities {
	return Capacities{
		UniverseType: 1,
		SceneType:    kizuna.DefaultCapacity,
		MaterialType: kizuna.DefaultCapacity,
		SpeciesType:  kizuna.DefaultCapacity,
		BrainType:    16,
		ObjectType:   1024,
	}
}

// Of returns the capacity for d, falling back to the default.
func (c Capacities) Of(d Datatype) int {
	if n, ok := c[d]; ok && n > 0 {
		return n
	}
	return DefaultCapacities()[d]
}
