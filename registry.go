package kizuna

import (
	"slices"
	"strings"
)

// ModuleKind tags the concrete type behind an Indexable so callers can down
// cast without reflection.
type ModuleKind uint8

const (
	ParentKind ModuleKind = iota + 1
	MasterKind
)

func (k ModuleKind) String() string {
	switch k {
	case ParentKind:
		return "parent"
	case MasterKind:
		return "master"
	default:
		return "unknown"
	}
}

// Indexable is a module whose entities can be reached by index, i.e. a
// GenericParentModule or a GenericMasterModule.
type Indexable interface {
	Kind() ModuleKind
	Name() string
	Get(index int) Entity
	Len() int
}

// Registry maps names to the indexable modules and named entities of one
// owning entity. A name maps to at most one module; registering a module
// under a taken name replaces the previous one.
type Registry struct {
	indexables map[string]Indexable
	entities   map[string]Entity
	names      []string // sorted union of both key sets
}

// NewRegistry creates an empty registry. The zero value is also ready to use.
func NewRegistry() *Registry {
	return &Registry{}
}

// genericMaster is implemented by typed master modules.
type genericMaster interface {
	Generic() *GenericMasterModule
}

// AddIndexable makes ix reachable under name. Empty names are ignored. A
// typed MasterModule is stored as its generic module.
func (r *Registry) AddIndexable(ix Indexable, name string) {
	if name == "" || ix == nil {
		return
	}
	if g, ok := ix.(genericMaster); ok {
		ix = g.Generic()
	}
	if r.indexables == nil {
		r.indexables = make(map[string]Indexable)
	}
	r.indexables[name] = ix
	r.addName(name)
}

// EraseIndexable removes the module registered under name.
func (r *Registry) EraseIndexable(name string) {
	if _, ok := r.indexables[name]; !ok {
		return
	}
	delete(r.indexables, name)
	r.dropName(name)
}

// AddEntity makes e reachable under name. Empty names are ignored.
func (r *Registry) AddEntity(e Entity, name string) {
	if name == "" || e == nil {
		return
	}
	if r.entities == nil {
		r.entities = make(map[string]Entity)
	}
	r.entities[name] = e
	r.addName(name)
}

// EraseEntity removes the entity registered under name.
func (r *Registry) EraseEntity(name string) {
	if _, ok := r.entities[name]; !ok {
		return
	}
	delete(r.entities, name)
	r.dropName(name)
}

func (r *Registry) addName(name string) {
	if i, found := slices.BinarySearch(r.names, name); !found {
		r.names = slices.Insert(r.names, i, name)
	}
}

func (r *Registry) dropName(name string) {
	if r.IsName(name) {
		return
	}
	if i, found := slices.BinarySearch(r.names, name); found {
		r.names = slices.Delete(r.names, i, i+1)
	}
}

// IsName reports whether name refers to a module or an entity.
func (r *Registry) IsName(name string) bool {
	return r.IsIndexable(name) || r.IsEntity(name)
}

// IsIndexable reports whether name refers to a module.
func (r *Registry) IsIndexable(name string) bool {
	_, ok := r.indexables[name]
	return ok
}

// IsEntity reports whether name refers to an entity.
func (r *Registry) IsEntity(name string) bool {
	_, ok := r.entities[name]
	return ok
}

// Indexable returns the module registered under name.
func (r *Registry) Indexable(name string) (Indexable, bool) {
	ix, ok := r.indexables[name]
	return ix, ok
}

// ParentModule returns the module registered under name if it is a parent
// module.
func (r *Registry) ParentModule(name string) (*GenericParentModule, bool) {
	ix, ok := r.indexables[name]
	if !ok || ix.Kind() != ParentKind {
		return nil, false
	}
	m, ok := ix.(*GenericParentModule)
	return m, ok
}

// MasterModule returns the module registered under name if it is a master
// module.
func (r *Registry) MasterModule(name string) (*GenericMasterModule, bool) {
	ix, ok := r.indexables[name]
	if !ok || ix.Kind() != MasterKind {
		return nil, false
	}
	m, ok := ix.(*GenericMasterModule)
	return m, ok
}

// IndexedEntity returns entity index of the module registered under name, or
// nil.
func (r *Registry) IndexedEntity(name string, index int) Entity {
	if ix, ok := r.indexables[name]; ok {
		return ix.Get(index)
	}
	return nil
}

// Entity returns the entity registered under name, or nil.
func (r *Registry) Entity(name string) Entity {
	return r.entities[name]
}

// EntityNames returns the sorted names of registered entities.
func (r *Registry) EntityNames() []string {
	names := make([]string, 0, len(r.entities))
	for name := range r.entities {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Completions returns the sorted names that start with input.
func (r *Registry) Completions(input string) []string {
	start, _ := slices.BinarySearch(r.names, input)
	var out []string
	for _, name := range r.names[start:] {
		if !strings.HasPrefix(name, input) {
			break
		}
		out = append(out, name)
	}
	return out
}

// NumberOfCompletions returns the number of names that start with input.
func (r *Registry) NumberOfCompletions(input string) int {
	return len(r.Completions(input))
}

// Complete extends input to the longest prefix shared by all of its
// completions. Input with no completions is returned unchanged.
func (r *Registry) Complete(input string) string {
	completions := r.Completions(input)
	switch len(completions) {
	case 0:
		return input
	case 1:
		return completions[0]
	}
	// The set is sorted, so the common prefix of first and last is the
	// common prefix of all of them.
	first, last := completions[0], completions[len(completions)-1]
	n := min(len(first), len(last))
	i := 0
	for i < n && first[i] == last[i] {
		i++
	}
	return first[:i]
}
