package kizuna

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// MemorySystem keeps one allocator per concrete type. Allocators are found
// by type through AllocatorOf, or by name for tooling.
//
// Slots of removed allocators are recycled, like entity ids.
type MemorySystem struct {
	items   []GenericAllocator
	types   map[reflect.Type]int
	names   map[string]int
	freeIds []int
	root    reflect.Type
}

// NewMemorySystem creates an empty memory system.
func NewMemorySystem() *MemorySystem {
	return &MemorySystem{
		types: make(map[reflect.Type]int),
		names: make(map[string]int),
	}
}

// AllocatorStats is a snapshot of one allocator's topology.
type AllocatorStats struct {
	Name      string `json:"name" yaml:"name"`
	Capacity  int    `json:"capacity" yaml:"capacity"`
	Storages  int    `json:"storages" yaml:"storages"`
	Instances int    `json:"instances" yaml:"instances"`
}

// Register stores a for the type T and returns its id. It panics if an
// allocator for T or one with the same name already exists.
func Register[T any, P interface {
	*T
	Entity
}](ms *MemorySystem, a *Allocator[T, P]) int {
	t := reflect.TypeFor[T]()
	if _, ok := ms.types[t]; ok {
		panic(fmt.Sprintf("kizuna: allocator for %s already registered", t))
	}
	if _, ok := ms.names[a.Name()]; ok {
		panic(fmt.Sprintf("kizuna: allocator name %q already registered", a.Name()))
	}
	var id int
	if len(ms.freeIds) > 0 {
		id = ms.freeIds[len(ms.freeIds)-1]
		ms.freeIds = ms.freeIds[:len(ms.freeIds)-1]
		ms.items[id] = a
	} else {
		ms.items = append(ms.items, a)
		id = len(ms.items) - 1
	}
	ms.types[t] = id
	ms.names[a.Name()] = id
	return id
}

// GetOrCreate returns the allocator for T, creating and registering one with
// the given name and capacity if none exists.
func GetOrCreate[T any, P interface {
	*T
	Entity
}](ms *MemorySystem, name string, capacity int) *Allocator[T, P] {
	if a, ok := AllocatorOf[T, P](ms); ok {
		return a
	}
	a := NewAllocator[T, P](name, capacity)
	Register(ms, a)
	return a
}

// AllocatorOf returns the allocator registered for T.
func AllocatorOf[T any, P interface {
	*T
	Entity
}](ms *MemorySystem) (*Allocator[T, P], bool) {
	id, ok := ms.types[reflect.TypeFor[T]()]
	if !ok {
		return nil, false
	}
	a, ok := ms.items[id].(*Allocator[T, P])
	return a, ok
}

// SetRoot marks the allocator of T as the root of the object graph. Clear
// tears the root allocator down before the others.
func SetRoot[T any](ms *MemorySystem) {
	ms.root = reflect.TypeFor[T]()
}

// Allocator returns the allocator registered under name.
func (ms *MemorySystem) Allocator(name string) (GenericAllocator, bool) {
	id, ok := ms.names[name]
	if !ok {
		return nil, false
	}
	return ms.items[id], true
}

// Has reports whether an allocator is registered under name.
func (ms *MemorySystem) Has(name string) bool {
	_, ok := ms.names[name]
	return ok
}

// Remove clears the allocator registered under name and forgets it.
func (ms *MemorySystem) Remove(name string) {
	id, ok := ms.names[name]
	if !ok {
		return
	}
	ms.items[id].Clear()
	for t, tid := range ms.types {
		if tid == id {
			delete(ms.types, t)
		}
	}
	delete(ms.names, name)
	ms.items[id] = nil
	ms.freeIds = append(ms.freeIds, id)
}

// NumberOfAllocators returns the number of registered allocators.
func (ms *MemorySystem) NumberOfAllocators() int {
	return len(ms.names)
}

// Stats returns a snapshot of every allocator, sorted by name.
func (ms *MemorySystem) Stats() []AllocatorStats {
	stats := make([]AllocatorStats, 0, len(ms.names))
	for _, a := range ms.items {
		if a == nil {
			continue
		}
		stats = append(stats, AllocatorStats{
			Name:      a.Name(),
			Capacity:  a.Capacity(),
			Storages:  a.StorageCount(),
			Instances: a.InstanceCount(),
		})
	}
	slices.SortFunc(stats, func(x, y AllocatorStats) int {
		return strings.Compare(x.Name, y.Name)
	})
	return stats
}

// Clear destroys every instance of every allocator. The root allocator, if
// one was set, is cleared first so that ownership cascades run from the top;
// the others are then swept in registration order.
func (ms *MemorySystem) Clear() {
	if id, ok := ms.types[ms.root]; ok && ms.root != nil {
		ms.items[id].Clear()
	}
	for _, a := range ms.items {
		if a != nil {
			a.Clear()
		}
	}
}
