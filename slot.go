// Package kizuna provides slab-allocated entities with stable addresses and
// the two kinds of edges that tie them together: an owning parent/child tree
// and a non-owning master/apprentice graph.
package kizuna

import (
	"fmt"
	"reflect"
)

// Entity is any node that takes part in the object graph. Types become
// entities by embedding Slot and being built through an Allocator.
type Entity interface {
	slot() *Slot
}

// Releaser is implemented by entity types that hold graph edges. Release is
// called by the allocator right before the slot is zeroed and recycled, and
// must unbind every embedded module.
type Releaser interface {
	Release()
}

// Scoped is implemented by entities that belong to a top-level grouping
// (a scene). A scene reports itself.
type Scoped interface {
	Scene() Entity
}

// slotOwner is the type-erased side of an Allocator that a Slot calls back
// into when it is destroyed through the graph.
type slotOwner interface {
	destroyAt(storage, index uint32, version uint32) bool
	name() string
}

// Slot records where an instance lives inside its Allocator. Every arena type
// embeds it; it is filled in by Allocator.Build.
type Slot struct {
	owner   slotOwner
	storage uint32
	index   uint32
	version uint32
	dying   bool
}

func (s *Slot) slot() *Slot { return s }

// Handle is a generation-checked reference to an arena slot. A handle taken
// from a destroyed instance never resolves again, even after the slot is
// reused.
type Handle struct {
	Storage uint32
	Index   uint32
	Version uint32
}

// String renders the handle for debugging purposes.
func (h Handle) String() string {
	return fmt.Sprintf("Handle(%d:%d@%d)", h.Storage, h.Index, h.Version)
}

// IsZero reports whether the handle is the zero value. Built instances never
// have version 0.
func (h Handle) IsZero() bool {
	return h.Version == 0
}

// Handle returns a generation-checked handle to this instance, or the zero
// Handle if the instance was not built by an Allocator.
func (s *Slot) Handle() Handle {
	if s.owner == nil {
		return Handle{}
	}
	return Handle{Storage: s.storage, Index: s.index, Version: s.version}
}

// Built reports whether the instance lives in an allocator slot.
func (s *Slot) Built() bool {
	return s.owner != nil
}

// Dying reports whether the instance is currently being destroyed.
func (s *Slot) Dying() bool {
	return s.dying
}

// Destroy returns the instance to the allocator that built it. It reports
// false for instances that were never built or are already being destroyed.
func (s *Slot) Destroy() bool {
	if s.owner == nil {
		logger.Error("kizuna: destroy of an instance that was not built by an allocator")
		return false
	}
	if s.dying {
		return false
	}
	return s.owner.destroyAt(s.storage, s.index, s.version)
}

// Destroy destroys any arena-built entity without knowing its concrete type.
// A nil entity, typed or not, is logged and refused.
func Destroy(e Entity) bool {
	if isNil(e) {
		logger.Warn("kizuna: destroy of a nil entity")
		return false
	}
	return e.slot().Destroy()
}

// HandleOf returns the generation-checked handle of e.
func HandleOf(e Entity) Handle {
	if isNil(e) {
		return Handle{}
	}
	return e.slot().Handle()
}

// isNil reports whether e is nil or a nil pointer stored in the interface.
func isNil(e Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// sceneOf returns the top-level grouping of e, or nil.
func sceneOf(e Entity) Entity {
	if e == nil {
		return nil
	}
	if s, ok := e.(Scoped); ok {
		return s.Scene()
	}
	return nil
}
