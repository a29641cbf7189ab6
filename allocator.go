package kizuna

import (
	"fmt"
	"iter"
	"log/slog"
)

// DefaultCapacity is the storage capacity used when NewAllocator is given 0.
const DefaultCapacity = 256

// GenericAllocator is the type-erased view of an Allocator, used by the
// MemorySystem and by tooling that reports arena topology.
type GenericAllocator interface {
	Name() string
	Capacity() int
	StorageCount() int
	InstanceCount() int
	Clear()
}

// Allocator owns a growable sequence of fixed-capacity storages for one
// concrete type. Instances are built in place and keep their address until
// they are destroyed; a full storage never blocks allocation, a new one is
// appended instead. Storages are never moved, shrunk, or removed.
//
// P is always *T; it exists so the allocator can reach the embedded Slot.
type Allocator[T any, P interface {
	*T
	Entity
}] struct {
	storages []*Storage[T, P]
	label    string
	capacity int
	live     int
	cursor   int // storages below cursor are known to be full
}

// NewAllocator creates an allocator whose storages hold capacity instances
// each. A capacity of 0 selects DefaultCapacity. It panics on a negative
// capacity.
func NewAllocator[T any, P interface {
	*T
	Entity
}](name string, capacity int) *Allocator[T, P] {
	if capacity < 0 {
		panic(fmt.Sprintf("kizuna: negative capacity %d for allocator %q", capacity, name))
	}
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	return &Allocator[T, P]{
		storages: make([]*Storage[T, P], 0, 4),
		label:    name,
		capacity: capacity,
	}
}

// Build constructs a new instance in the first storage with a free slot,
// appending a storage when all of them are full, and returns its stable
// address. init runs against the zeroed slot and is where embedded modules
// bind to their parents and masters. init may be nil.
func (a *Allocator[T, P]) Build(init func(P)) P {
	st, idx := a.reserve()
	p := st.at(idx)
	sl := Slot{
		owner:   a,
		storage: st.id,
		index:   uint32(idx),
		version: st.commit(idx),
	}
	*p.slot() = sl
	a.live++
	if init != nil {
		init(p)
		// init may have assigned the whole struct.
		*p.slot() = sl
	}
	return p
}

func (a *Allocator[T, P]) reserve() (*Storage[T, P], int) {
	for ; a.cursor < len(a.storages); a.cursor++ {
		st := a.storages[a.cursor]
		if idx := st.reserve(); idx >= 0 {
			return st, idx
		}
	}
	st := newStorage[T, P](uint32(len(a.storages)), a.capacity)
	a.storages = append(a.storages, st)
	return st, st.reserve()
}

// Destroy runs the instance's Release hook, zeroes its slot and returns the
// slot to the storage's free queue. Other slots are never moved. It reports
// false if p was not built by this allocator or is already dead or dying.
func (a *Allocator[T, P]) Destroy(p P) bool {
	if p == nil {
		return false
	}
	sl := p.slot()
	if sl.owner == nil {
		logger.Warn("kizuna: destroy of an instance that is not alive", slog.String("allocator", a.label))
		return false
	}
	if sl.owner != slotOwner(a) {
		logger.Error("kizuna: destroy through a foreign allocator", slog.String("allocator", a.label))
		return false
	}
	if sl.dying {
		return false
	}
	return a.destroyAt(sl.storage, sl.index, sl.version)
}

func (a *Allocator[T, P]) destroyAt(storage, index uint32, version uint32) bool {
	if int(storage) >= len(a.storages) {
		logger.Error("kizuna: storage id out of range",
			slog.String("allocator", a.label), slog.Int("storage", int(storage)))
		return false
	}
	st := a.storages[storage]
	idx := int(index)
	if !st.isLive(idx, version) {
		logger.Warn("kizuna: destroy of a dead slot",
			slog.String("allocator", a.label), slog.Int("storage", int(storage)), slog.Int("slot", idx))
		return false
	}
	p := st.at(idx)
	sl := p.slot()
	if sl.dying {
		return false
	}
	sl.dying = true
	if r, ok := any(p).(Releaser); ok {
		r.Release()
	}
	st.release(idx)
	a.live--
	if int(storage) < a.cursor {
		a.cursor = int(storage)
	}
	return true
}

// Resolve returns the live instance h refers to. It reports false for
// handles whose instance has been destroyed, even if the slot was reused.
func (a *Allocator[T, P]) Resolve(h Handle) (P, bool) {
	if h.IsZero() || int(h.Storage) >= len(a.storages) {
		return nil, false
	}
	st := a.storages[h.Storage]
	if !st.isLive(int(h.Index), h.Version) {
		return nil, false
	}
	return st.at(int(h.Index)), true
}

// All iterates live instances in storage then slot order. Destroying the
// yielded instance while iterating is allowed.
func (a *Allocator[T, P]) All() iter.Seq[P] {
	return func(yield func(P) bool) {
		for _, st := range a.storages {
			for idx := range st.slots {
				if st.alive[idx] && !st.at(idx).slot().dying {
					if !yield(st.at(idx)) {
						return
					}
				}
			}
		}
	}
}

// Clear destroys every live instance, last storage and highest slot first.
// Cascades started by one destruction may destroy later candidates; those are
// skipped.
func (a *Allocator[T, P]) Clear() {
	for s := len(a.storages) - 1; s >= 0; s-- {
		st := a.storages[s]
		for idx := len(st.slots) - 1; idx >= 0; idx-- {
			if st.alive[idx] {
				a.destroyAt(uint32(s), uint32(idx), st.versions[idx])
			}
		}
	}
}

// Storage returns the storage at position i, or nil.
func (a *Allocator[T, P]) Storage(i int) *Storage[T, P] {
	if i < 0 || i >= len(a.storages) {
		return nil
	}
	return a.storages[i]
}

// Name returns the allocator's name.
func (a *Allocator[T, P]) Name() string { return a.label }

func (a *Allocator[T, P]) name() string { return a.label }

// Capacity returns the number of slots per storage.
func (a *Allocator[T, P]) Capacity() int { return a.capacity }

// StorageCount returns the number of storages appended so far.
func (a *Allocator[T, P]) StorageCount() int { return len(a.storages) }

// InstanceCount returns the number of live instances across all storages.
func (a *Allocator[T, P]) InstanceCount() int { return a.live }
