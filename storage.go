package kizuna

// Storage is one fixed-capacity slab of T. Its backing slice is allocated once
// at full capacity and never grows, so the address of every slot stays valid
// for the lifetime of the Storage.
type Storage[T any, P interface {
	*T
	Entity
}] struct {
	slots    []T
	alive    []bool
	versions []uint32 // bumped on every build, never 0 for a live slot
	free     freeQueue
	next     int // slots below next have been handed out at least once
	live     int
	id       uint32
}

func newStorage[T any, P interface {
	*T
	Entity
}](id uint32, capacity int) *Storage[T, P] {
	return &Storage[T, P]{
		slots:    make([]T, capacity),
		alive:    make([]bool, capacity),
		versions: make([]uint32, capacity),
		free:     make(freeQueue, 0, 8),
		id:       id,
	}
}

// Capacity returns the number of slots in the storage.
func (s *Storage[T, P]) Capacity() int { return len(s.slots) }

// InstanceCount returns the number of live instances in the storage.
func (s *Storage[T, P]) InstanceCount() int { return s.live }

// Full reports whether every slot is in use.
func (s *Storage[T, P]) Full() bool { return s.live >= len(s.slots) }

// ID returns the position of the storage inside its allocator.
func (s *Storage[T, P]) ID() uint32 { return s.id }

// reserve picks the slot for the next instance: the lowest recycled index,
// else the next never-used one. It returns -1 when the storage is full.
func (s *Storage[T, P]) reserve() int {
	if s.Full() {
		return -1
	}
	if len(s.free) > 0 {
		return s.free.pop()
	}
	idx := s.next
	s.next++
	return idx
}

// at returns the address of slot idx.
func (s *Storage[T, P]) at(idx int) P {
	return P(&s.slots[idx])
}

func (s *Storage[T, P]) commit(idx int) uint32 {
	s.alive[idx] = true
	s.versions[idx]++
	if s.versions[idx] == 0 {
		s.versions[idx] = 1
	}
	s.live++
	return s.versions[idx]
}

// release zeroes slot idx and queues it for reuse. The caller has already run
// the instance's Release hook.
func (s *Storage[T, P]) release(idx int) {
	var zero T
	s.slots[idx] = zero
	s.alive[idx] = false
	s.live--
	s.free.push(idx)
}

// isLive reports whether slot idx holds an instance with the given version.
func (s *Storage[T, P]) isLive(idx int, version uint32) bool {
	return idx >= 0 && idx < len(s.slots) && s.alive[idx] && s.versions[idx] == version
}
