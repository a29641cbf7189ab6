package kizuna

import (
	"iter"
	"log/slog"
)

// ChildModule is the child side of an owning edge. It is embedded by value
// in the child entity and bound in the entity's init.
//
// The zero value is an unbound module.
type ChildModule struct {
	parent *GenericParentModule
	child  Entity
	id     int
}

// Init records child as the entity that embeds the module and, if parent is
// not nil, binds it to parent.
func (m *ChildModule) Init(parent *GenericParentModule, child Entity) {
	m.child = child
	m.parent = nil
	m.id = NoID
	if parent != nil {
		parent.BindChild(m)
	}
}

// Release unbinds the module from its parent. A parent that is tearing down
// unlinks each child before destroying it, so the module is then already
// unbound.
func (m *ChildModule) Release() {
	if m.parent == nil {
		return
	}
	m.parent.UnbindChild(m.id)
}

// Unbind detaches the child from its parent without destroying anything. It
// reports false if the module was not bound.
func (m *ChildModule) Unbind() bool {
	if m.parent == nil {
		return false
	}
	return m.parent.UnbindChild(m.id)
}

// BindToNewParent unbinds from the current parent and binds to parent.
// Passing the current parent is a no-op. Passing nil leaves the child
// unbound.
func (m *ChildModule) BindToNewParent(parent *GenericParentModule) {
	if parent == m.parent {
		return
	}
	m.Unbind()
	if parent != nil {
		parent.BindChild(m)
	}
}

// Parent returns the entity that owns the parent module, or nil.
func (m *ChildModule) Parent() Entity {
	if m.parent == nil {
		return nil
	}
	return m.parent.owner
}

// ParentModule returns the parent module the child is bound to, or nil.
func (m *ChildModule) ParentModule() *GenericParentModule {
	return m.parent
}

// Child returns the entity that embeds the module.
func (m *ChildModule) Child() Entity {
	return m.child
}

// ChildID returns the index of the child inside its parent, or NoID.
func (m *ChildModule) ChildID() int {
	if m.parent == nil {
		return NoID
	}
	return m.id
}

// Bound reports whether the module has a parent.
func (m *ChildModule) Bound() bool {
	return m.parent != nil
}

// GenericParentModule is the parent side of an owning edge. Destroying the
// parent (calling Release from the embedding entity's Release) destroys every
// child bound at that moment.
type GenericParentModule struct {
	owner       Entity
	children    SlotVector[*ChildModule]
	label       string
	tearingDown bool
}

// Init records owner as the embedding entity and registers the module in
// registry under name. registry may be nil.
func (m *GenericParentModule) Init(owner Entity, registry *Registry, name string) {
	m.owner = owner
	m.label = name
	if registry != nil {
		registry.AddIndexable(m, name)
	}
}

// BindChild gives c the lowest free child id and stores it there. It
// returns the new child id, or NoID if c is nil, already bound, or the
// module is tearing down.
func (m *GenericParentModule) BindChild(c *ChildModule) int {
	if c == nil {
		return NoID
	}
	if c.parent != nil {
		logger.Error("kizuna: child is already bound to a parent",
			slog.String("parent", m.label), slog.Int("childID", c.id))
		return NoID
	}
	if m.tearingDown {
		logger.Error("kizuna: bind to a parent that is tearing down", slog.String("parent", m.label))
		return NoID
	}
	id := m.children.Bind(c)
	c.parent = m
	c.id = id
	return id
}

// UnbindChild clears the child slot at id, returns the id to the free queue
// and resets the child's back-pointer. Out-of-range ids and empty slots are
// logged and ignored.
func (m *GenericParentModule) UnbindChild(id int) bool {
	c, ok := m.children.Unbind(id)
	if !ok {
		logger.Error("kizuna: unbind of an empty or out-of-range child id",
			slog.String("parent", m.label), slog.Int("childID", id))
		return false
	}
	c.parent = nil
	c.id = NoID
	return true
}

// Release destroys every bound child. Each child is unlinked before it is
// destroyed so that its own ChildModule.Release finds nothing to undo.
// Children that were not built by an allocator are only unlinked.
func (m *GenericParentModule) Release() {
	m.tearingDown = true
	for id, c := range m.children.Backward() {
		child := c.child
		m.UnbindChild(id)
		if child == nil {
			continue
		}
		if !child.slot().Built() {
			logger.Warn("kizuna: child was not built by an allocator and is only unlinked",
				slog.String("parent", m.label), slog.Int("childID", id))
			continue
		}
		child.slot().Destroy()
	}
	if n := m.children.Count(); n != 0 {
		logger.Error("kizuna: parent still has children after teardown",
			slog.String("parent", m.label), slog.Int("children", n))
	}
	m.tearingDown = false
}

// Owner returns the entity that embeds the module.
func (m *GenericParentModule) Owner() Entity { return m.owner }

// Name returns the name the module was registered under.
func (m *GenericParentModule) Name() string { return m.label }

// Kind reports ParentKind.
func (m *GenericParentModule) Kind() ModuleKind { return ParentKind }

// NumberOfChildren returns the number of bound children.
func (m *GenericParentModule) NumberOfChildren() int { return m.children.Count() }

// Len returns the length of the child vector, holes included.
func (m *GenericParentModule) Len() int { return m.children.Len() }

// NumberOfDescendants counts children and, recursively, the children of
// every parent module the children report through DescendantCounter.
func (m *GenericParentModule) NumberOfDescendants() int {
	n := 0
	for _, c := range m.children.All() {
		n++
		if dc, ok := c.child.(DescendantCounter); ok {
			n += dc.NumberOfDescendants()
		}
	}
	return n
}

// Get returns the child entity with the given child id, or nil.
func (m *GenericParentModule) Get(index int) Entity {
	if c := m.children.At(index); c != nil {
		return c.child
	}
	return nil
}

// All iterates bound children in child-id order, skipping recycled holes.
func (m *GenericParentModule) All() iter.Seq2[int, Entity] {
	return func(yield func(int, Entity) bool) {
		for id, c := range m.children.All() {
			if !yield(id, c.child) {
				return
			}
		}
	}
}

// Backward iterates bound children from the highest child id down.
func (m *GenericParentModule) Backward() iter.Seq2[int, Entity] {
	return func(yield func(int, Entity) bool) {
		for id, c := range m.children.Backward() {
			if !yield(id, c.child) {
				return
			}
		}
	}
}

// DescendantCounter is implemented by entities that own parent modules.
type DescendantCounter interface {
	NumberOfDescendants() int
}
