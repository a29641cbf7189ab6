package kizuna_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/edwinsyarief/kizuna"
)

// node is a test entity that carries one module of each kind.
type node struct {
	kizuna.Slot
	Name        string
	Value       int64
	scene       *node
	registry    kizuna.Registry
	child       kizuna.ChildModule
	children    kizuna.GenericParentModule
	apprentice  kizuna.ApprenticeModule
	apprentices kizuna.GenericMasterModule
	released    *int
}

func (n *node) Release() {
	n.apprentices.Release()
	n.children.Release()
	n.apprentice.Release()
	n.child.Release()
	if n.released != nil {
		*n.released++
	}
}

func (n *node) Scene() kizuna.Entity {
	if n.scene == nil {
		return nil
	}
	return n.scene
}

type nodeArgs struct {
	name     string
	parent   *node
	master   *node
	scene    *node
	released *int
}

func buildNode(a *kizuna.Allocator[node, *node], args nodeArgs) *node {
	return a.Build(func(n *node) {
		n.Name = args.name
		n.scene = args.scene
		n.released = args.released
		n.children.Init(n, &n.registry, "children")
		n.apprentices.Init(n, &n.registry, "apprentices")
		var parent *kizuna.GenericParentModule
		if args.parent != nil {
			parent = &args.parent.children
		}
		n.child.Init(parent, n)
		var master *kizuna.GenericMasterModule
		if args.master != nil {
			master = &args.master.apprentices
		}
		n.apprentice.Init(master, n)
	})
}

// captureLogs routes package logging into a buffer for the duration of the
// test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := kizuna.Logger()
	kizuna.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { kizuna.SetLogger(prev) })
	return &buf
}
