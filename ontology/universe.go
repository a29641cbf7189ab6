package ontology

import "github.com/edwinsyarief/kizuna"

// Universe is the root of the ownership tree. Its registry holds the names of
// every named participant built under it.
type Universe struct {
	kizuna.Slot
	named
	registry kizuna.Registry
	scenes   kizuna.GenericParentModule
}

func (u *Universe) init(name string) {
	u.scenes.Init(u, &u.registry, "scenes")
	u.register(u, u, name)
}

// Release destroys every scene.
func (u *Universe) Release() {
	u.scenes.Release()
	u.release(u)
}

// Registry returns the universe's registry.
func (u *Universe) Registry() *kizuna.Registry { return &u.registry }

// Scenes returns the parent module scenes bind to.
func (u *Universe) Scenes() *kizuna.GenericParentModule { return &u.scenes }

// NumberOfScenes returns the number of scenes owned by the universe.
func (u *Universe) NumberOfScenes() int { return u.scenes.NumberOfChildren() }

// NumberOfDescendants counts every participant below the universe.
func (u *Universe) NumberOfDescendants() int { return u.scenes.NumberOfDescendants() }

// Lookup returns the participant registered under name, or nil.
func (u *Universe) Lookup(name string) kizuna.Entity { return u.registry.Entity(name) }

// Complete extends prefix as far as the registered names allow.
func (u *Universe) Complete(prefix string) string { return u.registry.Complete(prefix) }

// Completions returns the registered names that start with prefix.
func (u *Universe) Completions(prefix string) []string { return u.registry.Completions(prefix) }
