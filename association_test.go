package kizuna_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/edwinsyarief/kizuna"
)

// go test -run ^TestApprenticeBindsInInit$ . -count 1
func TestApprenticeBindsInInit(t *testing.T) {
	a := kizuna.NewAllocator[node]("nodes", 8)
	m := buildNode(a, nodeArgs{name: "m"})
	ap := buildNode(a, nodeArgs{name: "a", master: m})

	assert.True(t, ap.apprentice.Bound())
	assert.Equal(t, 0, ap.apprentice.ApprenticeID())
	assert.Same(t, m, ap.apprentice.Master())
	assert.Same(t, ap, ap.apprentice.Apprentice())
	assert.Equal(t, 1, m.apprentices.NumberOfApprentices())
	assert.Same(t, ap, m.apprentices.Get(0))
}

func TestApprenticeWithNilMasterIsUnbound(t *testing.T) {
	a := kizuna.NewAllocator[node]("nodes", 8)
	ap := buildNode(a, nodeArgs{name: "a"})
	assert.False(t, ap.apprentice.Bound())
	assert.Equal(t, kizuna.NoID, ap.apprentice.ApprenticeID())
	assert.Nil(t, ap.apprentice.Master())
	assert.Nil(t, ap.apprentice.MasterModule())
	assert.False(t, ap.apprentice.Unbind())

	_, ok := kizuna.MasterOf[*node](&ap.apprentice)
	assert.False(t, ok)
}

// go test -run ^TestApprenticeRebind$ . -count 1
func TestApprenticeRebind(t *testing.T) {
	a := kizuna.NewAllocator[node]("nodes", 8)
	m1 := buildNode(a, nodeArgs{name: "m1"})
	m2 := buildNode(a, nodeArgs{name: "m2"})
	ap := buildNode(a, nodeArgs{name: "a", master: m1})
	require.Equal(t, 0, ap.apprentice.ApprenticeID())

	ap.apprentice.Rebind(&m2.apprentices)
	assert.Equal(t, 0, m1.apprentices.NumberOfApprentices())
	assert.Equal(t, 1, m2.apprentices.NumberOfApprentices())
	assert.Same(t, m2, ap.apprentice.Master())
}

func TestApprenticeRebindIsIdempotent(t *testing.T) {
	a := kizuna.NewAllocator[node]("nodes", 8)
	m1 := buildNode(a, nodeArgs{name: "m1"})
	m2 := buildNode(a, nodeArgs{name: "m2"})
	buildNode(a, nodeArgs{master: m2})
	ap := buildNode(a, nodeArgs{name: "a", master: m1})

	ap.apprentice.Rebind(&m2.apprentices)
	id := ap.apprentice.ApprenticeID()
	ap.apprentice.Rebind(&m2.apprentices)

	assert.Equal(t, id, ap.apprentice.ApprenticeID())
	assert.Equal(t, 2, m2.apprentices.NumberOfApprentices())
	assert.Equal(t, 0, m1.apprentices.NumberOfApprentices())
	assert.Same(t, m2, ap.apprentice.Master())

	ap.apprentice.Rebind(nil)
	assert.False(t, ap.apprentice.Bound())
	assert.Equal(t, 1, m2.apprentices.NumberOfApprentices())
}

func TestApprenticeBindUnbindRoundTrip(t *testing.T) {
	a := kizuna.NewAllocator[node]("nodes", 8)
	m := buildNode(a, nodeArgs{name: "m"})
	ap := buildNode(a, nodeArgs{name: "a"})

	id := m.apprentices.BindApprenticeModule(&ap.apprentice)
	require.Equal(t, 0, id)
	require.True(t, m.apprentices.UnbindApprenticeModule(id))
	assert.Equal(t, 0, m.apprentices.NumberOfApprentices())
	assert.Nil(t, ap.apprentice.Master())
	assert.Equal(t, kizuna.NoID, ap.apprentice.ApprenticeID())
}

func TestApprenticeIDRecycling(t *testing.T) {
	a := kizuna.NewAllocator[node]("nodes", 8)
	m := buildNode(a, nodeArgs{name: "m"})
	a1 := buildNode(a, nodeArgs{master: m})
	a2 := buildNode(a, nodeArgs{master: m})
	buildNode(a, nodeArgs{master: m})
	a1.apprentice.Unbind()
	a2.apprentice.Unbind()
	a4 := buildNode(a, nodeArgs{master: m})
	a5 := buildNode(a, nodeArgs{master: m})
	assert.Equal(t, 0, a4.apprentice.ApprenticeID())
	assert.Equal(t, 1, a5.apprentice.ApprenticeID())
}

// go test -run ^TestDestroyingMasterOnlyUnlinks$ . -count 1
func TestDestroyingMasterOnlyUnlinks(t *testing.T) {
	a := kizuna.NewAllocator[node]("nodes", 8)
	m := buildNode(a, nodeArgs{name: "m"})
	a1 := buildNode(a, nodeArgs{name: "a1", master: m})
	a2 := buildNode(a, nodeArgs{name: "a2", master: m})

	require.True(t, a.Destroy(m))
	assert.Equal(t, 2, a.InstanceCount())
	assert.Equal(t, "a1", a1.Name)
	assert.Equal(t, "a2", a2.Name)
	assert.False(t, a1.apprentice.Bound())
	assert.False(t, a2.apprentice.Bound())
}

func TestDestroyingApprenticeUnbindsFromMaster(t *testing.T) {
	a := kizuna.NewAllocator[node]("nodes", 8)
	m := buildNode(a, nodeArgs{name: "m"})
	a1 := buildNode(a, nodeArgs{name: "a1", master: m})
	a2 := buildNode(a, nodeArgs{name: "a2", master: m})

	require.True(t, a.Destroy(a1))
	assert.Equal(t, 1, m.apprentices.NumberOfApprentices())
	assert.Nil(t, m.apprentices.Get(0))
	assert.Same(t, a2, m.apprentices.Get(1))
}

func TestMasterIterationYieldsApprenticeEntities(t *testing.T) {
	a := kizuna.NewAllocator[node]("nodes", 8)
	m := buildNode(a, nodeArgs{name: "m"})
	for _, name := range []string{"x", "y", "z"} {
		buildNode(a, nodeArgs{name: name, master: m})
	}
	m.apprentices.UnbindApprenticeModule(1)

	var names []string
	for _, e := range m.apprentices.All() {
		names = append(names, e.(*node).Name)
	}
	assert.Equal(t, []string{"x", "z"}, names)

	for id, mod := range m.apprentices.Modules() {
		assert.Equal(t, id, mod.ApprenticeID())
	}
	assert.Nil(t, m.apprentices.Get(99))
}

func TestUnbindApprenticeOutOfRangeIsLogged(t *testing.T) {
	logs := captureLogs(t)
	a := kizuna.NewAllocator[node]("nodes", 8)
	m := buildNode(a, nodeArgs{name: "m"})
	assert.False(t, m.apprentices.UnbindApprenticeModule(3))
	assert.Contains(t, logs.String(), "out-of-range apprentice id")
}

// go test -run ^TestUnbindFromMasterOfOtherScene$ . -count 1
func TestUnbindFromMasterOfOtherScene(t *testing.T) {
	a := kizuna.NewAllocator[node]("nodes", 8)
	s1 := buildNode(a, nodeArgs{name: "s1"})
	s2 := buildNode(a, nodeArgs{name: "s2"})
	s1.scene, s2.scene = s1, s2
	m := buildNode(a, nodeArgs{name: "m", scene: s1})
	ap := buildNode(a, nodeArgs{name: "a", master: m, scene: s1})

	ap.apprentice.UnbindFromAnyMasterBelongingToOtherScene(s1)
	assert.True(t, ap.apprentice.Bound(), "same scene keeps the edge")

	ap.scene = s2
	ap.apprentice.UnbindFromAnyMasterBelongingToOtherScene(s2)
	assert.False(t, ap.apprentice.Bound())
	assert.Equal(t, 0, m.apprentices.NumberOfApprentices())

	ap.apprentice.UnbindFromAnyMasterBelongingToOtherScene(s2)
	assert.False(t, ap.apprentice.Bound(), "unbound module is left alone")
}

func TestUnbindAllApprenticesBelongingToOtherScenes(t *testing.T) {
	a := kizuna.NewAllocator[node]("nodes", 8)
	s1 := buildNode(a, nodeArgs{name: "s1"})
	s2 := buildNode(a, nodeArgs{name: "s2"})
	m := buildNode(a, nodeArgs{name: "m", scene: s1})
	keep := buildNode(a, nodeArgs{name: "keep", master: m, scene: s1})
	drop := buildNode(a, nodeArgs{name: "drop", master: m, scene: s2})
	loose := buildNode(a, nodeArgs{name: "loose", master: m})

	m.apprentices.UnbindAllApprenticeModulesBelongingToOtherScenes(s1)
	assert.True(t, keep.apprentice.Bound())
	assert.False(t, drop.apprentice.Bound())
	assert.False(t, loose.apprentice.Bound(), "no scene is another scene")
	assert.Equal(t, 1, m.apprentices.NumberOfApprentices())
}

type typedMaster struct {
	kizuna.Slot
	label     string
	followers kizuna.MasterModule[*typedMaster]
}

func (m *typedMaster) Release() { m.followers.Release() }

func TestTypedMasterModule(t *testing.T) {
	masters := kizuna.NewAllocator[typedMaster]("masters", 2)
	nodes := kizuna.NewAllocator[node]("nodes", 2)
	var reg kizuna.Registry
	m := masters.Build(func(p *typedMaster) {
		p.label = "boss"
		p.followers.Init(p, &reg, "followers")
	})
	ap := nodes.Build(func(n *node) { n.apprentice.Init(m.followers.Generic(), n) })

	assert.Same(t, m, m.followers.Master())
	got, ok := kizuna.MasterOf[*typedMaster](&ap.apprentice)
	require.True(t, ok)
	assert.Equal(t, "boss", got.label)

	_, ok = kizuna.MasterOf[*node](&ap.apprentice)
	assert.False(t, ok, "wrong concrete type")

	mm, ok := reg.MasterModule("followers")
	require.True(t, ok)
	assert.Same(t, m.followers.Generic(), mm)

	masters.Destroy(m)
	assert.False(t, ap.apprentice.Bound())
}

// go test -run ^TestPropertyAssociationConsistency$ . -count 1
func TestPropertyAssociationConsistency(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := kizuna.NewAllocator[node]("nodes", 4)
		var masters, apprentices []*node
		for range 3 {
			masters = append(masters, buildNode(a, nodeArgs{}))
		}

		steps := rapid.IntRange(1, 100).Draw(rt, "steps")
		for range steps {
			op := rapid.IntRange(0, 4).Draw(rt, "op")
			switch {
			case op == 0 || len(apprentices) == 0:
				var m *node
				if len(masters) > 0 && rapid.Bool().Draw(rt, "bound") {
					m = rapid.SampledFrom(masters).Draw(rt, "master")
				}
				apprentices = append(apprentices, buildNode(a, nodeArgs{master: m}))
			case op == 1:
				i := rapid.IntRange(0, len(apprentices)-1).Draw(rt, "apprentice")
				require.True(rt, a.Destroy(apprentices[i]))
				apprentices = append(apprentices[:i], apprentices[i+1:]...)
			case op == 2 && len(masters) > 0:
				i := rapid.IntRange(0, len(apprentices)-1).Draw(rt, "apprentice")
				m := rapid.SampledFrom(masters).Draw(rt, "master")
				apprentices[i].apprentice.Rebind(&m.apprentices)
			case op == 3 && len(masters) > 1:
				i := rapid.IntRange(0, len(masters)-1).Draw(rt, "master")
				require.True(rt, a.Destroy(masters[i]))
				masters = append(masters[:i], masters[i+1:]...)
			default:
				i := rapid.IntRange(0, len(apprentices)-1).Draw(rt, "apprentice")
				apprentices[i].apprentice.Unbind()
			}

			total := 0
			for _, m := range masters {
				total += m.apprentices.NumberOfApprentices()
				for id, e := range m.apprentices.All() {
					ap := e.(*node)
					require.Same(rt, m, ap.apprentice.Master())
					require.Equal(rt, id, ap.apprentice.ApprenticeID())
				}
			}
			bound := 0
			for _, ap := range apprentices {
				require.True(rt, ap.Built(), "apprentices are never destroyed by masters")
				if ap.apprentice.Bound() {
					bound++
					require.Same(rt, ap, ap.apprentice.MasterModule().Get(ap.apprentice.ApprenticeID()))
				}
			}
			require.Equal(rt, bound, total)
			require.Equal(rt, len(masters)+len(apprentices), a.InstanceCount())
		}
	})
}
