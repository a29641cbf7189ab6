package kizuna

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type item struct{ v int }

// go test -run ^TestSlotVectorBindsSequentially$ . -count 1
func TestSlotVectorBindsSequentially(t *testing.T) {
	var v SlotVector[*item]
	for i := range 4 {
		assert.Equal(t, i, v.Bind(&item{v: i}))
	}
	assert.Equal(t, 4, v.Count())
	assert.Equal(t, 4, v.Len())
}

func TestSlotVectorRefusesZeroValue(t *testing.T) {
	var v SlotVector[*item]
	assert.Equal(t, NoID, v.Bind(nil))
	assert.Equal(t, 0, v.Count())
}

// go test -run ^TestSlotVectorReusesFreedIndex$ . -count 1
func TestSlotVectorReusesFreedIndex(t *testing.T) {
	var v SlotVector[*item]
	v.Bind(&item{0})
	v.Bind(&item{1})
	v.Bind(&item{2})
	_, ok := v.Unbind(1)
	require.True(t, ok)
	assert.Equal(t, 1, v.Bind(&item{3}))
	assert.Equal(t, 3, v.Bind(&item{4}))
}

func TestSlotVectorReusesLowestFreedIndexFirst(t *testing.T) {
	var v SlotVector[*item]
	for i := range 6 {
		v.Bind(&item{i})
	}
	v.Unbind(4)
	v.Unbind(1)
	v.Unbind(2)
	assert.Equal(t, 1, v.Bind(&item{}))
	assert.Equal(t, 2, v.Bind(&item{}))
	assert.Equal(t, 4, v.Bind(&item{}))
	assert.Equal(t, 6, v.Bind(&item{}))
}

// go test -run ^TestSlotVectorTrimsTail$ . -count 1
func TestSlotVectorTrimsTail(t *testing.T) {
	var v SlotVector[*item]
	for i := range 4 {
		v.Bind(&item{i})
	}
	v.Unbind(2)
	assert.Equal(t, 4, v.Len(), "hole in the middle keeps the length")
	v.Unbind(3)
	assert.Equal(t, 2, v.Len(), "trailing holes are trimmed")

	// Trimmed indices are stale in the queue and must not be handed out
	// beyond the new tail.
	assert.Equal(t, 2, v.Bind(&item{}))
	assert.Equal(t, 3, v.Bind(&item{}))
	assert.Equal(t, 4, v.Bind(&item{}))
}

func TestSlotVectorUnbindOutOfRange(t *testing.T) {
	var v SlotVector[*item]
	v.Bind(&item{})
	_, ok := v.Unbind(-1)
	assert.False(t, ok)
	_, ok = v.Unbind(5)
	assert.False(t, ok)
	v.Unbind(0)
	_, ok = v.Unbind(0)
	assert.False(t, ok, "double unbind")
	assert.Equal(t, 0, v.Count())
}

func TestSlotVectorIterationSkipsHoles(t *testing.T) {
	var v SlotVector[*item]
	for i := range 5 {
		v.Bind(&item{i})
	}
	v.Unbind(1)
	v.Unbind(3)

	var forward []int
	for id, it := range v.All() {
		assert.Equal(t, id, it.v)
		forward = append(forward, id)
	}
	assert.Equal(t, []int{0, 2, 4}, forward)

	var backward []int
	for id := range v.Backward() {
		backward = append(backward, id)
	}
	assert.Equal(t, []int{4, 2, 0}, backward)
}

func TestSlotVectorBackwardToleratesUnbind(t *testing.T) {
	var v SlotVector[*item]
	for i := range 5 {
		v.Bind(&item{i})
	}
	var seen []int
	for id := range v.Backward() {
		seen = append(seen, id)
		v.Unbind(id)
	}
	assert.Equal(t, []int{4, 3, 2, 1, 0}, seen)
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Count())
}

func TestSlotVectorReset(t *testing.T) {
	var v SlotVector[*item]
	v.Bind(&item{})
	v.Bind(&item{})
	v.Unbind(0)
	v.Reset()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0, v.Count())
	assert.Equal(t, 0, v.Bind(&item{}))
}

// go test -run ^TestPropertySlotVectorRecycling$ . -count 1
func TestPropertySlotVectorRecycling(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var v SlotVector[*item]
		bound := map[int]*item{}
		freed := map[int]bool{}

		steps := rapid.IntRange(1, 300).Draw(rt, "steps")
		for range steps {
			if len(bound) == 0 || rapid.Bool().Draw(rt, "bind") {
				// The lowest hole wins; without holes the vector grows.
				want := v.Len()
				for f := range freed {
					if f < want {
						want = f
					}
				}
				it := &item{}
				id := v.Bind(it)
				require.Equal(rt, want, id)
				require.NotContains(rt, bound, id)
				delete(freed, id)
				bound[id] = it
			} else {
				ids := make([]int, 0, len(bound))
				for id := range bound {
					ids = append(ids, id)
				}
				id := rapid.SampledFrom(ids).Draw(rt, "unbind")
				got, ok := v.Unbind(id)
				require.True(rt, ok)
				require.Same(rt, bound[id], got)
				delete(bound, id)
				freed[id] = true
			}

			require.Equal(rt, len(bound), v.Count())
			for id, it := range bound {
				require.Same(rt, it, v.At(id))
			}
			for f := range freed {
				if f >= v.Len() {
					delete(freed, f)
				}
			}
			if v.Len() > 0 {
				require.NotNil(rt, v.At(v.Len()-1), "tail is always bound")
			}
		}
	})
}
