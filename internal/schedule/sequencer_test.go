package schedule

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(items []SequenceItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestSequence_RespectsDependencies(t *testing.T) {
	items := []SequenceItem{
		{Name: "paint", DependsOn: []string{"plaster"}},
		{Name: "plaster", DependsOn: []string{"brickwork"}},
		{Name: "brickwork"},
	}

	ordered := Sequence(items)

	assert.Equal(t, []string{"brickwork", "plaster", "paint"}, names(ordered))
}

func TestSequence_StableAmongReady(t *testing.T) {
	// No edges: declaration order is preserved.
	items := []SequenceItem{
		{Name: "c"}, {Name: "a"}, {Name: "b"},
	}

	assert.Equal(t, []string{"c", "a", "b"}, names(Sequence(items)))
}

func TestSequence_CycleFallsBackToDeclarationOrder(t *testing.T) {
	items := []SequenceItem{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"a"}},
		{Name: "c"},
	}

	ordered := Sequence(items)

	require.Len(t, ordered, 3)
	assert.Equal(t, []string{"c", "a", "b"}, names(ordered),
		"cycle members append in declared order after the emittable items")
}

func TestSequence_DanglingReferenceNeverFatal(t *testing.T) {
	items := []SequenceItem{
		{Name: "a", DependsOn: []string{"ghost"}},
		{Name: "b"},
	}

	ordered := Sequence(items)

	require.Len(t, ordered, 2)
	assert.Equal(t, []string{"b", "a"}, names(ordered))
}

func TestSequence_EveryItemExactlyOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for trial := 0; trial < 100; trial++ {
		n := rng.Intn(10) + 1
		items := make([]SequenceItem, n)
		for i := range items {
			items[i].Name = string(rune('a' + i))
		}
		// Random edges, cycles included.
		for e := 0; e < rng.Intn(2*n); e++ {
			from := rng.Intn(n)
			to := rng.Intn(n)
			items[from].DependsOn = append(items[from].DependsOn, items[to].Name)
		}

		ordered := Sequence(items)

		require.Len(t, ordered, n, "trial %d", trial)
		seen := make(map[string]int)
		for _, it := range ordered {
			seen[it.Name]++
		}
		for _, it := range items {
			assert.Equal(t, 1, seen[it.Name], "trial %d: %s must appear exactly once", trial, it.Name)
		}
	}
}
