package btree

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	fuzz "github.com/google/gofuzz"
	"github.com/npillmayer/cow"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

type op struct {
	Kind  uint8 // put, remove, remove-if, fork
	Key   uint8
	Value int16
}

func randomOps(seed int64, n int) []op {
	var ops []op
	fuzz.NewWithSeed(seed).NilChance(0).NumElements(n, n).Fuzz(&ops)
	return ops
}

// sortedEntries turns a Go map into the entry sequence an ordered map has to produce.
func sortedEntries(ref map[int]int) []cow.Entry[int, int] {
	r := make([]cow.Entry[int, int], 0, len(ref))
	for k, v := range ref {
		r = append(r, cow.E(k, v))
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Key < r[j].Key })
	return r
}

func runAgainstReference(t *testing.T, m *Map[int, int], ops []op) {
	ref := map[int]int{}
	type snapshot struct {
		m       *Map[int, int]
		entries []cow.Entry[int, int]
	}
	var forks []snapshot
	for i, o := range ops {
		k, v := int(o.Key), int(o.Value)
		switch o.Kind % 4 {
		case 0, 1:
			_, had := ref[k]
			c := m.Put(k, v)
			require.Equal(t, had, c.Replaced(), "op %d: put %d", i, k)
			ref[k] = v
		case 2:
			_, had := ref[k]
			c := m.Remove(k)
			require.Equal(t, had, c.Modified(), "op %d: remove %d", i, k)
			delete(ref, k)
		case 3:
			if len(forks) < 8 {
				forks = append(forks, snapshot{m: m.Fork(), entries: sortedEntries(ref)})
			} else if w, ok := ref[k]; ok {
				require.True(t, m.RemoveIf(k, w))
				delete(ref, k)
			}
		}
		require.Equal(t, len(ref), m.Len(), "op %d", i)
		if i%25 == 0 {
			require.NoError(t, m.verify(), "op %d:\n%s", i, printTree(m))
		}
	}
	require.NoError(t, m.verify())
	require.Empty(t, cmp.Diff(sortedEntries(ref), m.Entries().Slice()))
	for i, f := range forks {
		require.NoError(t, f.m.verify())
		require.Empty(t, cmp.Diff(f.entries, f.m.Entries().Slice()), "fork %d has been changed", i)
	}
}

func TestReferenceEquivalence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cow.btree")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	for _, degree := range []int{2, 3, 4, 16} {
		for seed := int64(1); seed <= 3; seed++ {
			runAgainstReference(t, NewOrdered[int, int](Degree(degree)), randomOps(seed*int64(degree), 3000))
		}
	}
}
