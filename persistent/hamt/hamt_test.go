package hamt

import (
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/npillmayer/cow"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tp "github.com/xlab/treeprint"
)

// hkey is a key with a hash value chosen by the test.
type hkey struct {
	name string
	hash uint32
}

func (k hkey) String() string { return k.name }

func hkeyHash(k hkey) uint32 { return k.hash }

func newHMap() *Map[hkey, int] {
	return New[hkey, int](WithHasher(hkeyHash))
}

func TestPutGetRemove(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cow.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := New[string, int]()
	for i := 0; i < 1000; i++ {
		c := m.Put(strconv.Itoa(i), i)
		require.True(t, c.Modified())
		require.False(t, c.Replaced())
	}
	require.NoError(t, m.verify())
	assert.Equal(t, 1000, m.Len())
	for i := 0; i < 1000; i++ {
		v, ok := m.Get(strconv.Itoa(i))
		require.True(t, ok, "expected key %d to be present", i)
		require.Equal(t, i, v)
	}
	c := m.Put("7", 77)
	assert.True(t, c.Replaced())
	assert.Equal(t, 7, c.Old().WithDefault(-1))
	assert.Equal(t, 1000, m.Len())
	//
	for i := 0; i < 1000; i += 2 {
		c := m.Remove(strconv.Itoa(i))
		require.True(t, c.Replaced(), "expected key %d to be removed", i)
		require.NoError(t, m.verify())
	}
	assert.Equal(t, 500, m.Len())
	assert.False(t, m.ContainsKey("0"))
	assert.True(t, m.ContainsKey("1"))
	assert.False(t, m.Remove("0").Modified(), "removing an absent key is a no-op")
	_, ok := m.Get("0")
	assert.False(t, ok)
}

func TestStructKeyWithNegativeZero(t *testing.T) {
	type coord struct{ x, y float64 }
	m := New[coord, string]()
	m.Put(coord{math.Copysign(0, -1), 1}, "origin row")
	v, found := m.Get(coord{0, 1})
	require.True(t, found)
	assert.Equal(t, "origin row", v)
	assert.True(t, m.Put(coord{0, 1}, "replaced").Replaced())
	assert.Equal(t, 1, m.Len())
}

func TestZeroValueMap(t *testing.T) {
	var m Map[string, string]
	_, ok := m.Get("x")
	assert.False(t, ok)
	assert.False(t, m.Remove("x").Modified())
	m.Put("x", "y")
	v, ok := m.Get("x")
	assert.True(t, ok)
	assert.Equal(t, "y", v)
}

func TestNilKeysAndValues(t *testing.T) {
	m := New[any, any]()
	m.Put(nil, "nil key")
	m.Put("nil value", nil)
	v, ok := m.Get(nil)
	require.True(t, ok)
	assert.Equal(t, "nil key", v)
	v, ok = m.Get("nil value")
	require.True(t, ok)
	assert.Nil(t, v)
	assert.True(t, m.ContainsValue(nil))
	assert.False(t, m.ContainsValue("nothing"))
	assert.True(t, m.RemoveIf("nil value", nil))
	assert.True(t, m.Remove(nil).Replaced())
	assert.True(t, m.IsEmpty())
}

func TestCollisionWithKeyDifferingAtLevel0(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cow.hamt")
	defer teardown()
	//
	m := newHMap()
	a, b, c := hkey{"a", 0}, hkey{"b", 0}, hkey{"c", 1}
	m.Put(a, 1)
	m.Put(b, 2)
	m.Put(c, 3)
	t.Log(printTrie(m))
	require.NoError(t, m.verify())
	assert.Equal(t, 3, m.Len())
	root := m.root.(*indexNode[hkey, int])
	require.Equal(t, 1, len(root.children))
	coll, ok := root.children[0].(*collisionNode[hkey, int])
	require.True(t, ok, "expected a collision node below the root")
	keys := []hkey{coll.entries[0].key, coll.entries[1].key}
	assert.ElementsMatch(t, []hkey{a, b}, keys)
	assert.Equal(t, 1, len(root.data))
	assert.Equal(t, c, root.data[0].key)
}

func TestThreeKeysOfSameHash(t *testing.T) {
	m := newHMap()
	for i, name := range []string{"x", "y", "z"} {
		m.Put(hkey{name, 0}, i)
	}
	require.NoError(t, m.verify())
	assert.Equal(t, 3, m.Len())
	c := m.Put(hkey{"y", 0}, 100)
	assert.Equal(t, 1, c.Old().WithDefault(-1))
	v, _ := m.Get(hkey{"y", 0})
	assert.Equal(t, 100, v)
	assert.False(t, m.Remove(hkey{"w", 0}).Modified(), "absent key in collision node")
	m.Remove(hkey{"x", 0})
	require.NoError(t, m.verify())
	m.Remove(hkey{"z", 0})
	require.NoError(t, m.verify())
	root := m.root.(*indexNode[hkey, int])
	assert.Equal(t, 1, len(root.data), "last colliding key should have been inlined")
	assert.Equal(t, 0, len(root.children))
}

func TestSameHashPrefixAtLevel1(t *testing.T) {
	m := newHMap()
	a := hkey{"a", 0b00000_00000}
	b := hkey{"b", 0b00001_00000}
	c := hkey{"c", 0b00011_00000}
	m.Put(a, 1)
	m.Put(b, 2)
	m.Put(c, 3)
	t.Log(printTrie(m))
	require.NoError(t, m.verify())
	root := m.root.(*indexNode[hkey, int])
	assert.Equal(t, uint32(1), root.nodeMap)
	assert.Equal(t, uint32(0), root.dataMap)
	m.Remove(b)
	require.NoError(t, m.verify())
	m.Remove(c)
	require.NoError(t, m.verify())
	root = m.root.(*indexNode[hkey, int])
	assert.Equal(t, uint32(1), root.dataMap, "a should have been folded into the root")
	assert.Equal(t, 0, len(root.children))
}

func TestCollisionNodeBecomesChildOfNewNode(t *testing.T) {
	m := newHMap()
	a := hkey{"a", 0b00000_00000}
	b := hkey{"b", 0b00000_00000}
	c := hkey{"c", 0b00001_00000}
	m.Put(a, 1)
	m.Put(b, 2)
	m.Put(c, 3)
	t.Log(printTrie(m))
	require.NoError(t, m.verify())
	assert.Equal(t, 3, m.Len())
	for _, k := range []hkey{a, b, c} {
		assert.True(t, m.ContainsKey(k), "expected key %v", k)
	}
	m.Remove(a)
	require.NoError(t, m.verify())
	m.Remove(c)
	require.NoError(t, m.verify())
	v, ok := m.Get(b)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestFullLengthTrie(t *testing.T) {
	m := newHMap()
	a := hkey{"a", 0}
	b := hkey{"b", 1 << 31}
	m.Put(a, 1)
	m.Put(b, 2)
	t.Log(printTrie(m))
	require.NoError(t, m.verify())
	depth := 0
	var n node[hkey, int] = m.root
	for n.nodeArity() > 0 {
		n = n.child(0)
		depth++
	}
	assert.Equal(t, maxDepth-1, depth)
	m.Remove(b)
	require.NoError(t, m.verify())
	assert.Equal(t, 0, m.root.nodeArity())
	assert.Equal(t, 1, m.root.payloadArity())
}

func TestInlineMigrationCascades(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cow.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	keys := []hkey{
		{"A", 0b00000_00000},
		{"B", 0b00000_00010},
		{"C", 0b00100_00010},
		{"D", 0b00000_00100},
		{"E", 0b00010_00100},
		{"F", 0b00000_01000},
		{"G", 0b00010_01000},
	}
	for start := range keys {
		m := newHMap()
		for i, k := range keys {
			m.Put(k, i)
		}
		require.NoError(t, m.verify())
		for i := range keys {
			k := keys[(start+i)%len(keys)]
			require.True(t, m.Remove(k).Modified())
			require.NoError(t, m.verify(), "after removing %v:\n%s", k, printTrie(m))
		}
		assert.True(t, m.IsEmpty())
	}
}

func TestForkIndependence(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cow.hamt")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	m := New[int, string]()
	ref := map[int]string{}
	for i := 0; i < 2000; i++ {
		m.Put(i, strconv.Itoa(i))
		ref[i] = strconv.Itoa(i)
	}
	f := m.Fork()
	for i := 0; i < 2000; i += 3 {
		f.Remove(i)
	}
	for i := 1; i < 2000; i += 3 {
		f.Put(i, "changed")
	}
	for i := 2000; i < 2100; i++ {
		f.Put(i, "new")
	}
	require.NoError(t, m.verify())
	require.NoError(t, f.verify())
	assert.Equal(t, "", cmp.Diff(ref, toGoMap(m)))
	assert.Equal(t, 2000, m.Len())
	assert.NotEqual(t, m.Len(), f.Len())
	// writes to the original do not leak into the fork
	m.Put(1, "original")
	v, _ := f.Get(1)
	assert.Equal(t, "changed", v)
}

func TestWritesAfterForkCopyOnce(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 100; i++ {
		m.Put(i, i)
	}
	f := m.Fork()
	f.Put(1, 100)
	root := f.root
	f.Put(1, 101)
	assert.Same(t, root.(*indexNode[int, int]), f.root.(*indexNode[int, int]),
		"second write in the same generation must not copy the root again")
	assert.NotSame(t, m.root.(*indexNode[int, int]), f.root.(*indexNode[int, int]))
}

func TestIteratorRemove(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 500; i++ {
		m.Put(i, i)
	}
	f := m.Fork()
	it := f.Iterator()
	err := it.Remove()
	assert.True(t, errors.Is(err, cow.ErrIteratorState), "remove before next must fail")
	seen := 0
	for it.Next() {
		seen++
		if it.Value()%2 == 0 {
			require.NoError(t, it.Remove())
			assert.True(t, errors.Is(it.Remove(), cow.ErrIteratorState), "second remove must fail")
		}
	}
	assert.Equal(t, 500, seen, "iteration has to visit every entry once")
	assert.True(t, errors.Is(it.Remove(), cow.ErrIteratorState))
	require.NoError(t, f.verify())
	assert.Equal(t, 250, f.Len())
	f.Range(func(k, v int) bool {
		assert.Equal(t, 1, v%2)
		return true
	})
	assert.Equal(t, 500, m.Len())
}

func TestIterationVisitsEveryEntry(t *testing.T) {
	m := newHMap()
	ref := map[hkey]int{}
	for i := 0; i < 300; i++ {
		k := hkey{strconv.Itoa(i), uint32(i % 40)}
		m.Put(k, i)
		ref[k] = i
	}
	got := map[hkey]int{}
	for k, v := range m.All() {
		got[k] = v
	}
	assert.Equal(t, ref, got)
}

func TestViews(t *testing.T) {
	m := FromMap(map[string]int{"a": 1, "b": 2, "c": 3})
	keys := m.Keys()
	assert.Equal(t, 3, keys.Len())
	assert.True(t, keys.Remove("a"))
	assert.False(t, m.ContainsKey("a"), "removing from the key view removes from the map")
	assert.True(t, m.Values().Contains(2))
	assert.True(t, m.Values().Remove(2))
	assert.False(t, m.ContainsKey("b"))
	entries := m.Entries()
	assert.True(t, entries.Contains(cow.E("c", 3)))
	assert.False(t, entries.Contains(cow.E("c", 4)))
	assert.False(t, entries.Remove(cow.E("c", 4)))
	assert.True(t, entries.Remove(cow.E("c", 3)))
	assert.True(t, m.IsEmpty())
}

func TestEqualityAndHashCode(t *testing.T) {
	a := newHMap()
	b := newHMap()
	keys := []hkey{{"A", 0}, {"B", 0}, {"C", 1}, {"D", 33}}
	for i, k := range keys {
		a.Put(k, i)
	}
	for i := len(keys) - 1; i >= 0; i-- {
		b.Put(keys[i], i)
	}
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))
	assert.Equal(t, a.HashCode(), b.HashCode())
	b.Put(keys[0], 99)
	assert.False(t, a.Equal(b))
	b.Put(keys[0], 0)
	b.Remove(keys[3])
	assert.False(t, a.Equal(b))
}

func TestPutIfAbsentAndClear(t *testing.T) {
	m := New[string, int]()
	v, inserted := m.PutIfAbsent("a", 1)
	assert.True(t, inserted)
	assert.Equal(t, 1, v)
	v, inserted = m.PutIfAbsent("a", 2)
	assert.False(t, inserted)
	assert.Equal(t, 1, v)
	f := m.Fork()
	m.Clear()
	assert.True(t, m.IsEmpty())
	assert.Equal(t, 1, f.Len())
}

func TestString(t *testing.T) {
	m := New[string, int]()
	m.Put("a", 1)
	assert.Equal(t, "{a: 1}", m.String())
}

// --- Helpers ---------------------------------------------------------------

func toGoMap[K comparable, V any](m *Map[K, V]) map[K]V {
	r := make(map[K]V, m.Len())
	m.Range(func(k K, v V) bool {
		r[k] = v
		return true
	})
	return r
}

func printTrie[K comparable, V any](m *Map[K, V]) string {
	header := fmt.Sprintf("\nMap(len=%d, gen=%d)\n", m.size, m.generation)
	p := tp.New()
	ppt(p, m.root)
	return header + p.String()
}

func ppt[K comparable, V any](p tp.Tree, n node[K, V]) {
	switch n := n.(type) {
	case *collisionNode[K, V]:
		b := p.AddBranch(fmt.Sprintf("collision #%08x (gen %d)", n.hash, n.gen))
		for _, e := range n.entries {
			b.AddNode(fmt.Sprintf("%v = %v", e.key, e.value))
		}
	case *indexNode[K, V]:
		b := p.AddBranch(fmt.Sprintf("data=%032b nodes=%032b (gen %d)", n.dataMap, n.nodeMap, n.gen))
		for _, e := range n.data {
			b.AddNode(fmt.Sprintf("%v = %v #%08x", e.key, e.value, e.hash))
		}
		for _, c := range n.children {
			ppt(b, c)
		}
	}
}
