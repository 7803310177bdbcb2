package vector

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/cow"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tp "github.com/xlab/treeprint"
)

// fixture drives a vector and a Go slice in parallel.
type fixture struct {
	t        *testing.T
	v        *Vector[string]
	expected []string
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, v: New[string]()}
}

func (f *fixture) fill(high int) {
	for i := len(f.expected); i < high; i++ {
		x := strconv.FormatInt(int64(i), 16)
		f.v.Push(x)
		f.expected = append(f.expected, x)
	}
}

func (f *fixture) remove(i int) {
	ex := f.expected[i]
	f.expected = append(f.expected[:i], f.expected[i+1:]...)
	require.Equal(f.t, ex, f.v.Remove(i), "index %d", i)
}

func (f *fixture) shrinkTo(high int) {
	for i := len(f.expected) - 1; i >= high; i-- {
		f.remove(i)
	}
}

func (f *fixture) check(reason string) {
	f.t.Helper()
	require.NoError(f.t, f.v.verify(), reason)
	require.Equal(f.t, len(f.expected), f.v.Len(), reason)
	require.Empty(f.t, cmp.Diff(f.expected, f.v.Slice(), cmpopts.EquateEmpty()), reason)
}

func TestPushAndPopAcrossLevels(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cow.vector")
	tracer().SetTraceLevel(tracing.LevelError)
	defer teardown()
	//
	f := newFixture(t)
	f.check("empty")
	for _, n := range []struct {
		reason string
		size   int
	}{
		{"fill tail", 32},
		{"first tail in", 33},
		{"fill second tail", 64},
		{"move second tail in", 65},
		{"fill first level", 1024 + 32},
		{"overflow first level", 1024 + 32 + 1},
		{"fill second level", 32768 + 32},
		{"overflow second level", 32768 + 32 + 1},
	} {
		f.fill(n.size)
		f.check(n.reason)
	}
	assert.Equal(t, uint(15), f.v.shift)
	f.fill(32768 + 32 + 10)
	for _, n := range []struct {
		reason string
		size   int
	}{
		{"remove from tail", 32768 + 32 + 9},
		{"collapse second level", 32768 + 31},
		{"collapse first level", 1024 + 31},
		{"pre-tail", 32},
		{"all to tail", 31},
		{"emptiness", 0},
	} {
		f.shrinkTo(n.size)
		f.check(n.reason)
	}
	assert.Equal(t, uint(5), f.v.shift)
}

func TestPopLeavesFront(t *testing.T) {
	v := New[int]()
	for i := 0; i < 1057; i++ {
		v.Push(i)
	}
	for i := 0; i < 1026; i++ {
		x, ok := v.Pop().Get()
		require.True(t, ok)
		require.Equal(t, 1056-i, x)
	}
	require.NoError(t, v.verify())
	require.Equal(t, 31, v.Len())
	for i := 0; i < 31; i++ {
		assert.Equal(t, i, v.Get(i))
	}
	for !v.IsEmpty() {
		v.Pop()
	}
	assert.True(t, v.Pop().IsNothing())
	assert.True(t, v.Last().IsNothing())
}

func TestSetInTrieAndTail(t *testing.T) {
	f := newFixture(t)
	f.fill(1024 + 32 + 1)
	for _, i := range []int{1, 2, f.v.Len() - 1} {
		value := "#" + strconv.Itoa(i)
		old := f.v.Set(i, value)
		assert.Equal(t, f.expected[i], old)
		f.expected[i] = value
	}
	f.check("setting")
	x, _ := f.v.Last().Get()
	assert.Equal(t, "#1056", x)
}

func TestRemoveFromBackInBulk(t *testing.T) {
	f := newFixture(t)
	f.fill(1024 + 32 + 1)
	f.v.RemoveRange(25, f.v.Len())
	f.expected = f.expected[:25]
	f.check("cleared a lot from the end")
	f.v.RemoveRange(5, 25)
	f.expected = f.expected[:5]
	f.check("cleared from the tail")
	//
	for _, n := range []int{32, 33, 64, 65, 1056, 1057, 2000} {
		for _, cut := range []int{1, 31, 32, 33, 64, 65, n} {
			if cut > n {
				continue
			}
			f := newFixture(t)
			f.fill(n)
			f.v.RemoveRange(n-cut, n)
			f.expected = f.expected[:n-cut]
			f.check(fmt.Sprintf("cut %d from %d", cut, n))
		}
	}
}

func TestRemoveFromMiddle(t *testing.T) {
	f := newFixture(t)
	f.fill(1024 + 32 + 1)
	f.v.RemoveRange(36, 98)
	f.expected = append(f.expected[:36], f.expected[98:]...)
	f.check("removed range in middle")
	f.remove(69)
	f.check("removed single element in middle")
	f.remove(0)
	f.check("removed first element")
}

func TestInsertInMiddle(t *testing.T) {
	f := newFixture(t)
	f.fill(1024 + 32 + 1)
	middle := []string{"one", "two", "three"}
	f.v.InsertAll(101, middle...)
	f.expected = append(f.expected[:101], append(middle, f.expected[101:]...)...)
	f.check("added collection in middle")
	f.v.Insert(101, "joker")
	f.expected = append(f.expected[:101], append([]string{"joker"}, f.expected[101:]...)...)
	f.check("added single element in middle")
	f.v.Insert(0, "first")
	f.expected = append([]string{"first"}, f.expected...)
	f.check("added at front")
	f.v.Insert(f.v.Len(), "last")
	f.expected = append(f.expected, "last")
	f.check("added at end")
}

func TestInsertAndRemoveInSmallVectors(t *testing.T) {
	for n := 0; n <= 70; n++ {
		for i := 0; i <= n; i++ {
			f := newFixture(t)
			f.fill(n)
			f.v.Insert(i, "x")
			f.expected = append(f.expected[:i], append([]string{"x"}, f.expected[i:]...)...)
			f.check(fmt.Sprintf("insert at %d into %d", i, n))
			f.remove(i)
			f.check(fmt.Sprintf("remove at %d from %d", i, n+1))
		}
	}
}

func TestShrinkAfterFork(t *testing.T) {
	f := newFixture(t)
	f.fill(1024 + 32 + 1)
	original := f.v
	snapshot := append([]string(nil), f.expected...)
	f.v = f.v.Fork()
	f.check("built")
	f.shrinkTo(99)
	f.check("more removal")
	require.NoError(t, original.verify())
	assert.Empty(t, cmp.Diff(snapshot, original.Slice()), "original must not change")
	// writing to the original does not touch the fork
	original.Set(3, "three")
	original.InsertAll(50, "a", "b")
	original.RemoveRange(0, 10)
	f.check("fork after writes to the original")
}

func TestForkSharesStructure(t *testing.T) {
	v := New[int]()
	for i := 0; i < 2000; i++ {
		v.Push(i)
	}
	w := v.Fork()
	assert.Same(t, v.root, w.root)
	w.Set(5, -5)
	assert.NotSame(t, v.root, w.root)
	assert.Same(t, v.root.children[1], w.root.children[1], "untouched sub-trees are shared")
	root := w.root
	w.Set(6, -6)
	assert.Same(t, root, w.root, "nodes are copied once per generation")
	assert.Equal(t, 5, v.Get(5))
}

func TestIndexOutOfBounds(t *testing.T) {
	v := From(1, 2, 3)
	for name, f := range map[string]func(){
		"get":          func() { v.Get(3) },
		"get negative": func() { v.Get(-1) },
		"set":          func() { v.Set(3, 0) },
		"insert":       func() { v.Insert(4, 0) },
		"remove":       func() { v.Remove(3) },
		"range":        func() { v.RemoveRange(2, 4) },
		"reverse":      func() { v.RemoveRange(2, 1) },
	} {
		func() {
			defer func() {
				r := recover()
				require.NotNil(t, r, name)
				err, ok := r.(error)
				require.True(t, ok, name)
				assert.True(t, errors.Is(err, cow.ErrIndexOutOfBounds), name)
			}()
			f()
		}()
	}
	assert.Equal(t, []int{1, 2, 3}, v.Slice())
}

func TestZeroValue(t *testing.T) {
	var v Vector[string]
	assert.True(t, v.IsEmpty())
	assert.Empty(t, v.Slice())
	v.Push("a")
	v.Insert(0, "b")
	assert.Equal(t, []string{"b", "a"}, v.Slice())
	require.NoError(t, v.verify())
}

func TestIterator(t *testing.T) {
	v := New[int]()
	for i := 0; i < 100; i++ {
		v.Push(i * 10)
	}
	it := v.Iterator()
	v.Set(0, -1) // does not affect the iterator
	v.Clear()
	n := 0
	for it.Next() {
		require.Equal(t, n, it.Index())
		require.Equal(t, n*10, it.Value())
		n++
	}
	assert.Equal(t, 100, n)
	assert.False(t, it.Next())
	it.Seek(64)
	require.True(t, it.Next())
	assert.Equal(t, 640, it.Value())
	it.Seek(100)
	assert.False(t, it.Next())
	assert.Panics(t, func() { it.Seek(101) })
}

func TestCollectorsAndEquality(t *testing.T) {
	v := From("a", "b", "c")
	w := Collect(v.Values())
	assert.True(t, v.Equal(w))
	assert.Equal(t, v.HashCode(), w.HashCode())
	w.Set(1, "x")
	assert.False(t, v.Equal(w))
	assert.Equal(t, "[a b c]", v.String())
	var indices []int
	for i, x := range v.All() {
		indices = append(indices, i)
		if x == "b" {
			break
		}
	}
	assert.Equal(t, []int{0, 1}, indices)
}

// --- Print tree ------------------------------------------------------------

func printVec[T any](v *Vector[T]) string {
	header := fmt.Sprintf("\nVector(len=%d, shift=%d, gen=%d)\n", v.size, v.shift, v.generation)
	printer := tp.New()
	printNode(printer, v.root, v.shift, 0)
	printer.AddNode("tail " + v.tail.String())
	return header + printer.String() + "\n"
}

func printNode[T any](printer tp.Tree, node *vnode[T], level uint, j int) {
	if level == 0 {
		printer.AddNode(fmt.Sprintf("%d…%d %s", j, j+width-1, node))
		return
	}
	branch := printer.AddBranch(fmt.Sprintf("%d… %s", j, node))
	for i, ch := range node.children {
		printNode(branch, ch, level-bits, j+i<<level)
	}
}

func TestPrintVector(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cow.vector")
	defer teardown()
	//
	v := New[int]()
	for i := 0; i < 100; i++ {
		v.Push(i)
	}
	s := printVec(v)
	t.Log(s)
	assert.Contains(t, s, "64…95")
}
