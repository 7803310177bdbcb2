package splice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpliceLeavesSourceIntact(t *testing.T) {
	s := []int{0, 1, 2, 3, 4}
	r := Splice(s, 1, 3, 7, 8, 9)
	assert.Equal(t, []int{0, 7, 8, 9, 3, 4}, r)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, s)
	r[0] = 100
	assert.Equal(t, 0, s[0], "result must not alias source")
}

func TestInsert(t *testing.T) {
	s := []string{"a", "c"}
	assert.Equal(t, []string{"x", "a", "c"}, Insert(s, 0, "x"))
	assert.Equal(t, []string{"a", "b", "c"}, Insert(s, 1, "b"))
	assert.Equal(t, []string{"a", "c", "d", "e"}, Insert(s, 2, "d", "e"))
	assert.Equal(t, []string{"x"}, Insert[string](nil, 0, "x"))
}

func TestRemove(t *testing.T) {
	s := []int{1, 2, 3, 4}
	assert.Equal(t, []int{2, 3, 4}, Remove(s, 0))
	assert.Equal(t, []int{1, 2, 3}, Remove(s, 3))
	assert.Equal(t, []int{1, 4}, Splice(s, 1, 3))
	assert.Equal(t, []int{1, 2, 3, 4}, s)
}

func TestConcatAndSlice(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, 5}, Concat([]int{1, 2}, []int{3}, nil, []int{4, 5}))
	s := []int{1, 2, 3, 4}
	sub := Slice(s, 1, 3)
	assert.Equal(t, []int{2, 3}, sub)
	sub[0] = 0
	assert.Equal(t, 2, s[1])
	assert.Equal(t, []int{1, 2, 3, 4, 5}, Append(s, 5))
}

func TestClone(t *testing.T) {
	s := []int{1, 2, 3}
	c := Clone(s, 32)
	assert.Equal(t, 32, cap(c))
	assert.Equal(t, s, c)
	c = Clone(s, 0)
	assert.Equal(t, 3, cap(c))
}

func TestSwapOut(t *testing.T) {
	s := []int{1, 2, 3}
	old := SwapOut(s, 1, 7)
	assert.Equal(t, 2, old)
	assert.Equal(t, []int{1, 7, 3}, s)
}

func TestOutOfBoundsPanics(t *testing.T) {
	assert.Panics(t, func() { Insert([]int{1}, 2, 0) })
	assert.Panics(t, func() { Remove([]int{1}, 1) })
	assert.Panics(t, func() { Splice([]int{1}, -1, 0) })
	assert.Panics(t, func() { Slice([]int{1, 2}, 2, 1) })
}
