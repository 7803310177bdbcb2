package cow

import "github.com/pkg/errors"

// ErrIndexOutOfBounds is wrapped by the panics of indexed access with an invalid index.
var ErrIndexOutOfBounds = errors.New("index out of bounds")

// ErrIteratorState is returned by iterators if Remove is called without a preceding
// successful call to Next, or twice for the same element.
var ErrIteratorState = errors.New("illegal iterator state")

// CheckIndex panics if i is not in [0, length).
func CheckIndex(i, length int) {
	if i < 0 || i >= length {
		panic(errors.Wrapf(ErrIndexOutOfBounds, "index %d with length %d", i, length))
	}
}

// CheckRange panics if [from, to) is not a valid sub-range of [0, length).
func CheckRange(from, to, length int) {
	if from < 0 || to > length || from > to {
		panic(errors.Wrapf(ErrIndexOutOfBounds, "range [%d, %d) with length %d", from, to, length))
	}
}
