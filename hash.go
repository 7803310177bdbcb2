package cow

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// Hasher may be implemented by keys which know how to hash themselves.
// Keys which are equal have to return equal hash values.
type Hasher interface {
	Hash32() uint32
}

// Hash is the default hash function of the collections of this module.
//
// Nil values hash to 0. Strings, byte slices, numbers and booleans are hashed with xxhash.
// Types implementing Hasher are asked for their hash value. Pointers and channels hash
// by address. Structs, arrays and slices are hashed element-wise, consistent with `==`
// for comparable types.
func Hash[T any](x T) uint32 {
	switch v := any(x).(type) {
	case nil:
		return 0
	case Hasher:
		return v.Hash32()
	case string:
		return fold(xxhash.Sum64String(v))
	case []byte:
		return fold(xxhash.Sum64(v))
	case bool:
		if v {
			return 1
		}
		return 2
	case int:
		return hashUint(uint64(v))
	case int8:
		return hashUint(uint64(v))
	case int16:
		return hashUint(uint64(v))
	case int32:
		return hashUint(uint64(v))
	case int64:
		return hashUint(uint64(v))
	case uint:
		return hashUint(uint64(v))
	case uint8:
		return hashUint(uint64(v))
	case uint16:
		return hashUint(uint64(v))
	case uint32:
		return hashUint(uint64(v))
	case uint64:
		return hashUint(v)
	case uintptr:
		return hashUint(uint64(v))
	case float32:
		return hashFloat(float64(v))
	case float64:
		return hashFloat(v)
	}
	if isNil(x) {
		return 0
	}
	return hashValue(reflect.ValueOf(x))
}

// hashValue walks composite values field by field, so that values equal under `==`
// hash equally even if their printed forms differ (e.g., -0 and +0 float fields).
func hashValue(v reflect.Value) uint32 {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 2
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return hashUint(uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return hashUint(v.Uint())
	case reflect.Float32, reflect.Float64:
		return hashFloat(v.Float())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		return 31*hashFloat(real(c)) + hashFloat(imag(c))
	case reflect.String:
		return fold(xxhash.Sum64String(v.String()))
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan:
		if v.IsNil() {
			return 0
		}
		return hashUint(uint64(v.Pointer()))
	case reflect.Interface:
		if v.IsNil() {
			return 0
		}
		return hashValue(v.Elem())
	case reflect.Struct:
		var h uint32 = 17
		for i := 0; i < v.NumField(); i++ {
			h = 31*h + hashValue(v.Field(i))
		}
		return h
	case reflect.Slice:
		if v.IsNil() {
			return 0
		}
		fallthrough
	case reflect.Array:
		var h uint32 = 17
		for i := 0; i < v.Len(); i++ {
			h = 31*h + hashValue(v.Index(i))
		}
		return h
	}
	// maps and funcs are not comparable with `==`
	d := xxhash.New()
	fmt.Fprintf(d, "%s:%#v", v.Type(), v)
	return fold(d.Sum64())
}

func hashFloat(f float64) uint32 {
	if f == 0 { // -0 == +0
		return hashUint(0)
	}
	return hashUint(math.Float64bits(f))
}

func hashUint(n uint64) uint32 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], n)
	return fold(xxhash.Sum64(b[:]))
}

// fold reduces a 64-bit hash to 32 bits, keeping entropy from both halves.
func fold(h uint64) uint32 {
	return uint32(h) ^ uint32(h>>32)
}

func isNil(x any) bool {
	if x == nil {
		return true
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Equal is the default equality for values (and for keys of ordered maps).
// It treats nil values of any kind as equal to each other and compares everything else
// deeply.
func Equal[T any](a, b T) bool {
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	return reflect.DeepEqual(a, b)
}

// Compare is the default comparator for ordered maps with keys of an ordered type.
func Compare[K constraints.Ordered](a, b K) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
