package bytecode

import (
	"iter"
	"math"

	"github.com/tliron/commonlog"
)

const logName = "caby.bytecode"

// Buffer is an owned growable array with pinned growth. Chunk and
// ConstantPool are both built on it so that they grow identically.
//
// Storage is only ever replaced by grow, which copies the live elements
// into the new array before the old one is dropped.
type Buffer[T any] struct {
	data   []T // len(data) is the capacity
	n      int
	growth Growth
	name   string

	reallocs int
	copied   int
}

func newBuffer[T any](name string, g Growth) Buffer[T] {
	return Buffer[T]{name: name, growth: g}
}

// named sets the label used in errors and logs if none is set yet, so
// zero-value containers report themselves correctly.
func (b *Buffer[T]) named(name string) *Buffer[T] {
	if b.name == "" {
		b.name = name
	}
	return b
}

// Len returns the number of stored elements.
func (b *Buffer[T]) Len() int {
	return b.n
}

// Cap returns the number of elements storage is allocated for.
func (b *Buffer[T]) Cap() int {
	return len(b.data)
}

// At returns the element at index i. It panics if i is outside [0, Len()).
func (b *Buffer[T]) At(i int) T {
	if i < 0 || i >= b.n {
		panic(indexOutOfRange(b.label(), i, b.n))
	}
	return b.data[i]
}

// All iterates the stored elements in order.
func (b *Buffer[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < b.n; i++ {
			if !yield(i, b.data[i]) {
				return
			}
		}
	}
}

// Append stores v after the last element, growing storage if needed.
func (b *Buffer[T]) Append(v T) error {
	if b.n == len(b.data) {
		if err := b.grow(1); err != nil {
			return err
		}
	}
	b.data[b.n] = v
	b.n++
	return nil
}

// AppendAll stores vs in order. Storage grows at most once and nothing is
// written if it cannot.
func (b *Buffer[T]) AppendAll(vs ...T) error {
	if len(vs) == 0 {
		return nil
	}
	if len(vs) > len(b.data)-b.n {
		if err := b.grow(len(vs)); err != nil {
			return err
		}
	}
	b.n += copy(b.data[b.n:], vs)
	return nil
}

// Release drops the storage and returns the buffer to its empty state.
func (b *Buffer[T]) Release() {
	b.data = nil
	b.n = 0
	b.reallocs = 0
	b.copied = 0
}

// Stats reports the buffer's size and growth counters.
func (b *Buffer[T]) Stats() Stats {
	return Stats{
		Len:            b.n,
		Cap:            len(b.data),
		Reallocations:  b.reallocs,
		ElementsCopied: b.copied,
	}
}

func (b *Buffer[T]) policy() Growth {
	return b.growth.withDefaults()
}

func (b *Buffer[T]) label() string {
	if b.name == "" {
		return "buffer"
	}
	return b.name
}

// grow makes room for extra more elements. On error the buffer is untouched.
func (b *Buffer[T]) grow(extra int) error {
	old := len(b.data)
	if extra > math.MaxInt-b.n {
		return &GrowthError{Container: b.label(), Capacity: old, Required: math.MaxInt, Err: ErrAllocation}
	}
	required := b.n + extra

	capacity, err := b.policy().Next(old, required)
	if err != nil {
		return &GrowthError{Container: b.label(), Capacity: old, Required: required, Err: err}
	}
	data, err := allocate[T](capacity)
	if err != nil {
		return &GrowthError{Container: b.label(), Capacity: old, Required: required, Err: err}
	}

	b.copied += copy(data, b.data[:b.n])
	b.data = data
	b.reallocs++

	commonlog.GetLogger(logName).Debugf("%s grew from %d to %d (len %d)", b.label(), old, capacity, b.n)
	return nil
}

// allocate turns a failed make (capacity beyond what the runtime can
// address) into ErrAllocation. Exhausting memory still aborts the process.
func allocate[T any](capacity int) (data []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, ErrAllocation
		}
	}()
	return make([]T, capacity), nil
}
