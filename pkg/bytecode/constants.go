package bytecode

import "iter"

// ConstantPool is an append-only list of constant references addressed by
// the index Add returns. References are stored as given; the pool never
// compares or copies what they point to, so adding the same reference twice
// yields two indices.
//
// The zero value is an empty pool ready for use.
type ConstantPool[T any] struct {
	buf Buffer[T]
}

const poolName = "constant pool"

// NewConstantPool creates an empty pool using DefaultGrowth.
func NewConstantPool[T any]() *ConstantPool[T] {
	return NewConstantPoolWithGrowth[T](DefaultGrowth)
}

// NewConstantPoolWithGrowth creates an empty pool that grows according to g.
func NewConstantPoolWithGrowth[T any](g Growth) *ConstantPool[T] {
	return &ConstantPool[T]{buf: newBuffer[T](poolName, g)}
}

// Add stores ref and returns its index. Indices start at 0, increase by one
// per call and stay valid until Release. On error no index is assigned.
func (p *ConstantPool[T]) Add(ref T) (int, error) {
	idx := p.buf.Len()
	if err := p.buf.named(poolName).Append(ref); err != nil {
		return 0, err
	}
	return idx, nil
}

// Get returns the reference stored at index. It panics if index was not
// returned by Add since the last Release.
func (p *ConstantPool[T]) Get(index int) T {
	return p.buf.named(poolName).At(index)
}

// All iterates the stored references with their indices.
func (p *ConstantPool[T]) All() iter.Seq2[int, T] {
	return p.buf.All()
}

// Len returns the number of stored references.
func (p *ConstantPool[T]) Len() int {
	return p.buf.Len()
}

// Cap returns the number of references storage is allocated for.
func (p *ConstantPool[T]) Cap() int {
	return p.buf.Cap()
}

// Release drops the pool's storage and every index it handed out. The
// referenced objects themselves are not touched.
func (p *ConstantPool[T]) Release() {
	p.buf.Release()
}

// Stats reports the pool's size and growth counters.
func (p *ConstantPool[T]) Stats() Stats {
	return p.buf.Stats()
}
