// Package bytecode provides the storage containers a bytecode VM is built on:
// the Chunk, a growable byte buffer holding an encoded instruction stream, and
// the ConstantPool, an append-only list of constant references addressed by
// index.
//
// # Growth
//
// Both containers embed the same generic Buffer and therefore grow the same
// way. A Growth policy starts at MinCapacity elements and multiplies the
// capacity by Factor whenever it runs out, so N appends from empty cost
// O(log N) reallocations. Growth copies the live elements into new storage
// before the old storage is dropped.
//
// A container is either empty (no storage, capacity 0) or allocated. The
// first Append or Add allocates; only Release returns it to empty.
//
// # Failure
//
// When storage cannot be obtained, Append, AppendBytes and Add return an
// error wrapping ErrAllocation and leave the container exactly as it was:
// no partial writes, no length change, no index handed out. A MaxElements
// limit on the Growth policy turns runaway code generation into such an
// error instead of an out-of-memory abort.
//
// # Ownership
//
// Containers are not safe for concurrent mutation. A Chunk or ConstantPool
// belongs to one compilation or execution context at a time. The pool stores
// references and never releases the objects they point to.
//
// Example:
//
//	chunk := bytecode.NewChunk()
//	pool := bytecode.NewConstantPool[Object]()
//
//	idx, err := pool.Add(obj)
//	if err != nil {
//	    return err
//	}
//	if err := chunk.AppendBytes(opConst, byte(idx)); err != nil {
//	    return err
//	}
package bytecode
