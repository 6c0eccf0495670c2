package bytecode

import "iter"

// Chunk is the growable byte buffer holding an encoded instruction stream.
// The zero value is an empty chunk ready for use.
//
// Bytes in [0, Len()) never change once written. Storage may be replaced by
// Append or AppendBytes, so callers must not hold on to it across them.
type Chunk struct {
	buf Buffer[byte]
}

const chunkName = "chunk"

// NewChunk creates an empty chunk using DefaultGrowth. No storage is
// allocated until the first append.
func NewChunk() *Chunk {
	return NewChunkWithGrowth(DefaultGrowth)
}

// NewChunkWithGrowth creates an empty chunk that grows according to g.
func NewChunkWithGrowth(g Growth) *Chunk {
	return &Chunk{buf: newBuffer[byte](chunkName, g)}
}

// Append writes b at the end of the chunk.
func (c *Chunk) Append(b byte) error {
	return c.buf.named(chunkName).Append(b)
}

// AppendBytes writes bs at the end of the chunk. Either all of bs is
// written or, on error, none of it.
func (c *Chunk) AppendBytes(bs ...byte) error {
	return c.buf.named(chunkName).AppendAll(bs...)
}

// At returns the byte at offset i. It panics if i is outside [0, Len()).
func (c *Chunk) At(i int) byte {
	return c.buf.named(chunkName).At(i)
}

// All iterates the chunk's bytes with their offsets.
func (c *Chunk) All() iter.Seq2[int, byte] {
	return c.buf.All()
}

// Bytes returns a copy of the bytes written so far.
func (c *Chunk) Bytes() []byte {
	out := make([]byte, c.buf.Len())
	copy(out, c.buf.data[:c.buf.n])
	return out
}

// Len returns the number of bytes written.
func (c *Chunk) Len() int {
	return c.buf.Len()
}

// Cap returns the number of bytes storage is allocated for.
func (c *Chunk) Cap() int {
	return c.buf.Cap()
}

// Release drops the chunk's storage. The chunk is empty afterwards and may
// be reused. Releasing an empty chunk does nothing.
func (c *Chunk) Release() {
	c.buf.Release()
}

// Stats reports the chunk's size and growth counters.
func (c *Chunk) Stats() Stats {
	return c.buf.Stats()
}
