package profile

import (
	"github.com/chazu/caby/pkg/bytecode"
)

const (
	ContainerChunk = "chunk"
	ContainerPool  = "constant pool"
)

// MeasureChunk appends data byte by byte to a fresh chunk grown by g and
// returns the resulting run. The chunk is released before returning.
func MeasureChunk(source string, data []byte, g bytecode.Growth) (Run, error) {
	c := bytecode.NewChunkWithGrowth(g)
	defer c.Release()

	run := Run{Container: ContainerChunk, Source: source, Growth: g}
	for _, b := range data {
		if err := c.Append(b); err != nil {
			run.Stats = c.Stats()
			return run, err
		}
		run.Trace.Observe(c.Cap())
	}
	run.Stats = c.Stats()
	return run, nil
}

// MeasurePool adds every entry to a fresh constant pool grown by g and
// returns the resulting run.
func MeasurePool[T any](source string, entries []T, g bytecode.Growth) (Run, error) {
	p := bytecode.NewConstantPoolWithGrowth[T](g)
	defer p.Release()

	run := Run{Container: ContainerPool, Source: source, Growth: g}
	for _, e := range entries {
		if _, err := p.Add(e); err != nil {
			run.Stats = p.Stats()
			return run, err
		}
		run.Trace.Observe(p.Cap())
	}
	run.Stats = p.Stats()
	return run, nil
}
