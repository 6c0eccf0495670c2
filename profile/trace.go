package profile

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/chazu/caby/pkg/bytecode"
)

// Trace is the sequence of capacities a container passed through, in order.
type Trace []int

// Observe records capacity if it differs from the last recorded one.
func (t *Trace) Observe(capacity int) {
	if n := len(*t); n > 0 && (*t)[n-1] == capacity {
		return
	}
	if len(*t) == 0 && capacity == 0 {
		return
	}
	*t = append(*t, capacity)
}

// traceRecord is what gets stored in the trace column.
type traceRecord struct {
	MinCapacity int   `cbor:"1,keyasint"`
	Factor      int   `cbor:"2,keyasint"`
	MaxElements int   `cbor:"3,keyasint,omitempty"`
	Capacities  []int `cbor:"4,keyasint"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("profile: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalTrace encodes a growth policy and the trace it produced.
func MarshalTrace(g bytecode.Growth, t Trace) ([]byte, error) {
	return cborEncMode.Marshal(traceRecord{
		MinCapacity: g.MinCapacity,
		Factor:      g.Factor,
		MaxElements: g.MaxElements,
		Capacities:  t,
	})
}

// UnmarshalTrace decodes data written by MarshalTrace.
func UnmarshalTrace(data []byte) (bytecode.Growth, Trace, error) {
	var r traceRecord
	if err := cbor.Unmarshal(data, &r); err != nil {
		return bytecode.Growth{}, nil, fmt.Errorf("profile: unmarshal trace: %w", err)
	}
	g := bytecode.Growth{MinCapacity: r.MinCapacity, Factor: r.Factor, MaxElements: r.MaxElements}
	return g, Trace(r.Capacities), nil
}
