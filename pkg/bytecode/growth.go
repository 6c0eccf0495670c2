package bytecode

import (
	"fmt"
	"math"
)

// Growth is the capacity policy shared by every container in this package.
// A zero MaxElements means storage is bounded only by the range of int.
type Growth struct {
	MinCapacity int
	Factor      int
	MaxElements int
}

// DefaultGrowth starts at 8 elements and doubles.
var DefaultGrowth = Growth{MinCapacity: 8, Factor: 2}

// Validate reports whether g describes a usable policy.
func (g Growth) Validate() error {
	switch {
	case g.MinCapacity < 1:
		return fmt.Errorf("%w: min capacity %d, want >= 1", ErrInvalidGrowth, g.MinCapacity)
	case g.Factor < 2:
		return fmt.Errorf("%w: factor %d, want >= 2", ErrInvalidGrowth, g.Factor)
	case g.MaxElements < 0:
		return fmt.Errorf("%w: max elements %d, want >= 0", ErrInvalidGrowth, g.MaxElements)
	case g.MaxElements > 0 && g.MaxElements < g.MinCapacity:
		return fmt.Errorf("%w: max elements %d below min capacity %d", ErrInvalidGrowth, g.MaxElements, g.MinCapacity)
	}
	return nil
}

// withDefaults fills unset fields from DefaultGrowth.
func (g Growth) withDefaults() Growth {
	if g.MinCapacity == 0 {
		g.MinCapacity = DefaultGrowth.MinCapacity
	}
	if g.Factor == 0 {
		g.Factor = DefaultGrowth.Factor
	}
	return g
}

func (g Growth) limit() int {
	if g.MaxElements > 0 {
		return g.MaxElements
	}
	return math.MaxInt
}

// Next returns the capacity to grow to from capacity so that at least
// required elements fit. It returns ErrAllocation when required cannot be
// satisfied within the policy's limit, and ErrInvalidGrowth when g fails
// Validate.
func (g Growth) Next(capacity, required int) (int, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	limit := g.limit()
	if required < 0 || required > limit {
		return 0, ErrAllocation
	}
	if required <= capacity {
		return capacity, nil
	}

	var next int
	if capacity == 0 {
		next = g.MinCapacity
	} else if capacity > limit/g.Factor {
		next = limit
	} else {
		next = capacity * g.Factor
	}
	if next > limit {
		next = limit
	}
	if next < required {
		next = required
	}
	return next, nil
}
