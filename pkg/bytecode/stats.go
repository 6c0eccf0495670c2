package bytecode

import "fmt"

// Stats contains size and growth counters for a container.
type Stats struct {
	// Len is the number of stored elements.
	Len int

	// Cap is the number of elements storage is allocated for.
	Cap int

	// Reallocations counts storage replacements since the last release,
	// including the first allocation.
	Reallocations int

	// ElementsCopied is the total number of elements relocated by growth.
	ElementsCopied int
}

func (s Stats) String() string {
	return fmt.Sprintf("len=%d cap=%d reallocations=%d copied=%d",
		s.Len, s.Cap, s.Reallocations, s.ElementsCopied)
}
