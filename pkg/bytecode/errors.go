package bytecode

import (
	"errors"
	"fmt"
)

var (
	// ErrAllocation is returned when a container cannot obtain storage for
	// the elements it was asked to hold. The container is left unchanged.
	ErrAllocation = errors.New("allocation failure")

	// ErrInvalidGrowth reports a Growth policy that cannot be used.
	ErrInvalidGrowth = errors.New("invalid growth policy")
)

// GrowthError describes a failed growth step.
type GrowthError struct {
	Container string
	Capacity  int
	Required  int
	Err       error
}

func (e *GrowthError) Error() string {
	return fmt.Sprintf("%s: grow from capacity %d to hold %d elements: %v",
		e.Container, e.Capacity, e.Required, e.Err)
}

func (e *GrowthError) Unwrap() error {
	return e.Err
}

func indexOutOfRange(container string, i, n int) string {
	return fmt.Sprintf("%s: index %d out of range [0:%d)", container, i, n)
}
