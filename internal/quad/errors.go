package quad

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTermCount indicates a term count that is odd or not positive.
	ErrInvalidTermCount = errors.New("quad: term count must be a positive even integer")

	// ErrInvertedBounds indicates an inner interval whose lower limit exceeds
	// its upper limit.
	ErrInvertedBounds = errors.New("quad: lower bound exceeds upper bound")
)

// BoundsError records the outer coordinate at which a region produced an
// unusable inner interval.
type BoundsError struct {
	Y       float64
	Lower   float64
	Upper   float64
	Wrapped error
}

func (e *BoundsError) Error() string {
	if e.Wrapped == ErrInvertedBounds {
		return fmt.Sprintf("%v at y=%g: [%g, %g]", e.Wrapped, e.Y, e.Lower, e.Upper)
	}
	return fmt.Sprintf("bounds at y=%g: %v", e.Y, e.Wrapped)
}

func (e *BoundsError) Unwrap() error {
	return e.Wrapped
}
