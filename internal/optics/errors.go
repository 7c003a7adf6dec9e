package optics

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain indicates a physically meaningless argument, such as a zero
	// propagation distance.
	ErrDomain = errors.New("optics: argument outside valid domain")

	// ErrConfiguration indicates an inconsistent source or sampling setup.
	ErrConfiguration = errors.New("optics: inconsistent configuration")
)

// SampleError wraps the failure of a single screen point.
type SampleError struct {
	X        float64
	Y        float64
	Distance float64
	Wrapped  error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample (x=%g, y=%g) at z=%g: %v", e.X, e.Y, e.Distance, e.Wrapped)
}

func (e *SampleError) Unwrap() error {
	return e.Wrapped
}
